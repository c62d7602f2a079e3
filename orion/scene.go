package orion

import (
	"strings"

	"github.com/oliverbestmann/glyphdepth/assets"
	"github.com/oliverbestmann/glyphdepth/glm"
	"github.com/oliverbestmann/glyphdepth/glyph"
	"github.com/oliverbestmann/glyphdepth/pulse"
)

// Scene provides the sections to draw in a frame.
type Scene interface {
	// Sections returns the sections in queue order for a surface of the given size.
	Sections(width, height uint32) []glyph.Section
}

// DepthScene draws a large "On top" label over a page of body text. The
// label has the larger depth key and occludes the body text.
type DepthScene struct {
	// queue the body text before the label
	Reversed bool

	body string
}

func NewDepthScene() *DepthScene {
	return &DepthScene{
		body: strings.Repeat(strings.ReplaceAll(assets.Lipsum, "\n\n", ""), 10),
	}
}

func (s *DepthScene) Sections(width, height uint32) []glyph.Section {
	top := glyph.Section{
		ScreenPosition: glm.Vec2f{30, 30},
		Text:           "On top",
		Scale:          95,
		Color:          pulse.ColorLinearRGBA(0.8, 0.8, 0.8, 1),
		Z:              0.9,
	}

	body := glyph.Section{
		Bounds: glm.Vec2f{float32(width), float32(height)},
		Text:   s.body,
		Scale:  30,
		Color:  pulse.ColorLinearRGBA(0.05, 0.05, 0.10, 1),
		Z:      0.2,
	}

	if s.Reversed {
		return []glyph.Section{body, top}
	}

	return []glyph.Section{top, body}
}
