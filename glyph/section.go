package glyph

import (
	"github.com/oliverbestmann/glyphdepth/glm"
	"github.com/oliverbestmann/glyphdepth/pulse"
)

// Section is a unit of queued text. It is owned by the queue between
// Queue and the next flush.
type Section struct {
	// top left corner of the text in pixels
	ScreenPosition glm.Vec2f

	// Maximum width and height of the laid out text. Text is wrapped at the
	// width and lines below the height are dropped. A zero value means unbounded.
	Bounds glm.Vec2f

	Text string

	// pixel height of the font
	Scale float32

	Color pulse.Color

	// Depth key in [0, 1]. A glyph with a larger Z occludes glyphs with
	// a smaller Z, independent of the order they were queued in.
	Z float32
}

func (s Section) bounded() (width, height float32) {
	width, height = s.Bounds.XY()

	if width <= 0 {
		width = unbounded
	}

	if height <= 0 {
		height = unbounded
	}

	return
}

func (s Section) depthKey() float32 {
	return min(1, max(0, s.Z))
}
