package glyph

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed TrueType font. A scale given to a Font is the pixel height
// of the font, that is the distance from the lowest descender to the highest
// ascender, not the size of the em square.
type Font struct {
	font *opentype.Font

	// (ascent + descent) / unitsPerEm
	heightPerEm float64

	faces *lru.Cache[fixed.Int26_6, font.Face]
}

// VMetrics are the vertical metrics of a Font at a given scale in pixels.
type VMetrics struct {
	Ascent  float32
	Descent float32
	LineGap float32
}

// LineHeight is the distance between the baselines of two lines.
func (m VMetrics) LineHeight() float32 {
	return m.Ascent + m.Descent + m.LineGap
}

func ParseFont(ttf []byte) (*Font, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	upem := parsed.UnitsPerEm()

	var buf sfnt.Buffer
	metrics, err := parsed.Metrics(&buf, fixed.I(int(upem)), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("read font metrics: %w", err)
	}

	height := metrics.Ascent + metrics.Descent
	if height <= 0 {
		return nil, fmt.Errorf("font has invalid vertical metrics")
	}

	faces, _ := lru.NewWithEvict[fixed.Int26_6, font.Face](8, closeFaceOnEvict)

	f := &Font{
		font:        parsed,
		heightPerEm: float64(height) / float64(fixed.I(int(upem))),
		faces:       faces,
	}

	return f, nil
}

func closeFaceOnEvict(_ fixed.Int26_6, face font.Face) {
	_ = face.Close()
}

// ppem returns the size of the em square in pixels for a font scale.
func (f *Font) ppem(scale float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(scale) / f.heightPerEm * 64))
}

// face returns the font face for the given pixel size. Faces are cached
// and must not be closed by the caller.
func (f *Font) face(ppem fixed.Int26_6) (font.Face, error) {
	face, ok := f.faces.Get(ppem)
	if ok {
		return face, nil
	}

	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(ppem) / 64,
		DPI:     72,
		Hinting: font.HintingNone,
	})

	if err != nil {
		return nil, fmt.Errorf("create face at %v: %w", ppem, err)
	}

	f.faces.Add(ppem, face)

	return face, nil
}

func (f *Font) VMetrics(scale float32) (VMetrics, error) {
	face, err := f.face(f.ppem(scale))
	if err != nil {
		return VMetrics{}, err
	}

	metrics := face.Metrics()

	ascent := fixedToFloat(metrics.Ascent)
	descent := fixedToFloat(metrics.Descent)

	return VMetrics{
		Ascent:  ascent,
		Descent: descent,
		LineGap: max(0, fixedToFloat(metrics.Height)-ascent-descent),
	}, nil
}

// Close releases all cached faces.
func (f *Font) Close() {
	f.faces.Purge()
}

func fixedToFloat(value fixed.Int26_6) float32 {
	return float32(value) / 64
}
