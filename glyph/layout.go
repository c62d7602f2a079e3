package glyph

import (
	"math"
	"unicode"

	"github.com/oliverbestmann/glyphdepth/glm"
	"golang.org/x/image/font"
	"golang.org/x/text/unicode/norm"
)

var unbounded = float32(math.Inf(1))

// PositionedGlyph is a single rune placed on its baseline.
type PositionedGlyph struct {
	Rune rune

	// pen position on the baseline in screen pixels
	Origin glm.Vec2f
}

type layoutToken struct {
	runes []rune
	space bool
}

// tokenize splits a single line into alternating runs of spaces and words.
func tokenize(line []rune) []layoutToken {
	var tokens []layoutToken

	for _, r := range line {
		space := unicode.IsSpace(r)

		if len(tokens) == 0 || tokens[len(tokens)-1].space != space {
			tokens = append(tokens, layoutToken{space: space})
		}

		last := &tokens[len(tokens)-1]
		last.runes = append(last.runes, r)
	}

	return tokens
}

// splitLines splits on mandatory line breaks and drops other control characters.
func splitLines(text string) [][]rune {
	lines := [][]rune{nil}

	for _, r := range norm.NFC.String(text) {
		switch {
		case r == '\n':
			lines = append(lines, nil)

		case r == '\t':
			lines[len(lines)-1] = append(lines[len(lines)-1], ' ', ' ', ' ', ' ')

		case unicode.IsControl(r):
			continue

		default:
			lines[len(lines)-1] = append(lines[len(lines)-1], r)
		}
	}

	return lines
}

type layouter struct {
	face    font.Face
	metrics VMetrics
	origin  glm.Vec2f

	maxWidth, maxHeight float32

	// pen position relative to origin
	x, baseline float32

	prev    rune
	wrapped bool

	done   bool
	glyphs []PositionedGlyph
}

// Layout places the glyphs of a section. Lines wrap at word boundaries
// within the section width, words wider than the section are broken at
// character boundaries. Lines starting below the section height are dropped.
func (f *Font) Layout(section Section) ([]PositionedGlyph, error) {
	ppem := f.ppem(section.Scale)
	if ppem <= 0 {
		return nil, nil
	}

	face, err := f.face(ppem)
	if err != nil {
		return nil, err
	}

	metrics, err := f.VMetrics(section.Scale)
	if err != nil {
		return nil, err
	}

	maxWidth, maxHeight := section.bounded()

	l := &layouter{
		face:      face,
		metrics:   metrics,
		origin:    section.ScreenPosition,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		baseline:  metrics.Ascent,
	}

	for idx, line := range splitLines(section.Text) {
		if idx > 0 {
			l.newline(false)
		}

		l.layoutLine(line)

		if l.done {
			break
		}
	}

	return l.glyphs, nil
}

func (l *layouter) layoutLine(line []rune) {
	for _, token := range tokenize(line) {
		if l.done {
			return
		}

		if token.space {
			// spaces at the start of a wrapped line are dropped
			if l.x == 0 && l.wrapped {
				continue
			}

			l.place(token.runes)
			continue
		}

		width := l.measure(token.runes)

		if l.x > 0 && l.x+width > l.maxWidth {
			l.newline(true)

			if l.done {
				return
			}
		}

		if width > l.maxWidth {
			l.placeBreaking(token.runes)
		} else {
			l.place(token.runes)
		}
	}
}

func (l *layouter) newline(wrapped bool) {
	l.x = 0
	l.baseline += l.metrics.LineHeight()

	l.wrapped = wrapped
	l.prev = 0

	lineTop := l.baseline - l.metrics.Ascent
	if lineTop >= l.maxHeight {
		l.done = true
	}
}

func (l *layouter) advance(r rune) float32 {
	adv, ok := l.face.GlyphAdvance(r)
	if !ok {
		adv, _ = l.face.GlyphAdvance(unicode.ReplacementChar)
	}

	advance := fixedToFloat(adv)

	if l.prev != 0 {
		advance += fixedToFloat(l.face.Kern(l.prev, r))
	}

	return advance
}

func (l *layouter) measure(runes []rune) float32 {
	var width float32

	prev := l.prev

	for _, r := range runes {
		adv, _ := l.face.GlyphAdvance(r)
		width += fixedToFloat(adv)

		if prev != 0 {
			width += fixedToFloat(l.face.Kern(prev, r))
		}

		prev = r
	}

	return width
}

func (l *layouter) place(runes []rune) {
	for _, r := range runes {
		l.placeRune(r)
	}
}

func (l *layouter) placeBreaking(runes []rune) {
	for _, r := range runes {
		if l.done {
			return
		}

		if l.x > 0 && l.x+l.advance(r) > l.maxWidth {
			l.newline(true)

			if l.done {
				return
			}
		}

		l.placeRune(r)
	}
}

func (l *layouter) placeRune(r rune) {
	advance := l.advance(r)

	// kerning shifts the glyph itself, not only the following pen position
	kern := float32(0)
	if l.prev != 0 {
		kern = fixedToFloat(l.face.Kern(l.prev, r))
	}

	if !unicode.IsSpace(r) {
		l.glyphs = append(l.glyphs, PositionedGlyph{
			Rune: r,
			Origin: glm.Vec2f{
				l.origin[0] + l.x + kern,
				l.origin[1] + l.baseline,
			},
		})
	}

	l.x += advance
	l.prev = r
}
