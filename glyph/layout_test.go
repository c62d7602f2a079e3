package glyph

import (
	"strings"
	"testing"

	"github.com/oliverbestmann/glyphdepth/assets"
	"github.com/oliverbestmann/glyphdepth/glm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advanceOf(t *testing.T, font *Font, scale float32, r rune) float32 {
	t.Helper()

	face, err := font.face(font.ppem(scale))
	require.NoError(t, err)

	adv, ok := face.GlyphAdvance(r)
	require.True(t, ok)

	return fixedToFloat(adv)
}

func lineCount(glyphs []PositionedGlyph) int {
	lines := map[float32]bool{}
	for _, glyph := range glyphs {
		lines[glyph.Origin[1]] = true
	}

	return len(lines)
}

func TestLayoutSingleLine(t *testing.T) {
	font := testFont(t)

	metrics, err := font.VMetrics(30)
	require.NoError(t, err)

	glyphs, err := font.Layout(Section{
		ScreenPosition: glm.Vec2f{10, 20},
		Text:           "ab",
		Scale:          30,
	})

	require.NoError(t, err)
	require.Len(t, glyphs, 2)

	assert.Equal(t, 'a', glyphs[0].Rune)
	assert.Equal(t, 'b', glyphs[1].Rune)

	assert.Equal(t, float32(10), glyphs[0].Origin[0])
	assert.Equal(t, 20+metrics.Ascent, glyphs[0].Origin[1])

	assert.InDelta(t, 10+advanceOf(t, font, 30, 'a'), glyphs[1].Origin[0], 0.01)
	assert.Equal(t, glyphs[0].Origin[1], glyphs[1].Origin[1])
}

func TestLayoutMandatoryLineBreak(t *testing.T) {
	font := testFont(t)

	metrics, err := font.VMetrics(30)
	require.NoError(t, err)

	glyphs, err := font.Layout(Section{Text: "a\nb", Scale: 30})
	require.NoError(t, err)
	require.Len(t, glyphs, 2)

	assert.Equal(t, float32(0), glyphs[1].Origin[0])
	assert.InDelta(t, metrics.LineHeight(), glyphs[1].Origin[1]-glyphs[0].Origin[1], 0.01)
}

func TestLayoutWrapsAtWordBoundaries(t *testing.T) {
	font := testFont(t)

	adv := advanceOf(t, font, 30, 'a')

	glyphs, err := font.Layout(Section{
		Bounds: glm.Vec2f{5.5 * adv, 0},
		Text:   "aaa bbb ccc",
		Scale:  30,
	})

	require.NoError(t, err)
	require.Len(t, glyphs, 9)

	assert.Equal(t, 3, lineCount(glyphs))

	// every line starts at the left edge, leading spaces are dropped
	assert.Equal(t, float32(0), glyphs[3].Origin[0])
	assert.Equal(t, float32(0), glyphs[6].Origin[0])
}

func TestLayoutBreaksWordsWiderThanBounds(t *testing.T) {
	font := testFont(t)

	adv := advanceOf(t, font, 30, 'a')

	glyphs, err := font.Layout(Section{
		Bounds: glm.Vec2f{2.5 * adv, 0},
		Text:   "aaaaa",
		Scale:  30,
	})

	require.NoError(t, err)
	require.Len(t, glyphs, 5)

	assert.Equal(t, 3, lineCount(glyphs))

	for _, glyph := range glyphs {
		assert.Less(t, glyph.Origin[0], 2.5*adv)
	}
}

func TestLayoutDropsLinesBelowBounds(t *testing.T) {
	font := testFont(t)

	metrics, err := font.VMetrics(30)
	require.NoError(t, err)

	glyphs, err := font.Layout(Section{
		Bounds: glm.Vec2f{1000, 1.5 * metrics.LineHeight()},
		Text:   "a\nb\nc\nd",
		Scale:  30,
	})

	require.NoError(t, err)

	require.Len(t, glyphs, 2)
	assert.Equal(t, 'a', glyphs[0].Rune)
	assert.Equal(t, 'b', glyphs[1].Rune)
}

func TestLayoutSkipsControlCharacters(t *testing.T) {
	font := testFont(t)

	glyphs, err := font.Layout(Section{Text: "a\x00\rb", Scale: 30})
	require.NoError(t, err)

	require.Len(t, glyphs, 2)
	assert.Equal(t, 1, lineCount(glyphs))
}

func TestLayoutNormalizesText(t *testing.T) {
	font := testFont(t)

	glyphs, err := font.Layout(Section{Text: "e\u0301", Scale: 30})
	require.NoError(t, err)

	require.Len(t, glyphs, 1)
	assert.Equal(t, '\u00e9', glyphs[0].Rune)
}

func TestLayoutOfZeroScaleIsEmpty(t *testing.T) {
	font := testFont(t)

	glyphs, err := font.Layout(Section{Text: "abc"})
	require.NoError(t, err)
	assert.Empty(t, glyphs)
}

func TestLayoutRewrapsWithBounds(t *testing.T) {
	font := testFont(t)

	text := strings.Split(assets.Lipsum, "\n\n")[0]

	narrow, err := font.Layout(Section{Bounds: glm.Vec2f{800, 0}, Text: text, Scale: 30})
	require.NoError(t, err)

	wide, err := font.Layout(Section{Bounds: glm.Vec2f{1024, 0}, Text: text, Scale: 30})
	require.NoError(t, err)

	assert.Len(t, wide, len(narrow))
	assert.Greater(t, lineCount(narrow), lineCount(wide))

	for _, glyph := range wide {
		assert.Less(t, glyph.Origin[0], float32(1024))
	}
}
