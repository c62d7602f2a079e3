package glyph

import (
	"testing"

	"github.com/oliverbestmann/glyphdepth/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFont(t *testing.T) *Font {
	t.Helper()

	font, err := ParseFont(assets.FontTTF)
	require.NoError(t, err)

	t.Cleanup(font.Close)

	return font
}

func TestParseFontRejectsGarbage(t *testing.T) {
	_, err := ParseFont([]byte("not a font"))
	assert.Error(t, err)
}

func TestVMetricsScaleWithFontHeight(t *testing.T) {
	font := testFont(t)

	metrics, err := font.VMetrics(30)
	require.NoError(t, err)

	// the scale is the distance from descender to ascender
	assert.InDelta(t, 30, metrics.Ascent+metrics.Descent, 0.1)
	assert.GreaterOrEqual(t, metrics.LineHeight(), metrics.Ascent+metrics.Descent)

	double, err := font.VMetrics(60)
	require.NoError(t, err)

	assert.InDelta(t, 2*metrics.Ascent, double.Ascent, 0.1)
}
