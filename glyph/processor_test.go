package glyph

import (
	"testing"

	"github.com/oliverbestmann/glyphdepth/glm"
	"github.com/oliverbestmann/glyphdepth/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorQueueIsEmptyAfterProcess(t *testing.T) {
	proc := NewProcessor(testFont(t))

	proc.Queue(Section{Text: "one", Scale: 20})
	proc.Queue(Section{Text: "two", Scale: 20})
	assert.Equal(t, 2, proc.Len())

	quads, err := proc.Process()
	require.NoError(t, err)

	assert.Len(t, quads, 6)
	assert.Equal(t, 0, proc.Len())

	// nothing left to draw
	quads, err = proc.Process()
	require.NoError(t, err)
	assert.Empty(t, quads)
}

func TestProcessorQueueIsEmptyAfterError(t *testing.T) {
	if testing.Short() {
		t.Skip("rasterizes a huge glyph")
	}

	proc := NewProcessor(testFont(t))

	// a single glyph larger than the biggest possible atlas
	proc.Queue(Section{Text: "M", Scale: 10_000})

	_, err := proc.Process()
	assert.ErrorIs(t, err, ErrAtlasFull)
	assert.Equal(t, 0, proc.Len())
}

func TestProcessorQuadAttributes(t *testing.T) {
	proc := NewProcessor(testFont(t))

	color := pulse.ColorLinearRGBA(0.8, 0.6, 0.4, 1)

	proc.Queue(Section{
		ScreenPosition: glm.Vec2f{30, 30},
		Text:           "a b",
		Scale:          40,
		Color:          color,
		Z:              0.9,
	})

	quads, err := proc.Process()
	require.NoError(t, err)

	// the space has no coverage and produces no quad
	require.Len(t, quads, 2)

	for _, quad := range quads {
		assert.Equal(t, DeviceDepth(0.9), quad.LeftTop[2])
		assert.Equal(t, color.ToVec(), quad.Color)

		assert.Less(t, quad.LeftTop[0], quad.RightBottom[0])
		assert.Less(t, quad.LeftTop[1], quad.RightBottom[1])
		assert.Less(t, quad.TexLeftTop[0], quad.TexRightBottom[0])
		assert.Less(t, quad.TexLeftTop[1], quad.TexRightBottom[1])

		// quads are aligned to the pixel grid
		assert.Equal(t, float32(int(quad.LeftTop[0])), quad.LeftTop[0])
		assert.Equal(t, float32(int(quad.LeftTop[1])), quad.LeftTop[1])
	}

	assert.Less(t, quads[0].LeftTop[0], quads[1].LeftTop[0])
}

func TestProcessorClampsDepthKey(t *testing.T) {
	proc := NewProcessor(testFont(t))

	proc.Queue(Section{Text: "a", Scale: 20, Z: 2})
	proc.Queue(Section{Text: "a", Scale: 20, Z: -1})

	quads, err := proc.Process()
	require.NoError(t, err)
	require.Len(t, quads, 2)

	assert.Equal(t, float32(1), quads[0].LeftTop[2])
	assert.Equal(t, float32(0.5), quads[1].LeftTop[2])
}

func TestProcessorGrowsAtlas(t *testing.T) {
	proc := NewProcessor(testFont(t))

	var text []rune
	for r := 'A'; r <= 'z'; r++ {
		text = append(text, r)
	}

	proc.Queue(Section{Text: string(text), Scale: 120})

	quads, err := proc.Process()
	require.NoError(t, err)

	assert.Greater(t, proc.Atlas().Size(), initialAtlasSize)

	// all quads reference the final atlas
	for _, quad := range quads {
		assert.LessOrEqual(t, quad.TexRightBottom[0], float32(1))
		assert.LessOrEqual(t, quad.TexRightBottom[1], float32(1))
	}
}
