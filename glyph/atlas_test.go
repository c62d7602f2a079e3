package glyph

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledAlpha(width, height int, value uint8) *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, width, height))
	for idx := range img.Pix {
		img.Pix[idx] = value
	}

	return img
}

func TestAtlasInsertCopiesCoverage(t *testing.T) {
	atlas := NewAtlas(64)

	region, err := atlas.Insert(filledAlpha(10, 12, 200))
	require.NoError(t, err)

	assert.Equal(t, 10, region.Dx())
	assert.Equal(t, 12, region.Dy())
	assert.Equal(t, uint8(200), atlas.Image().AlphaAt(region.Min.X, region.Min.Y).A)
	assert.Equal(t, uint8(200), atlas.Image().AlphaAt(region.Max.X-1, region.Max.Y-1).A)

	assert.Equal(t, region, atlas.TakeDirty())
	assert.True(t, atlas.TakeDirty().Empty())
}

func TestAtlasRegionsDoNotOverlap(t *testing.T) {
	atlas := NewAtlas(64)

	var regions []image.Rectangle
	for idx := 0; idx < 20; idx++ {
		region, err := atlas.Insert(filledAlpha(7+idx%3, 5+idx%4, 255))
		require.NoError(t, err)

		assert.True(t, region.In(atlas.Image().Rect))

		for _, other := range regions {
			assert.False(t, region.Overlaps(other), "%v overlaps %v", region, other)
		}

		regions = append(regions, region)
	}
}

func TestAtlasFull(t *testing.T) {
	atlas := NewAtlas(16)

	_, err := atlas.Insert(filledAlpha(16, 4, 255))
	assert.ErrorIs(t, err, ErrAtlasFull)

	for idx := 0; idx < 3; idx++ {
		_, err = atlas.Insert(filledAlpha(14, 4, 255))
		require.NoError(t, err)
	}

	_, err = atlas.Insert(filledAlpha(14, 4, 255))
	assert.ErrorIs(t, err, ErrAtlasFull)
}

func TestAtlasClear(t *testing.T) {
	atlas := NewAtlas(16)

	_, err := atlas.Insert(filledAlpha(14, 14, 255))
	require.NoError(t, err)

	atlas.Clear()

	assert.Equal(t, uint8(0), atlas.Image().AlphaAt(0, 0).A)
	assert.Equal(t, atlas.Image().Rect, atlas.TakeDirty())

	_, err = atlas.Insert(filledAlpha(14, 14, 255))
	assert.NoError(t, err)
}

func TestAtlasGrowStopsAtMaximum(t *testing.T) {
	atlas := NewAtlas(MaxAtlasSize / 2)

	assert.True(t, atlas.Grow())
	assert.Equal(t, MaxAtlasSize, atlas.Size())

	assert.False(t, atlas.Grow())
	assert.Equal(t, MaxAtlasSize, atlas.Size())
}
