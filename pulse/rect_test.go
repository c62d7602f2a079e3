package pulse

import (
	"testing"

	"github.com/oliverbestmann/glyphdepth/glm"
	"github.com/stretchr/testify/assert"
)

func TestRectangleContains(t *testing.T) {
	outer := RectangleFromXYWH[uint32](0, 0, 64, 32)

	assert.True(t, outer.Contains(RectangleFromXYWH[uint32](0, 0, 64, 32)))
	assert.True(t, outer.Contains(RectangleFromXYWH[uint32](10, 4, 8, 8)))
	assert.False(t, outer.Contains(RectangleFromXYWH[uint32](60, 0, 8, 8)))
	assert.False(t, outer.Contains(RectangleFromXYWH[uint32](0, 30, 8, 8)))
}

func TestRectangleUnionIgnoresEmpty(t *testing.T) {
	var empty Rectangle2u
	a := RectangleFromXYWH[uint32](4, 4, 2, 2)
	b := RectangleFromXYWH[uint32](10, 0, 1, 1)

	assert.Equal(t, a, empty.Union(a))
	assert.Equal(t, a, a.Union(empty))
	assert.Equal(t, RectangleFromPoints(glm.Vec2u{4, 0}, glm.Vec2u{11, 6}), a.Union(b))
}

func TestRectangleFromPointsNormalizes(t *testing.T) {
	r := RectangleFromPoints(glm.Vec2f{10, 2}, glm.Vec2f{4, 8})

	x, y, w, h := r.XYWH()
	assert.Equal(t, []float32{4, 2, 6, 6}, []float32{x, y, w, h})
}
