package glyph

import "github.com/oliverbestmann/glyphdepth/glm"

// Quad is the per instance vertex data of one glyph. The layout matches
// the instance buffer layout of the glyph shader.
type Quad struct {
	// screen position in pixels, z holds the device depth
	LeftTop     glm.Vec3f
	RightBottom glm.Vec2f

	// normalized atlas coordinates
	TexLeftTop     glm.Vec2f
	TexRightBottom glm.Vec2f

	// straight alpha color in linear rgb
	Color glm.Vec4f
}
