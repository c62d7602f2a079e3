package pulse

import (
	"math"

	"github.com/oliverbestmann/glyphdepth/glm"
)

// Color is an a straight rgba color value with alpha in linear rgb color space.
// The default value of a Color value is fully opaque white.
type Color struct {
	r1, g1, b1, a1 float32
}

// ColorOf converts the linear rgb values from the given vector to a Color instance.
func ColorOf(color glm.Vec4f) Color {
	return ColorLinearRGBA(color[0], color[1], color[2], color[3])
}

// ColorLinearRGBA creates a new Color value from the given color values.
func ColorLinearRGBA(r, g, b, a float32) Color {
	return Color{
		r1: r - 1,
		g1: g - 1,
		b1: b - 1,
		a1: a - 1,
	}
}

// ToVec returns a glm.Vec4f containing the components of this Color instance in
// linear rgb space.
func (c Color) ToVec() glm.Vec4f {
	return glm.Vec4f{
		c.r1 + 1,
		c.g1 + 1,
		c.b1 + 1,
		c.a1 + 1,
	}
}

// Components returns the color components.
func (c Color) Components() (r, g, b, a float32) {
	return c.ToVec().XYZW()
}

// ToSRGB8 encodes the color into 8 bit non linear srgb components,
// the way a *Srgb texture format stores it.
func (c Color) ToSRGB8() (r, g, b, a uint8) {
	vec := c.ToVec()

	r = quantize(gamma(vec[0]))
	g = quantize(gamma(vec[1]))
	b = quantize(gamma(vec[2]))
	a = quantize(vec[3])

	return
}

func gamma(value float32) float32 {
	x := float64(value)

	// https://www.w3.org/TR/css-color-4/#color-conversion-code
	sign := math.Copysign(1, x)
	abs := math.Abs(x)
	if abs <= 0.0031308 {
		return float32(x * 12.92)
	}

	return float32(sign * (1.055*math.Pow(abs, 1/2.4) - 0.055))
}

func quantize(value float32) uint8 {
	return uint8(math.Round(float64(min(1, max(0, value)) * 255)))
}
