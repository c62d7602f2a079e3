package glyph

import (
	"image"
	"image/color"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/glyphdepth/glm"
	"github.com/oliverbestmann/glyphdepth/pulse"
)

// Canvas rasterizes processed glyph quads on the cpu. It follows the same rules
// as the glyph pipeline: device depth mapping, depth compare and writes,
// discard of uncovered fragments and straight alpha blending in linear rgb.
type Canvas struct {
	// depth state used for all draws, DefaultDepthStencilState initially
	DepthStencil wgpu.DepthStencilState

	width, height int

	// linear rgba
	color []glm.Vec4f

	// device depth
	depth []float32
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		DepthStencil: DefaultDepthStencilState(),
		width:        width,
		height:       height,
		color:        make([]glm.Vec4f, width*height),
		depth:        make([]float32, width*height),
	}
}

func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Clear fills the color buffer, same as a clear pass does.
func (c *Canvas) Clear(color pulse.Color) {
	value := color.ToVec()

	for idx := range c.color {
		c.color[idx] = value
	}
}

// DrawQueued processes the queue of p and draws all quads. The depth buffer is
// cleared to depth.ClearDepth first. The queue is empty afterward.
func (c *Canvas) DrawQueued(p *Processor, depth DepthAttachment) error {
	clearDepth := DeviceDepth(depth.ClearDepth)
	for idx := range c.depth {
		c.depth[idx] = clearDepth
	}

	quads, err := p.Process()
	if err != nil {
		return err
	}

	atlas := p.Atlas().Image()
	atlasSize := float32(atlas.Rect.Dx())

	for _, quad := range quads {
		c.drawQuad(quad, atlas, atlasSize)
	}

	return nil
}

func (c *Canvas) drawQuad(quad Quad, atlas *image.Alpha, atlasSize float32) {
	x0, y0 := roundInt(quad.LeftTop[0]), roundInt(quad.LeftTop[1])
	x1, y1 := roundInt(quad.RightBottom[0]), roundInt(quad.RightBottom[1])

	tx := roundInt(quad.TexLeftTop[0] * atlasSize)
	ty := roundInt(quad.TexLeftTop[1] * atlasSize)

	fragDepth := quad.LeftTop[2]

	for y := max(0, y0); y < min(c.height, y1); y++ {
		for x := max(0, x0); x < min(c.width, x1); x++ {
			coverage := float32(atlas.AlphaAt(tx+x-x0, ty+y-y0).A) / 255
			if coverage <= 0 {
				continue
			}

			idx := y*c.width + x

			if !depthTest(c.DepthStencil.DepthCompare, fragDepth, c.depth[idx]) {
				continue
			}

			if c.DepthStencil.DepthWriteEnabled {
				c.depth[idx] = fragDepth
			}

			c.color[idx] = blendAlpha(quad.Color, coverage, c.color[idx])
		}
	}
}

// blendAlpha applies wgpu.BlendStateAlphaBlending to a fragment.
func blendAlpha(src glm.Vec4f, coverage float32, dst glm.Vec4f) glm.Vec4f {
	alpha := src[3] * coverage

	return glm.Vec4f{
		src[0]*alpha + dst[0]*(1-alpha),
		src[1]*alpha + dst[1]*(1-alpha),
		src[2]*alpha + dst[2]*(1-alpha),
		alpha + dst[3]*(1-alpha),
	}
}

// At returns the color at the given pixel.
func (c *Canvas) At(x, y int) pulse.Color {
	return pulse.ColorOf(c.color[y*c.width+x])
}

// DepthAt returns the device depth stored at the given pixel.
func (c *Canvas) DepthAt(x, y int) float32 {
	return c.depth[y*c.width+x]
}

// Image encodes the color buffer into srgb, the way the swap chain stores it.
func (c *Canvas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			r, g, b, a := c.At(x, y).ToSRGB8()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}

	return img
}

func roundInt(value float32) int {
	return int(math.Round(float64(value)))
}
