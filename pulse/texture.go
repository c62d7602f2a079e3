package pulse

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/glyphdepth/glm"
)

// Texture wraps a wgpu.Texture and its default wgpu.TextureView.
type Texture struct {
	texture     *wgpu.Texture
	textureView *wgpu.TextureView

	// equal to texture.GetFormat()
	format wgpu.TextureFormat

	region Rectangle2u
}

// NewTextureFromDesc gives you full control and creates a texture directly from
// a texture descriptor
func NewTextureFromDesc(ctx *Context, desc *wgpu.TextureDescriptor) (*Texture, error) {
	texture, err := ctx.Device.CreateTexture(desc)
	if err != nil {
		return nil, err
	}

	textureGuard := NewReleaseGuard(texture)
	defer textureGuard.Release()

	// now create a default texture view
	textureView, err := texture.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("create view: %w", err)
	}

	textureGuard.Keep()

	t := &Texture{
		texture:     texture,
		textureView: textureView,
		format:      desc.Format,
		region: RectangleFromSize(
			glm.Vec2u{},
			glm.Vec2u{desc.Size.Width, desc.Size.Height},
		),
	}

	return t, nil
}

func (t *Texture) View() *wgpu.TextureView {
	return t.textureView
}

func (t *Texture) Width() uint32 {
	return t.region.Width()
}

func (t *Texture) Height() uint32 {
	return t.region.Height()
}

func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

// Release releases the texture view and the texture itself. You must be sure
// to not use the texture after calling release.
func (t *Texture) Release() {
	if t.textureView != nil {
		t.textureView.Release()
		t.textureView = nil
	}

	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

type WritePixelsOptions struct {
	Pixels []byte
	Region Rectangle2u

	// bytes per row in Pixels
	Stride uint32

	// number of bytes per pixel, used to derive Stride if not set
	BytesPerPixel uint32
}

func (t *Texture) WritePixelsToRect(ctx *Context, opts WritePixelsOptions) error {
	// fail if not in rect
	if !t.region.Contains(opts.Region) {
		return fmt.Errorf("target rect %s not in texture region %s", opts.Region, t.region)
	}

	if opts.BytesPerPixel == 0 {
		opts.BytesPerPixel = 4
	}

	if opts.Stride == 0 {
		opts.Stride = opts.Region.Width() * opts.BytesPerPixel
	}

	layout := &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  opts.Stride,
		RowsPerImage: opts.Region.Height(),
	}

	size := &wgpu.Extent3D{
		Width:              opts.Region.Width(),
		Height:             opts.Region.Height(),
		DepthOrArrayLayers: 1,
	}

	dest := &wgpu.ImageCopyTexture{
		Texture:  t.texture,
		MipLevel: 0,
		Origin: wgpu.Origin3D{
			X: opts.Region.Min[0],
			Y: opts.Region.Min[1],
		},
		Aspect: wgpu.TextureAspectAll,
	}

	// send data to the gpu
	err := ctx.Queue.WriteTexture(dest, opts.Pixels, layout, size)
	if err != nil {
		return fmt.Errorf("copy image data to texture: %w", err)
	}

	return nil
}
