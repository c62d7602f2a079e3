package pulse

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	ErrZeroSize = errors.New("view has a zero sized surface")
	ErrAcquire  = errors.New("acquire next swap chain image")
)

const (
	SurfaceFormat = wgpu.TextureFormatBGRA8UnormSrgb
	DepthFormat   = wgpu.TextureFormatDepth32Float
)

// View owns the swap chain of the surface together with the depth texture
// matching its size. Both are always rebuilt by the same call to Configure.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration

	// depth texture to render to, same size as the surface
	depthTexture *Texture

	width, height uint32
}

func NewView(dev *Context) *View {
	caps := dev.Surface.GetCapabilities(dev.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	var alphaMode wgpu.CompositeAlphaMode
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}

	return &View{
		Context:       dev,
		surfaceConfig: surfaceConfiguration(alphaMode),
	}
}

func surfaceConfiguration(alphaMode wgpu.CompositeAlphaMode) *wgpu.SurfaceConfiguration {
	return &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      SurfaceFormat,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   alphaMode,
	}
}

func depthDescriptor(width, height uint32) *wgpu.TextureDescriptor {
	return &wgpu.TextureDescriptor{
		Label:     "DepthTexture",
		Usage:     wgpu.TextureUsageRenderAttachment,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        DepthFormat,
		MipLevelCount: 1,
		SampleCount:   1,
	}
}

// Configure replaces the swap chain and the depth texture with new ones
// of the given size. A zero sized view is valid, but can not be rendered to.
func (vs *View) Configure(width, height uint32) error {
	slog.Debug("Configure view",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
	)

	vs.releaseDepth()

	vs.width = width
	vs.height = height

	if !vs.Renderable() {
		// a minimized window, nothing to create until we get a real size
		return nil
	}

	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Adapter, vs.Device, vs.surfaceConfig)

	depthTexture, err := NewTextureFromDesc(vs.Context, depthDescriptor(width, height))
	if err != nil {
		vs.width, vs.height = 0, 0
		return fmt.Errorf("create depth texture: %w", err)
	}

	vs.depthTexture = depthTexture

	return nil
}

// Renderable returns true, if the view has a non empty size.
func (vs *View) Renderable() bool {
	return vs.width > 0 && vs.height > 0
}

func (vs *View) Size() (width, height uint32) {
	return vs.width, vs.height
}

func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

// DepthView returns the view of the depth texture. It is nil as long as the view
// is not renderable.
func (vs *View) DepthView() *wgpu.TextureView {
	if vs.depthTexture == nil {
		return nil
	}

	return vs.depthTexture.View()
}

// DepthSize returns the size of the current depth texture.
func (vs *View) DepthSize() (width, height uint32) {
	if vs.depthTexture == nil {
		return 0, 0
	}

	return vs.depthTexture.Width(), vs.depthTexture.Height()
}

// Acquire creates a command encoder and gets the next image of the swap chain.
// This might block until the next vertical blank.
func (vs *View) Acquire() (*Frame, error) {
	if !vs.Renderable() {
		return nil, ErrZeroSize
	}

	encoder, err := vs.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Frame"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	encoderGuard := NewReleaseGuard(encoder)
	defer encoderGuard.Release()

	surface, err := vs.Surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquire, err)
	}

	surfaceGuard := NewReleaseGuard(surface)
	defer surfaceGuard.Release()

	surfaceView, err := surface.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create view: %w", ErrAcquire, err)
	}

	encoderGuard.Keep()
	surfaceGuard.Keep()

	frame := &Frame{
		encoder: encoder,
		texture: surface,
		view:    surfaceView,
		context: vs.Context,
		target: RenderTarget{
			View:   surfaceView,
			Format: vs.Format(),
			Width:  vs.width,
			Height: vs.height,
		},
	}

	return frame, nil
}

func (vs *View) releaseDepth() {
	if vs.depthTexture != nil {
		vs.depthTexture.Release()
		vs.depthTexture = nil
	}
}

func (vs *View) Release() {
	vs.releaseDepth()
	vs.width, vs.height = 0, 0
}
