package pulse

import "github.com/cogentcore/webgpu/wgpu"

// RenderTarget holds all the information of something that can be rendered to.
// This is normally the current swap chain image.
type RenderTarget struct {
	View *wgpu.TextureView

	// Texture format of View
	Format wgpu.TextureFormat

	// Size of the target to render to
	Width  uint32
	Height uint32
}
