package glyph

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var ErrDraw = errors.New("draw glyphs")

// DefaultClearDepth is the layer depth the depth attachment is cleared to.
// It lies behind every glyph, so the first glyph written to a pixel always
// passes the Greater depth test.
const DefaultClearDepth float32 = -1

// DepthFormat is the format of the depth attachment the glyph pipeline is built for.
const DepthFormat = wgpu.TextureFormatDepth32Float

// DeviceDepth maps a layer depth in [-1, 1] to the device depth
// in [0, 1] that is stored in the depth attachment.
func DeviceDepth(layerDepth float32) float32 {
	return (min(1, max(-1, layerDepth)) + 1) / 2
}

// DefaultDepthStencilState returns the depth state used for glyphs: depth writes
// are enabled and a fragment passes only if it is strictly in front of the
// stored depth. Stencil is ignored.
func DefaultDepthStencilState() wgpu.DepthStencilState {
	ignore := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}

	return wgpu.DepthStencilState{
		Format:              DepthFormat,
		DepthWriteEnabled:   true,
		DepthCompare:        wgpu.CompareFunctionGreater,
		StencilFront:        ignore,
		StencilBack:         ignore,
		StencilReadMask:     0,
		StencilWriteMask:    0,
		DepthBias:           0,
		DepthBiasSlopeScale: 0,
		DepthBiasClamp:      0,
	}
}

// DepthAttachment is the depth buffer a glyph pass renders against.
type DepthAttachment struct {
	View *wgpu.TextureView

	// layer depth to clear the attachment to before drawing
	ClearDepth float32
}

// NewDepthAttachment returns an attachment that is cleared to DefaultClearDepth.
func NewDepthAttachment(view *wgpu.TextureView) DepthAttachment {
	return DepthAttachment{View: view, ClearDepth: DefaultClearDepth}
}

func (d DepthAttachment) descriptor() *wgpu.RenderPassDepthStencilAttachment {
	return &wgpu.RenderPassDepthStencilAttachment{
		View:            d.View,
		DepthLoadOp:     wgpu.LoadOpClear,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: DeviceDepth(d.ClearDepth),
		DepthReadOnly:   false,

		// no stencil ops, the depth format has no stencil aspect
	}
}

// depthTest evaluates a depth comparison on device depth values.
func depthTest(compare wgpu.CompareFunction, fragment, stored float32) bool {
	switch compare {
	case wgpu.CompareFunctionNever:
		return false
	case wgpu.CompareFunctionLess:
		return fragment < stored
	case wgpu.CompareFunctionLessEqual:
		return fragment <= stored
	case wgpu.CompareFunctionGreater:
		return fragment > stored
	case wgpu.CompareFunctionGreaterEqual:
		return fragment >= stored
	case wgpu.CompareFunctionEqual:
		return fragment == stored
	case wgpu.CompareFunctionNotEqual:
		return fragment != stored
	default:
		return true
	}
}
