package pulse

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ClearCommand records a render pass that only clears a color target.
type ClearCommand struct {
	label string
}

func NewClear() *ClearCommand {
	return &ClearCommand{label: "ClearTexture"}
}

// Clear encodes a render pass into enc that attaches the target with
// LoadOpClear and no depth attachment, and closes it right away.
func (c *ClearCommand) Clear(enc *wgpu.CommandEncoder, target RenderTarget, color Color) error {
	pass := enc.BeginRenderPass(clearPassDescriptor(c.label, target, color))

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	if err := pass.End(); err != nil {
		return fmt.Errorf("end clear pass: %w", err)
	}

	return nil
}

func clearPassDescriptor(label string, target RenderTarget, color Color) *wgpu.RenderPassDescriptor {
	r, g, b, a := color.Components()

	return &wgpu.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    target.View,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(r),
					G: float64(g),
					B: float64(b),
					A: float64(a),
				},
			},
		},
	}
}

type Releaser interface {
	Release()
}

// ReleaseGuard releases the wrapped value when Release is called,
// unless Keep was called before.
type ReleaseGuard struct {
	delegate Releaser
}

func NewReleaseGuard(delegate Releaser) ReleaseGuard {
	return ReleaseGuard{delegate: delegate}
}

func (r *ReleaseGuard) Keep() {
	r.delegate = nil
}

func (r *ReleaseGuard) Release() {
	if r.delegate != nil {
		r.delegate.Release()
		r.delegate = nil
	}
}
