package pulse

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var ErrFrameReleased = errors.New("frame already released")

// Frame is one acquired swap chain image together with the command encoder
// recording the work for it. Its lifetime ends with Submit.
type Frame struct {
	context *Context
	encoder *wgpu.CommandEncoder
	texture *wgpu.Texture
	view    *wgpu.TextureView
	target  RenderTarget

	submitted bool
}

// Encoder returns the command encoder recording the passes of this frame.
func (f *Frame) Encoder() *wgpu.CommandEncoder {
	return f.encoder
}

// Target returns the swap chain image as render target.
func (f *Frame) Target() RenderTarget {
	return f.target
}

// Submit finishes the command encoder and submits the resulting command buffer
// as one unit to the queue. The frame only counts as submitted once the queue
// accepted the buffer, a failed Submit leaves the image to Release.
func (f *Frame) Submit() error {
	if f.submitted {
		return fmt.Errorf("frame already submitted")
	}

	if f.encoder == nil {
		return ErrFrameReleased
	}

	buf, err := f.encoder.Finish(&wgpu.CommandBufferDescriptor{Label: "Frame"})
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}

	defer buf.Release()

	f.context.Queue.Submit(buf)
	f.submitted = true

	return nil
}

// Present schedules the submitted image for display.
func (f *Frame) Present() error {
	if !f.submitted {
		return fmt.Errorf("frame not submitted")
	}

	f.context.Surface.Present()

	return nil
}

// Release frees the resources of the frame. The swap chain image is only
// released if the frame was never submitted.
func (f *Frame) Release() {
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}

	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}

	if f.texture != nil {
		if !f.submitted {
			f.texture.Release()
		}

		f.texture = nil
	}
}
