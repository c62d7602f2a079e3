package orion

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/glyphdepth/glyph"
	"github.com/oliverbestmann/glyphdepth/pulse"
)

var ErrSizeMismatch = errors.New("depth texture does not match swap chain")

var backgroundColor = pulse.ColorLinearRGBA(0.4, 0.4, 0.4, 1)

// frameView is the swap chain and depth texture pair a Renderer draws into.
type frameView interface {
	Configure(width, height uint32) error
	Renderable() bool
	DepthView() *wgpu.TextureView
	DepthSize() (width, height uint32)
	Acquire() (renderFrame, error)
}

type renderFrame interface {
	Encoder() *wgpu.CommandEncoder
	Target() pulse.RenderTarget
	Submit() error
	Present() error
	Release()
}

type frameClearer interface {
	Clear(enc *wgpu.CommandEncoder, target pulse.RenderTarget, color pulse.Color) error
}

type glyphDrawer interface {
	Queue(section glyph.Section)
	DrawQueued(enc *wgpu.CommandEncoder, target pulse.RenderTarget, depth glyph.DepthAttachment) error
}

// pulseView adapts a pulse.View to frameView.
type pulseView struct {
	*pulse.View
}

func (v pulseView) Acquire() (renderFrame, error) {
	frame, err := v.View.Acquire()
	if err != nil {
		return nil, err
	}

	return frame, nil
}

// Renderer draws one frame of a Scene per call to Render: a clear pass
// followed by a glyph pass against the depth texture of the view.
type Renderer struct {
	view  frameView
	clear frameClearer
	brush glyphDrawer
	scene Scene
	stats *FrameStats
}

func NewRenderer(view *pulse.View, brush *glyph.Brush, scene Scene) *Renderer {
	return newRenderer(pulseView{View: view}, pulse.NewClear(), brush, scene)
}

func newRenderer(view frameView, clear frameClearer, brush glyphDrawer, scene Scene) *Renderer {
	return &Renderer{
		view:  view,
		clear: clear,
		brush: brush,
		scene: scene,
		stats: NewFrameStats(),
	}
}

// Resize rebuilds the swap chain and the depth texture for the new size.
func (r *Renderer) Resize(width, height uint32) error {
	if err := r.view.Configure(width, height); err != nil {
		return fmt.Errorf("resize view to %dx%d: %w", width, height, err)
	}

	return nil
}

// Render draws the scene. It returns false without touching the gpu if
// the view is zero sized.
func (r *Renderer) Render() (bool, error) {
	if !r.view.Renderable() {
		slog.Debug("Skip frame, view is not renderable")
		return false, nil
	}

	r.stats.StartFrame()

	frame, err := r.view.Acquire()
	if err != nil {
		return false, fmt.Errorf("acquire frame: %w", err)
	}

	defer frame.Release()

	r.stats.Acquired()

	target := frame.Target()

	depthWidth, depthHeight := r.view.DepthSize()
	if depthWidth != target.Width || depthHeight != target.Height {
		return false, fmt.Errorf("%w: depth %dx%d, target %dx%d",
			ErrSizeMismatch, depthWidth, depthHeight, target.Width, target.Height)
	}

	if err := r.clear.Clear(frame.Encoder(), target, backgroundColor); err != nil {
		return false, fmt.Errorf("clear frame: %w", err)
	}

	for _, section := range r.scene.Sections(target.Width, target.Height) {
		r.brush.Queue(section)
	}

	r.stats.Queued()

	depth := glyph.NewDepthAttachment(r.view.DepthView())
	if err := r.brush.DrawQueued(frame.Encoder(), target, depth); err != nil {
		return false, err
	}

	if err := frame.Submit(); err != nil {
		return false, fmt.Errorf("submit frame: %w", err)
	}

	if err := frame.Present(); err != nil {
		return false, fmt.Errorf("present frame: %w", err)
	}

	r.stats.EndFrame()

	return true, nil
}
