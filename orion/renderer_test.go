package orion

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/glyphdepth/glm"
	"github.com/oliverbestmann/glyphdepth/glyph"
	"github.com/oliverbestmann/glyphdepth/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callLog records the calls of all fakes of a renderer in order.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeView struct {
	log *callLog

	width, height uint32

	// size of the depth texture, follows the swap chain unless stale is set
	depthWidth, depthHeight uint32
	stale                   bool

	depth *wgpu.TextureView
	frame *fakeFrame
}

func (v *fakeView) Configure(width, height uint32) error {
	v.log.add("configure %dx%d", width, height)

	v.width, v.height = width, height
	if !v.stale {
		v.depthWidth, v.depthHeight = width, height
	}

	return nil
}

func (v *fakeView) Renderable() bool {
	return v.width > 0 && v.height > 0
}

func (v *fakeView) DepthView() *wgpu.TextureView {
	return v.depth
}

func (v *fakeView) DepthSize() (uint32, uint32) {
	return v.depthWidth, v.depthHeight
}

func (v *fakeView) Acquire() (renderFrame, error) {
	v.log.add("acquire")

	v.frame = &fakeFrame{
		log:    v.log,
		target: pulse.RenderTarget{Width: v.width, Height: v.height},
	}

	return v.frame, nil
}

type fakeFrame struct {
	log    *callLog
	target pulse.RenderTarget

	released bool
}

func (f *fakeFrame) Encoder() *wgpu.CommandEncoder {
	return nil
}

func (f *fakeFrame) Target() pulse.RenderTarget {
	return f.target
}

func (f *fakeFrame) Submit() error {
	f.log.add("submit")
	return nil
}

func (f *fakeFrame) Present() error {
	f.log.add("present")
	return nil
}

func (f *fakeFrame) Release() {
	f.released = true
}

type fakeClearer struct {
	log *callLog
}

func (c *fakeClearer) Clear(_ *wgpu.CommandEncoder, target pulse.RenderTarget, color pulse.Color) error {
	c.log.add("clear %dx%d", target.Width, target.Height)
	return nil
}

type fakeDrawer struct {
	log *callLog

	depths  []glyph.DepthAttachment
	drawErr error
}

func (d *fakeDrawer) Queue(section glyph.Section) {
	d.log.add("queue %s", section.Text)
}

func (d *fakeDrawer) DrawQueued(_ *wgpu.CommandEncoder, target pulse.RenderTarget, depth glyph.DepthAttachment) error {
	d.log.add("draw %dx%d", target.Width, target.Height)
	d.depths = append(d.depths, depth)
	return d.drawErr
}

type textScene []string

func (s textScene) Sections(width, height uint32) []glyph.Section {
	var sections []glyph.Section
	for idx, text := range s {
		sections = append(sections, glyph.Section{
			Text:  text,
			Scale: 16,
			Bounds: glm.Vec2f{
				float32(width),
				float32(height),
			},
			Z: float32(idx) / 10,
		})
	}

	return sections
}

type rendererFixture struct {
	log    *callLog
	view   *fakeView
	drawer *fakeDrawer
	r      *Renderer
}

func newRendererFixture(scene Scene) rendererFixture {
	log := &callLog{}
	view := &fakeView{log: log, depth: &wgpu.TextureView{}}
	drawer := &fakeDrawer{log: log}

	return rendererFixture{
		log:    log,
		view:   view,
		drawer: drawer,
		r:      newRenderer(view, &fakeClearer{log: log}, drawer, scene),
	}
}

func TestRendererFrameOrder(t *testing.T) {
	fx := newRendererFixture(textScene{"first", "second", "third"})

	require.NoError(t, fx.r.Resize(800, 600))

	drawn, err := fx.r.Render()
	require.NoError(t, err)
	assert.True(t, drawn)

	assert.Equal(t, []string{
		"configure 800x600",
		"acquire",
		"clear 800x600",
		"queue first",
		"queue second",
		"queue third",
		"draw 800x600",
		"submit",
		"present",
	}, fx.log.calls)

	// the glyph pass tests against the depth texture of the view
	require.Len(t, fx.drawer.depths, 1)
	assert.Same(t, fx.view.depth, fx.drawer.depths[0].View)
	assert.Equal(t, glyph.DefaultClearDepth, fx.drawer.depths[0].ClearDepth)

	assert.True(t, fx.view.frame.released)
	assert.Equal(t, 1, fx.r.stats.FrameCount())
}

func TestRendererSkipsZeroSizedView(t *testing.T) {
	fx := newRendererFixture(textScene{"text"})

	require.NoError(t, fx.r.Resize(0, 0))

	drawn, err := fx.r.Render()
	require.NoError(t, err)
	assert.False(t, drawn)

	// nothing but the resize reached the view
	assert.Equal(t, []string{"configure 0x0"}, fx.log.calls)
	assert.Nil(t, fx.view.frame)
}

func TestRendererDrawsAtLastResize(t *testing.T) {
	fx := newRendererFixture(textScene{"text"})

	require.NoError(t, fx.r.Resize(800, 600))
	require.NoError(t, fx.r.Resize(0, 0))
	require.NoError(t, fx.r.Resize(1024, 768))

	drawn, err := fx.r.Render()
	require.NoError(t, err)
	assert.True(t, drawn)

	width, height := fx.view.DepthSize()
	assert.Equal(t, [2]uint32{1024, 768}, [2]uint32{width, height})
	assert.Equal(t, uint32(1024), fx.view.frame.target.Width)
	assert.Equal(t, uint32(768), fx.view.frame.target.Height)
	assert.Contains(t, fx.log.calls, "draw 1024x768")
}

func TestRendererRejectsStaleDepthTexture(t *testing.T) {
	fx := newRendererFixture(textScene{"text"})

	require.NoError(t, fx.r.Resize(800, 600))

	fx.view.stale = true
	require.NoError(t, fx.r.Resize(1024, 768))

	_, err := fx.r.Render()
	assert.ErrorIs(t, err, ErrSizeMismatch)

	// the frame is dropped before any pass was recorded
	assert.NotContains(t, fx.log.calls, "clear 1024x768")
	assert.NotContains(t, fx.log.calls, "submit")
	assert.True(t, fx.view.frame.released)
}

func TestRendererDoesNotSubmitAfterDrawError(t *testing.T) {
	fx := newRendererFixture(textScene{"text"})
	fx.drawer.drawErr = errors.New("draw failed")

	require.NoError(t, fx.r.Resize(800, 600))

	_, err := fx.r.Render()
	assert.ErrorIs(t, err, fx.drawer.drawErr)

	assert.NotContains(t, fx.log.calls, "submit")
	assert.NotContains(t, fx.log.calls, "present")
	assert.True(t, fx.view.frame.released)
}
