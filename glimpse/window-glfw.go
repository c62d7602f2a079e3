package glimpse

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type glfwWindow struct {
	win    *glfw.Window
	events eventQueue
}

func NewWindow(width, height int, title string) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{win: window}

	configureEvents(window, &w.events)

	return w, nil
}

func (g *glfwWindow) PhysicalSize() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return uint32(max(0, width)), uint32(max(0, height))
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) Terminate() {
	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) Run(handler Handler) error {
	return runLoop(glfw.PollEvents, glfw.WaitEvents, &g.events, handler)
}

func configureEvents(window *glfw.Window, events *eventQueue) {
	window.SetCloseCallback(func(_win *glfw.Window) {
		events.push(Event{Kind: EventCloseRequested})
	})

	window.SetFramebufferSizeCallback(func(_win *glfw.Window, width int, height int) {
		slog.Debug("Framebuffer resized", slog.Int("width", width), slog.Int("height", height))

		events.push(Event{
			Kind:   EventResized,
			Width:  uint32(max(0, width)),
			Height: uint32(max(0, height)),
		})
	})

	window.SetContentScaleCallback(func(win *glfw.Window, x float32, y float32) {
		width, height := win.GetFramebufferSize()

		slog.Debug("Content scale changed",
			slog.Float64("scaleX", float64(x)),
			slog.Float64("scaleY", float64(y)),
		)

		events.push(Event{
			Kind:   EventResized,
			Width:  uint32(max(0, width)),
			Height: uint32(max(0, height)),
		})
	})
}
