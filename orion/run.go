package orion

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/oliverbestmann/glyphdepth/assets"
	"github.com/oliverbestmann/glyphdepth/glimpse"
	"github.com/oliverbestmann/glyphdepth/glyph"
	"github.com/oliverbestmann/glyphdepth/pulse"
	"github.com/pkg/profile"
)

type RunOptions struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	// scene to draw, a DepthScene if nil
	Scene Scene

	// enables profiling for the run, either "cpu" or "mem".
	// Defaults to the value of GLYPHDEPTH_PROFILE.
	Profile string
}

func (opts RunOptions) withDefaults() RunOptions {
	if opts.WindowWidth == 0 {
		opts.WindowWidth = 800
	}

	if opts.WindowHeight == 0 {
		opts.WindowHeight = 600
	}

	if opts.WindowTitle == "" {
		opts.WindowTitle = "glyphdepth"
	}

	if opts.Scene == nil {
		opts.Scene = NewDepthScene()
	}

	if opts.Profile == "" {
		opts.Profile = os.Getenv("GLYPHDEPTH_PROFILE")
	}

	return opts
}

func profileMode(name string) (func(*profile.Profile), error) {
	switch name {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q", name)
	}
}

// Run opens a window and draws the scene until the window is closed.
func Run(opts RunOptions) error {
	opts = opts.withDefaults()

	if opts.Profile != "" {
		mode, err := profileMode(opts.Profile)
		if err != nil {
			return err
		}

		defer profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	// create a new window
	win, err := glimpse.NewWindow(
		opts.WindowWidth,
		opts.WindowHeight,
		opts.WindowTitle,
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	// initialize the webgpu device
	ctx, err := pulse.New(win.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	defer ctx.Release()
	defer pulse.PurgeSamplers()

	view := pulse.NewView(ctx)
	defer view.Release()

	font, err := glyph.ParseFont(assets.FontTTF)
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	defer font.Close()

	brush, err := glyph.NewBrushBuilder(font).
		DepthStencilState(glyph.DefaultDepthStencilState()).
		Build(ctx, view.Format())

	if err != nil {
		return fmt.Errorf("build glyph brush: %w", err)
	}

	defer brush.Release()

	renderer := NewRenderer(view, brush, opts.Scene)

	width, height := win.PhysicalSize()
	if err := renderer.Resize(width, height); err != nil {
		return err
	}

	slog.Info("Window ready",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
	)

	return win.Run(newDispatcher(renderer).Handle)
}
