package orion

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/glyphdepth/glimpse"
)

type frameRenderer interface {
	Resize(width, height uint32) error
	Render() (bool, error)
}

type dispatchState int

const (
	stateRunning dispatchState = iota
	stateExiting
)

// dispatcher maps window events to renderer calls.
type dispatcher struct {
	state    dispatchState
	renderer frameRenderer
}

func newDispatcher(renderer frameRenderer) *dispatcher {
	return &dispatcher{renderer: renderer}
}

func (d *dispatcher) Handle(event glimpse.Event) (glimpse.ControlFlow, error) {
	if d.state == stateExiting {
		return glimpse.Exit, nil
	}

	if event.Kind != glimpse.EventIdle {
		slog.Debug("Handle window event", slog.String("kind", event.Kind.String()))
	}

	switch event.Kind {
	case glimpse.EventCloseRequested:
		slog.Info("Close requested")
		d.state = stateExiting
		return glimpse.Exit, nil

	case glimpse.EventResized:
		slog.Debug("Window resized",
			slog.Int("width", int(event.Width)),
			slog.Int("height", int(event.Height)),
		)

		if err := d.renderer.Resize(event.Width, event.Height); err != nil {
			d.state = stateExiting
			return glimpse.Exit, err
		}

	case glimpse.EventIdle:
		drawn, err := d.renderer.Render()
		if err != nil {
			d.state = stateExiting
			return glimpse.Exit, fmt.Errorf("render frame: %w", err)
		}

		if !drawn {
			// minimized, sleep until the window changes
			return glimpse.Wait, nil
		}
	}

	return glimpse.Continue, nil
}
