package glimpse

import "github.com/cogentcore/webgpu/wgpu"

//go:generate go tool stringer -type=EventKind -trimprefix=Event

type EventKind int

const (
	// EventIdle is delivered once after all pending events of an
	// iteration of the event loop were delivered.
	EventIdle EventKind = iota
	EventCloseRequested
	EventResized
)

type Event struct {
	Kind EventKind

	// new size in physical pixels, only set for EventResized
	Width  uint32
	Height uint32
}

// ControlFlow tells the event loop how to continue after an event was handled.
type ControlFlow int

const (
	Continue ControlFlow = iota
	Exit

	// Wait continues the loop, but blocks until the next window event
	// instead of polling.
	Wait
)

type Handler func(event Event) (ControlFlow, error)

type Window interface {
	// PhysicalSize returns the size of the framebuffer in pixels
	PhysicalSize() (uint32, uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Run(handler Handler) error
	Terminate()
}

type eventQueue struct {
	events []Event
}

func (q *eventQueue) push(event Event) {
	q.events = append(q.events, event)
}

// drain returns all queued events followed by an EventIdle.
func (q *eventQueue) drain() []Event {
	events := append(q.events, Event{Kind: EventIdle})
	q.events = nil
	return events
}

// runLoop polls for events and passes them to the handler in order,
// until the handler requests an Exit or fails. If the handler answered
// any event of an iteration with Wait, the next iteration blocks in wait.
func runLoop(poll, wait func(), queue *eventQueue, handler Handler) error {
	var block bool

	for {
		if block {
			wait()
		} else {
			poll()
		}

		block = false

		for _, event := range queue.drain() {
			flow, err := handler(event)
			if err != nil {
				return err
			}

			switch flow {
			case Exit:
				return nil
			case Wait:
				block = true
			}
		}
	}
}
