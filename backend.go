package termatlas

import "fmt"

// Backend draws frames for a terminal. There is one implementation per
// rendering backend; render.Engine is the GPU one.
type Backend interface {
	// ReleaseResources releases every GPU-bound resource. It is idempotent
	// and may be called at any time, including before the first frame.
	ReleaseResources()

	// Render draws one complete frame. Atlas exhaustion is handled
	// internally; an error wrapping ErrDeviceLost means the backend must be
	// released before it can render again.
	Render(p *Payload) error

	// RequiresContinuousRedraw reports whether Render must be called on every
	// display refresh even when nothing changed, e.g. for an animated
	// post-processing shader.
	RequiresContinuousRedraw() bool
}

// State is the lifecycle state of a backend.
type State uint8

const (
	StateUninitialized State = iota
	StateReady
	StateValidating
	StateDrawing
	StatePresenting
	StateLost
)

var stateNames = [...]string{
	StateUninitialized: "Uninitialized",
	StateReady:         "Ready",
	StateValidating:    "Validating",
	StateDrawing:       "Drawing",
	StatePresenting:    "Presenting",
	StateLost:          "Lost",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}
