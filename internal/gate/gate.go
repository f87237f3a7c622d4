package gate

import (
	"errors"
	"sync"
)

// ErrUnavailable is returned when an operation is attempted while the gate
// is closed.
var ErrUnavailable = errors.New("device not present")

// State represents the gate state
type State int

const (
	Unavailable State = iota
	Available
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Unavailable:
		return "unavailable"
	case Available:
		return "available"
	default:
		return "unknown"
	}
}

// Gate is a two-state admission gate. The zero value is not usable; use New
// or AlwaysOpen.
type Gate struct {
	mu           sync.RWMutex
	state        State
	onTransition func(from, to State)
}

// Option configures a Gate.
type Option func(*Gate)

// OnTransition registers a hook invoked after every state change. The hook
// runs outside the gate lock.
func OnTransition(fn func(from, to State)) Option {
	return func(g *Gate) {
		g.onTransition = fn
	}
}

// New creates a gate in the Unavailable state.
func New(opts ...Option) *Gate {
	g := &Gate{state: Unavailable}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AlwaysOpen creates a gate in the Available state. It is the ungated
// variant: callers simply never detach it.
func AlwaysOpen(opts ...Option) *Gate {
	g := New(opts...)
	g.state = Available
	return g
}

// Attach transitions the gate to Available. A no-op if already open.
func (g *Gate) Attach() {
	g.transition(Available)
}

// Detach transitions the gate to Unavailable. A no-op if already closed.
// Detach waits for in-flight admitted operations to finish.
func (g *Gate) Detach() {
	g.transition(Unavailable)
}

func (g *Gate) transition(to State) {
	g.mu.Lock()
	from := g.state
	if from == to {
		g.mu.Unlock()
		return
	}
	g.state = to
	fn := g.onTransition
	g.mu.Unlock()

	if fn != nil {
		fn(from, to)
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Open reports whether the gate currently admits operations.
func (g *Gate) Open() bool {
	return g.State() == Available
}

// Do runs op if the gate is open, holding the admission for the whole call.
// It returns ErrUnavailable without invoking op when the gate is closed.
func (g *Gate) Do(op func() error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.state != Available {
		return ErrUnavailable
	}
	return op()
}
