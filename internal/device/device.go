package device

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivplatonov/stackd/internal/gate"
	"github.com/ivplatonov/stackd/internal/logging"
	"github.com/ivplatonov/stackd/internal/monitoring"
	"github.com/ivplatonov/stackd/internal/stack"
)

// Options configures the device.
type Options struct {
	InitialCapacity uint
	MaxCapacity     uint
	AutoResize      bool
	Gated           bool
}

// Event describes a presence transition, delivered to subscribers.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "attached" or "detached"
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// subscriber channels are buffered; slow consumers drop events rather than
// stall a transition.
const eventBuffer = 16

// Device is the process-wide shared stack device.
type Device struct {
	buf     *stack.Buffer
	gate    *gate.Gate
	log     *logging.Logger
	metrics *monitoring.Metrics

	mu   sync.RWMutex
	subs map[string]chan Event
}

// New creates the device. Gated devices start unavailable and admit nothing
// until the first attach; ungated devices are open from the start.
func New(opts Options, log *logging.Logger, metrics *monitoring.Metrics) (*Device, error) {
	buf, err := stack.New(opts.InitialCapacity,
		stack.WithAutoResize(opts.AutoResize),
		stack.WithMaxCapacity(opts.MaxCapacity),
	)
	if err != nil {
		return nil, err
	}

	d := &Device{
		buf:     buf,
		log:     log,
		metrics: metrics,
		subs:    make(map[string]chan Event),
	}

	if opts.Gated {
		d.gate = gate.New(gate.OnTransition(d.onTransition))
	} else {
		d.gate = gate.AlwaysOpen(gate.OnTransition(d.onTransition))
	}

	return d, nil
}

// Push stores a value, refusing with gate.ErrUnavailable when detached.
func (d *Device) Push(v int32) error {
	err := d.gate.Do(func() error {
		return d.buf.Push(v)
	})
	d.recordOp("push", err)
	return err
}

// Pop removes the top value. The bool is false when the buffer is empty, the
// normal end-of-data signal.
func (d *Device) Pop() (int32, bool, error) {
	var (
		v  int32
		ok bool
	)
	err := d.gate.Do(func() error {
		v, ok = d.buf.Pop()
		return nil
	})
	if err == nil && !ok {
		d.recordOp("pop", errEmpty)
	} else {
		d.recordOp("pop", err)
	}
	return v, ok, err
}

// Drain pops until empty and returns the values in LIFO order. The whole
// drain runs under a single admission, so a detach cannot split it.
func (d *Device) Drain() ([]int32, error) {
	var values []int32
	err := d.gate.Do(func() error {
		for {
			v, ok := d.buf.Pop()
			if !ok {
				return nil
			}
			values = append(values, v)
		}
	})
	d.recordOp("drain", err)
	return values, err
}

// Resize reconfigures the capacity.
func (d *Device) Resize(n uint) error {
	err := d.gate.Do(func() error {
		return d.buf.Resize(n)
	})
	d.recordOp("resize", err)
	return err
}

// Clear resets the occupied count to zero.
func (d *Device) Clear() error {
	err := d.gate.Do(func() error {
		d.buf.Clear()
		return nil
	})
	d.recordOp("clear", err)
	return err
}

// Capacity returns the current capacity.
func (d *Device) Capacity() (uint, error) {
	var n uint
	err := d.gate.Do(func() error {
		n = d.buf.Capacity()
		return nil
	})
	return n, err
}

// Usage returns the current occupied count.
func (d *Device) Usage() (uint, error) {
	var n uint
	err := d.gate.Do(func() error {
		n = d.buf.Usage()
		return nil
	})
	return n, err
}

// Stats returns a snapshot of the usage counters.
func (d *Device) Stats() (stack.Stats, error) {
	var s stack.Stats
	err := d.gate.Do(func() error {
		s = d.buf.Stats()
		return nil
	})
	return s, err
}

// Attach opens the gate. Idempotent.
func (d *Device) Attach() {
	d.gate.Attach()
}

// Detach closes the gate. Idempotent; buffer contents are retained.
func (d *Device) Detach() {
	d.gate.Detach()
}

// Present reports whether the device currently admits operations.
func (d *Device) Present() bool {
	return d.gate.Open()
}

// State returns the gate state as a string.
func (d *Device) State() string {
	return d.gate.State().String()
}

// Subscribe registers an event channel and returns its ID for Unsubscribe.
func (d *Device) Subscribe() (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, eventBuffer)

	d.mu.Lock()
	d.subs[id] = ch
	d.mu.Unlock()

	return id, ch
}

// Unsubscribe removes and closes a subscriber channel.
func (d *Device) Unsubscribe(id string) {
	d.mu.Lock()
	ch, ok := d.subs[id]
	if ok {
		delete(d.subs, id)
	}
	d.mu.Unlock()

	if ok {
		close(ch)
	}
}

func (d *Device) onTransition(from, to gate.State) {
	d.log.Info("presence changed",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)

	if d.metrics != nil {
		d.metrics.RecordTransition(to.String(), to == gate.Available)
	}

	evtType := "detached"
	if to == gate.Available {
		evtType = "attached"
	}
	evt := Event{
		ID:        uuid.NewString(),
		Type:      evtType,
		State:     to.String(),
		Timestamp: time.Now(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, ch := range d.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// errEmpty is an internal marker for outcome labels; pops of an empty buffer
// are not errors at the device boundary.
var errEmpty = errors.New("empty")

func (d *Device) recordOp(op string, err error) {
	if d.metrics == nil {
		return
	}
	d.metrics.RecordOp(op, outcome(err))

	if d.Present() {
		d.metrics.SetStack(d.buf.Usage(), d.buf.Capacity())
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errEmpty):
		return "empty"
	case errors.Is(err, gate.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, stack.ErrOverflow):
		return "overflow"
	default:
		return "exhausted"
	}
}
