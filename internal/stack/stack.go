package stack

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	ErrOverflow  = errors.New("stack is full")
	ErrExhausted = errors.New("stack storage exhausted")
)

// growMinimum is the smallest capacity auto-resize will grow to.
const growMinimum = 8

// DefaultMaxCapacity bounds the default allocator. Resizing past it fails
// with ErrExhausted, the userspace analogue of a failed kernel allocation.
const DefaultMaxCapacity = 1 << 20

// Allocator reserves storage for n elements. Implementations may fail to
// signal exhaustion; the buffer maps any failure to ErrExhausted.
type Allocator func(n uint) ([]int32, error)

// Stats is a snapshot of the usage counters. The counters only increase and
// are read independently, so the four fields may be mutually stale by a few
// operations. Wraparound at the uint64 maximum is accepted, not guarded.
type Stats struct {
	Pushes     uint64 `json:"pushes"`
	Pops       uint64 `json:"pops"`
	Overflows  uint64 `json:"overflows"`
	Underflows uint64 `json:"underflows"`
}

// Buffer is a capacity-bounded LIFO store of 32-bit integers.
type Buffer struct {
	mu       sync.Mutex
	elements []int32
	capacity uint
	position uint // next free slot; equals the current element count

	autoResize  bool
	maxCapacity uint
	alloc       Allocator

	pushes     atomic.Uint64
	pops       atomic.Uint64
	overflows  atomic.Uint64
	underflows atomic.Uint64
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithAutoResize enables doubling the capacity on overflow instead of
// rejecting the push.
func WithAutoResize(enabled bool) Option {
	return func(b *Buffer) {
		b.autoResize = enabled
	}
}

// WithMaxCapacity bounds the default allocator. Zero means DefaultMaxCapacity.
func WithMaxCapacity(max uint) Option {
	return func(b *Buffer) {
		b.maxCapacity = max
	}
}

// WithAllocator replaces the storage allocator. Used by tests to simulate
// allocation failure.
func WithAllocator(alloc Allocator) Option {
	return func(b *Buffer) {
		b.alloc = alloc
	}
}

// New creates a buffer with the given initial capacity. Zero is valid: the
// buffer starts with no storage and every push overflows until a resize.
func New(capacity uint, opts ...Option) (*Buffer, error) {
	b := &Buffer{maxCapacity: DefaultMaxCapacity}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxCapacity == 0 {
		b.maxCapacity = DefaultMaxCapacity
	}
	if b.alloc == nil {
		b.alloc = b.defaultAlloc
	}

	if err := b.Resize(capacity); err != nil {
		return nil, fmt.Errorf("initial capacity %d: %w", capacity, err)
	}
	return b, nil
}

func (b *Buffer) defaultAlloc(n uint) ([]int32, error) {
	if n > b.maxCapacity {
		return nil, fmt.Errorf("capacity %d exceeds limit %d", n, b.maxCapacity)
	}
	return make([]int32, n), nil
}

// Push stores v at the top of the stack. When the buffer is full it returns
// ErrOverflow, or grows to max(2*capacity, 8) first when auto-resize is on.
// The overflow counter is incremented on every rejected push, including a
// failed auto-resize (which returns ErrExhausted instead).
func (b *Buffer) Push(v int32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.position >= b.capacity {
		if !b.autoResize {
			b.overflows.Add(1)
			return ErrOverflow
		}
		grown := b.capacity * 2
		if grown < growMinimum {
			grown = growMinimum
		}
		if err := b.resizeLocked(grown); err != nil {
			b.overflows.Add(1)
			return err
		}
	}

	b.elements[b.position] = v
	b.position++
	b.pushes.Add(1)
	return nil
}

// Pop removes and returns the most recently pushed value. The second return
// is false when the buffer is empty; that is the normal end-of-data signal,
// counted as an underflow but never as a pop.
func (b *Buffer) Pop() (int32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.position == 0 {
		b.underflows.Add(1)
		return 0, false
	}

	b.position--
	v := b.elements[b.position]
	b.pops.Add(1)
	return v, true
}

// Resize changes the capacity. Shrinking below the current element count
// truncates to the oldest-pushed n elements. Resizing to zero releases all
// storage. On allocation failure the prior state is left untouched and
// ErrExhausted is returned.
func (b *Buffer) Resize(n uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resizeLocked(n)
}

func (b *Buffer) resizeLocked(n uint) error {
	if n == 0 {
		b.elements = nil
		b.capacity = 0
		b.position = 0
		return nil
	}

	next, err := b.alloc(n)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExhausted, err)
	}

	retained := b.position
	if retained > n {
		retained = n
	}
	copy(next, b.elements[:retained])

	b.elements = next
	b.capacity = n
	b.position = retained
	return nil
}

// Capacity returns the current maximum number of storable elements.
func (b *Buffer) Capacity() uint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Usage returns the number of currently occupied slots.
func (b *Buffer) Usage() uint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

// Clear resets the element count to zero without releasing storage. Counters
// are unaffected.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = 0
}

// Stats returns a snapshot of the usage counters without taking the buffer
// lock.
func (b *Buffer) Stats() Stats {
	return Stats{
		Pushes:     b.pushes.Load(),
		Pops:       b.pops.Load(),
		Overflows:  b.overflows.Load(),
		Underflows: b.underflows.Load(),
	}
}
