// Package stack implements the bounded LIFO integer buffer at the core of stackd.
//
// A Buffer holds signed 32-bit integers up to a mutable capacity. All mutating
// operations (push, pop, resize, clear) are serialized by a single mutex; the
// four usage counters are independent atomics so statistics reads never queue
// behind buffer mutations.
//
// Overflow and underflow are ordinary outcomes, not failures: a push against a
// full buffer returns ErrOverflow (unless auto-resize is enabled), and a pop
// against an empty buffer returns the empty sentinel, mirroring end-of-stream
// semantics.
//
// Example Usage:
//
//	buf, _ := stack.New(16)
//	buf.Push(42)
//	v, ok := buf.Pop() // 42, true
package stack
