// Package gate implements the availability state machine that admits or
// refuses operations against the shared buffer.
//
// A Gate is either Unavailable or Available. Transitions are driven by an
// external presence source (the key watcher, or the manual presence
// endpoints) and are idempotent. Do runs an operation under the gate's read
// lock, so an admitted operation always completes against a consistent
// buffer: a detach cannot interleave with it.
package gate
