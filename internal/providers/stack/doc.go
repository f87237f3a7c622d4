// Package stack exposes the shared stack device as a service provider.
//
// Tool IDs mirror the device operations: stack.push, stack.pop, stack.drain,
// stack.set_capacity, stack.capacity, stack.usage, stack.clear, stack.stats.
// Results carry either data or a caller-visible error message; a pop against
// an empty buffer succeeds with an empty marker rather than failing.
package stack
