// Package device composes the buffer engine and the availability gate into
// the single shared device handle used by every boundary layer.
//
// One Device exists per process. It is constructed at startup with the
// configured initial capacity and destroyed at shutdown; buffer contents
// survive detach/re-attach cycles because only admission is gated, never the
// storage itself.
//
// The Device also fans out presence events to subscribers (the WebSocket
// stream) and feeds the Prometheus gauges after each operation.
package device
