// Package presence drives the availability gate from an external signal.
//
// The original device is enabled by a hardware key being plugged in. The
// service equivalent is a key file: while the configured path exists the
// device is attached, and when it disappears the device is detached. A
// Watcher polls the path on a fixed interval; the manual presence endpoints
// cover environments without a key file.
package presence
