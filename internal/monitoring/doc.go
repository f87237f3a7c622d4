// Package monitoring provides Prometheus metrics for the stackd service.
//
// Metric Groups:
//   - HTTP: request counts and latency, labeled by method/path/status
//   - Stack: per-operation outcomes, current depth and capacity
//   - Gate: availability state and transition counts
//   - System: uptime, WebSocket connection count
//
// Example Usage:
//
//	metrics := monitoring.NewMetrics(nil)
//	router.Use(monitoring.Middleware(metrics))
//	metrics.RecordOp("push", "overflow")
package monitoring
