// Package http provides HTTP handlers and routing for the stackd REST API.
//
// This package implements all HTTP endpoints using the Gin framework: the
// stack operations, presence control, service execution, and health checks.
//
// Endpoints:
//   - Health: / and /health
//   - Stack: /stack/push, /stack/pop, /stack/drain, /stack/capacity,
//     /stack/usage, /stack/stats, /stack/clear
//   - Presence: /presence, /presence/attach, /presence/detach
//   - Services: /services, /services/execute
//
// Status Mapping:
//   - 503 device not present
//   - 409 stack full
//   - 507 storage exhausted
//   - 400 malformed or invalid input
//   - 204 pop against an empty stack (end of data)
package http
