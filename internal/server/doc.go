// Package server provides HTTP server setup and initialization for stackd.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (request IDs, CORS, rate limiting, metrics, recovery)
//   - Device construction and service provider registration
//   - Presence watcher lifecycle
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger and metrics
//  3. Create the stack device (gated or open)
//  4. Register service providers
//  5. Setup HTTP routes and middleware
//  6. Start the presence watcher and HTTP server
//  7. Graceful shutdown on signal
package server
