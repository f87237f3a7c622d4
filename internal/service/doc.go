// Package service provides the service registry for stackd provider management.
//
// The registry maintains a catalog of available service providers and routes
// tool execution to the owning provider.
//
// Components:
//   - Registry: Central service catalog
//   - Provider: Interface for service implementations
//
// Features:
//   - Thread-safe service registration
//   - Category-based filtering
//   - Tool execution with context passing
//   - Service statistics
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(stackProvider)
//	result, err := registry.Execute(ctx, "stack.push", params, reqCtx)
package service
