// Package server provides the HTTP surface of the service: a Gin engine
// mounted on a root ServeMux with HTTP/2 (h2c) support, a standard
// middleware chain, and built-in operational endpoints.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request/response logging with duration tracking
//   - RateLimit: per-key sliding-window rate limiting for expensive routes
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: health check aggregation over dependency checks
//   - /alive, /ready: Kubernetes probes
//   - /info, /version: build and service information
//   - /metrics: runtime memory and goroutine statistics
package server
