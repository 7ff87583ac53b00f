// Package server exposes expression evaluation over HTTP.
//
// Endpoints:
//
//	GET /eval?expr=...   evaluate one expression, JSON response
//	GET /health          liveness probe
//	GET /metrics         Prometheus metrics
package server
