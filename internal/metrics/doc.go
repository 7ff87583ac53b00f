// Package metrics collects measurements of the running calculator:
// Prometheus counters for engine operations and runtime memory snapshots.
package metrics
