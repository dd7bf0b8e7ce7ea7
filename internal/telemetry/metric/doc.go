// Package metric provides Prometheus metrics for lanbind.
//
// A reconciliation run is a short-lived process, so nothing is served over
// HTTP. Instead the registry is written to a node_exporter textfile after
// each run when a textfile path is configured:
//
//   - poll attempts and probe outcomes
//   - connectivity checks per target
//   - daemon restarts
//   - the final run state, its duration and timestamp
package metric
