// Package domain defines the core domain models for lanbind.
//
// This package contains the values that flow through a reconciliation run:
//
//   - binding.go: DesiredBinding, the immutable host/port/origin target
//   - listening.go: ListeningState and ProbeOutcome returned by port probes
//   - outcome.go: terminal states of a reconciliation run
//   - run.go: run IDs
//   - errors.go: structured domain errors with stable codes
//
// Nothing in this package touches the OS; adapters live under internal/ollama.
package domain
