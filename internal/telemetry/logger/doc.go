// Package logger provides structured logging for lanbind.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, handler selection, dynamic level
//   - context.go: Context-aware logging with run IDs
//
// Every phase of a reconciliation run (config patch, stop, start, each poll
// attempt, each connectivity check) logs through this package so an
// operator can tell which phase failed.
package logger
