// Package buildinfo provides build information for lanbind.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//
// The Go version and target platform are read from the runtime.
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/lanbind/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
