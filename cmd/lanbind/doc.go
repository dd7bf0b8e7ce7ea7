// Package main provides the entry point for lanbind.
//
// lanbind makes a local Ollama daemon reachable from the LAN:
//
//   - Patches the listen directive in ~/.ollama/config
//   - Regenerates ~/.ollama/environment (and optionally the shell profile)
//   - Restarts the daemon when nothing listens on the port yet
//   - Polls the socket table until the daemon binds, then checks HTTP reachability
//
// Usage:
//
//	lanbind                      # same as lanbind ensure
//	lanbind ensure --port 11500 --persist-profile
//	lanbind status -o json
//	lanbind discover --all
//	lanbind watch
//
// Exit status is 0 when the daemon is (or already was) listening and 1 when
// it never bound within the poll budget or a file could not be written.
package main
