// Package supervisor stops and restarts the Ollama daemon.
//
// It is not a general process manager: there is no restart policy and the
// daemon is never waited on. Stop kills every process with the daemon's
// exact name, then waits a settle delay so the port is released. Start
// launches "<binary> serve" detached from lanbind's session with the
// managed OLLAMA_* variables overlaid on the current environment.
//
// The platform-specific parts live in build-tagged files:
//
//   - process_unix.go: pkill -x, Setsid
//   - process_windows.go: taskkill /F, DETACHED_PROCESS
package supervisor
