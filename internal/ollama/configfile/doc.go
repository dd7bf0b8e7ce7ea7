// Package configfile maintains the on-disk surfaces that tell the Ollama
// daemon where to listen:
//
//   - patcher.go: the listen directive in the daemon's persisted config
//   - envfile.go: the regenerated file of exported OLLAMA_* variables
//   - profile.go: managed exports in the user's shell profile
//
// Every writer is idempotent. A second run with the same binding leaves
// each file byte-identical and skips the write entirely.
package configfile
