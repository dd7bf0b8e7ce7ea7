// Package health confirms that the Ollama daemon answers HTTP, not just
// that a socket is bound.
//
// Results are advisory. Every network failure is folded into a Result with
// Reachable=false; Check never returns an error.
package health
