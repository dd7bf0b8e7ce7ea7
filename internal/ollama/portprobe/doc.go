// Package portprobe answers one question: is something listening on a TCP
// port, bound to the requested host?
//
// It shells out to the platform's socket-table tool on every call:
//
//   - lsof.go: lsof, falling back to ss when lsof is not installed (Unix)
//   - netstat.go: netstat -ano (Windows)
//
// Output parsers are pure functions so every platform's parser is tested
// everywhere. A probe never returns an error: failures to read the socket
// table come back as domain.ProbeInconclusive.
package portprobe
