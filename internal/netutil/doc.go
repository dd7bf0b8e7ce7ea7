// Package netutil answers read-only questions about the host's network:
// which address the LAN sees, which interfaces are up and whether the
// macOS application firewall is on.
package netutil
