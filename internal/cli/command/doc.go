// Package command provides CLI command definitions for lanbind.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, config and logger setup
//   - ensure.go: Reconciliation run (also the default action)
//   - status.go: Read-only report of binding, listener and reachability
//   - discover.go: Candidate host scan and mDNS browse
//   - watch.go: Keeps the listen directive in place while the file changes
//   - config.go: Configuration subcommand group
//
// Commands follow a consistent pattern of loading configuration once,
// building the binding, calling the appropriate component, and formatting
// output.
package command
