// Package output renders command results for the lanbind CLI.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned plain-text tables
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//   - progress.go: poll attempt progress bar
//
// Table output is meant for people; json and yaml are stable for scripts.
package output
