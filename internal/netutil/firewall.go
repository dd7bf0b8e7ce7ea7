package netutil

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// socketfilterfw is the macOS application firewall control tool.
const socketfilterfw = "/usr/libexec/ApplicationFirewall/socketfilterfw"

// FirewallState is the advisory result of a firewall check.
type FirewallState string

const (
	FirewallEnabled  FirewallState = "enabled"
	FirewallDisabled FirewallState = "disabled"
	FirewallUnknown  FirewallState = "unknown"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Firewall checks the macOS application firewall. On every other
// platform, or when the tool fails, the state is unknown.
func Firewall(ctx context.Context) FirewallState {
	return firewall(ctx, runtime.GOOS, execRunner)
}

func firewall(ctx context.Context, goos string, run Runner) FirewallState {
	if goos != "darwin" {
		return FirewallUnknown
	}
	out, err := run(ctx, socketfilterfw, "--getglobalstate")
	if err != nil {
		return FirewallUnknown
	}
	return ParseFirewallState(string(out))
}

// ParseFirewallState interprets `socketfilterfw --getglobalstate` output,
// e.g. "Firewall is enabled. (State = 1)".
func ParseFirewallState(out string) FirewallState {
	s := strings.ToLower(out)
	switch {
	case strings.Contains(s, "disabled"):
		return FirewallDisabled
	case strings.Contains(s, "enabled"):
		return FirewallEnabled
	default:
		return FirewallUnknown
	}
}
