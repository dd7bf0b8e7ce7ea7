//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"
)

// killCommand matches the process name exactly so lanbind never kills
// itself or unrelated processes mentioning the daemon.
func killCommand(processName string) (string, []string) {
	return "pkill", []string{"-x", processName}
}

// detach starts the daemon in its own session so it survives lanbind.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
