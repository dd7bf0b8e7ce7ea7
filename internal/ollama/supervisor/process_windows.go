//go:build windows

package supervisor

import (
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

func killCommand(processName string) (string, []string) {
	image := processName
	if !strings.HasSuffix(strings.ToLower(image), ".exe") {
		image += ".exe"
	}
	return "taskkill", []string{"/IM", image, "/F"}
}

// detach starts the daemon without a console in its own process group so
// it survives lanbind and ignores its Ctrl+C.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
}
