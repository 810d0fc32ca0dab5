//go:build unix

package management

import (
	"os/exec"
	"syscall"
)

// detachSignals puts the child in its own process group so a terminal
// Ctrl+C reaches only the supervisor, which then asks the server to stop.
func detachSignals(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
