//go:build !unix

package management

import "os/exec"

func detachSignals(*exec.Cmd) {}
