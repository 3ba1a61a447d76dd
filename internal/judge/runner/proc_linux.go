//go:build linux

package runner

import (
	"os/exec"
	"syscall"
)

// sysProcAttr places the child in its own process group so a timeout kill
// reaches the whole tree, and ties its lifetime to ours.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGKILL,
	}
}

func killProcessTree(cmd *exec.Cmd) {
	if cmd.Process == nil || cmd.Process.Pid <= 0 {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
