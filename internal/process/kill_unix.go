//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup makes cmd the leader of a new process group so that
// KillProcessGroup can reach the children it spawns.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort: the caller falls back to killing the single process.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
