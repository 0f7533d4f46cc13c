//go:build linux || darwin
// +build linux darwin

package proc

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setSysProcAttr puts the child in its own process group so the whole
// group can be signaled on destruction.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killGroup sends SIGKILL to the process group led by pid. Used as the
// last resort after a graceful terminate failed.
func killGroup(pid int32) error {
	return unix.Kill(-int(pid), unix.SIGKILL)
}
