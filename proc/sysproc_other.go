//go:build !linux && !darwin
// +build !linux,!darwin

package proc

import (
	"fmt"
	"os/exec"
)

func setSysProcAttr(*exec.Cmd) {}

func killGroup(pid int32) error {
	return fmt.Errorf("proc: process-group kill not supported on this platform (pid %d)", pid)
}
