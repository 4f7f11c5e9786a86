//go:build !windows

package godialog

import (
	"os/exec"
	"syscall"
	"time"
)

// killableCommand puts the subprocess in its own process group and kills the
// whole group on context cancellation. Dialog tools routinely fork (or are
// wrapper shells); killing only the direct child would leave grandchildren
// holding the output pipes and block Wait for their full lifetime. WaitDelay
// bounds the pipe drain for anything that escapes the group.
func killableCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 100 * time.Millisecond
}
