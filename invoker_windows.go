//go:build windows

package godialog

import (
	"os/exec"
	"time"
)

// killableCommand bounds the pipe drain after the subprocess is killed, so
// Wait cannot block on descendants that inherited the output handles.
func killableCommand(cmd *exec.Cmd) {
	cmd.WaitDelay = 100 * time.Millisecond
}
