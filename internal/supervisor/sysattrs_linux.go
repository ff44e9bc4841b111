//go:build linux

package supervisor

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr detaches the runtime into its own session so group
// signals reach its children, and asks the kernel to terminate it if the
// supervisor dies first.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Pdeathsig: syscall.SIGTERM}
}

// Personal.AI order the ending
