// Package rundaemon detaches a fresh daemon process from the CLI's
// foreground session. It's the idiomatic Go substitute for the original's
// fork()+setsid()+double-fork dance: Go's runtime can't fork safely with
// goroutines already running, so detachment instead re-execs the same
// binary with Setsid in its SysProcAttr.
package rundaemon

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// Spawn launches `self run --name name --path path` detached from the
// calling process's session and controlling terminal.
func Spawn(name, path string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("rundaemon: resolve self: %w", err)
	}

	cmd := exec.Command(self, "run", "--name", name, "--path", path)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("rundaemon: start: %w", err)
	}
	return cmd.Process.Release()
}
