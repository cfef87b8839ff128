// Package shell spawns the detached commands a bind's action list fires
// (§4.G.8): fire-and-forget children with their own session, so a shell
// command's lifetime and output never touch the daemon's.
package shell

import (
	"os/exec"
	"syscall"
)

// Run starts text as `sh -c text` in a new session, detached from the
// daemon's controlling terminal and process group, and does not wait for
// it to exit. The daemon never captures its stdout/stderr or observes
// its exit status (§5: "fire-and-forget with a detached terminal").
func Run(text string) error {
	cmd := exec.Command("sh", "-c", text)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err
	}

	// Reap the child asynchronously so it never lingers as a zombie; the
	// daemon has already moved on by the time this goroutine runs.
	go func(c *exec.Cmd) {
		_ = c.Wait()
	}(cmd)

	return nil
}
