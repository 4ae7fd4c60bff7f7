package harness

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps draining pipes after the process was killed.
const waitDelay = 5 * time.Second

// Command prepares name to run in dir inside its own process group. Cancelling ctx kills
// the whole group, so build tools cannot leave forked children behind.
func Command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)
	return cmd
}

// CombinedOutput runs the command and returns interleaved stdout and stderr. When ctx ends
// first the returned error is ctx.Err().
func CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := Command(ctx, dir, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if ctx.Err() != nil {
		return buf.Bytes(), ctx.Err()
	}
	return buf.Bytes(), err
}
