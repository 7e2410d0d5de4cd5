package pdfedit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/alnah/go-pdfedit/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Each command runs in its
// own process group and the whole group is killed when ctx is done.
type ExecRunner struct{}

var _ CommandRunner = ExecRunner{}

// Run starts name with args and waits for it or for ctx. A binary missing
// from PATH yields an error wrapping ErrToolNotFound.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	cmd := exec.Command(name, args...) // #nosec G204 -- binary comes from config, args are built here
	process.SetProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		return nil, "", fmt.Errorf("starting %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return stdout.Bytes(), stderr.String(), err
	case <-ctx.Done():
		process.KillProcessGroup(cmd.Process.Pid)
		_ = cmd.Process.Kill()
		<-done
		return stdout.Bytes(), stderr.String(), ctx.Err()
	}
}
