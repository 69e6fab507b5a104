package capture

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Execution is what a finished tool process reported.
type Execution struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes an assembled command line and waits for it to finish.
// An error means the process could not be started.
type Runner interface {
	Run(ctx context.Context, argv []string) (Execution, error)
}

// ExecRunner runs commands as child processes, capturing both output streams in full.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, argv []string) (Execution, error) {
	if len(argv) == 0 {
		return Execution{}, errors.New("empty command line")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Cancel = func() error { return killProcess(cmd) }

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Execution{}, err
	}

	err := cmd.Wait()
	execution := Execution{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		execution.ExitCode = exitErr.ExitCode()
	default:
		return execution, err
	}

	return execution, nil
}
