package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ErrNotFound is wrapped by launch errors for programs missing from PATH.
var ErrNotFound = errors.New("command not found")

type Executor interface {
	Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error)
}

type IOBindings struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultExecutor resolves name on PATH and waits for the child to finish.
type DefaultExecutor struct{}

// Execute returns the child's exit status. A program that cannot be started
// reports status 127 alongside the error.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = io.Stdin
	cmd.Stdout = io.Stdout
	cmd.Stderr = io.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return 127, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return 127, err
	}
	return 0, nil
}
