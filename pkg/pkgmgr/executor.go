// Package pkgmgr runs the OS package managers (apt, snap, Homebrew) that
// install missing packages, and probes PATH for installed commands.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor is an interface for executing commands, allowing for testing.
type Executor interface {
	LookPath(file string) (string, error)
	// Run executes name and returns its exit status. err is non-nil when the
	// command could not be started or was stopped by ctx.
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// RealExecutor runs commands with the operator's terminal attached so
// package manager progress and sudo prompts stay visible.
type RealExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRealExecutor returns an executor wired to the process stdio.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and waits for it to exit.
func (e *RealExecutor) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("%s interrupted: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to run %s: %w", name, err)
}

// PathProber reports a command as installed when it resolves on PATH.
type PathProber struct {
	Exec Executor
}

// IsResolvable looks command up on PATH.
func (p PathProber) IsResolvable(command string) bool {
	_, err := p.Exec.LookPath(command)
	return err == nil
}
