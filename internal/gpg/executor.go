// Package gpg orchestrates the GnuPG and YubiKey Manager command-line tools
// to discover signing keys, probe hardware tokens, and run trial signatures.
// This file provides the shared subprocess execution plumbing.
package gpg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// CommandExecutor executes external tool commands. Used for testing.
type CommandExecutor interface {
	// Execute runs a command and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteInput runs a command with the given stdin and returns its stdout.
	ExecuteInput(ctx context.Context, input []byte, name string, args ...string) ([]byte, error)
}

// defaultCommandExecutor is the default implementation using exec.Command.
// Unit tests mock the CommandExecutor interface to avoid external
// dependencies; these paths are covered by manual and integration testing.
type defaultCommandExecutor struct{}

// Execute runs a command using the standard exec package.
func (e *defaultCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return runToolCommand(ctx, nil, name, args...)
}

// ExecuteInput runs a command with stdin using the standard exec package.
func (e *defaultCommandExecutor) ExecuteInput(ctx context.Context, input []byte, name string, args ...string) ([]byte, error) {
	return runToolCommand(ctx, input, name, args...)
}

// runToolCommand executes an external tool and returns its stdout as bytes.
func runToolCommand(ctx context.Context, input []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- args are constructed internally, not user input
	if input != nil {
		cmd.Stdin = bytes.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check for context cancellation
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Include stderr in error for debugging
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s failed [%s]: %w", name, strings.TrimSpace(stderr.String()), gitiderrors.ErrToolUnavailable)
		}
		return nil, fmt.Errorf("%s failed: %w", name, gitiderrors.ErrToolUnavailable)
	}

	return stdout.Bytes(), nil
}
