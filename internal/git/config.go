// Package git provides the git subprocess plumbing gitid needs: reading and
// writing per-repository configuration via `git config`.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/constants"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// CommandExecutor executes git commands. Used for testing.
type CommandExecutor interface {
	// Execute runs a command in the given directory and returns its stdout.
	Execute(ctx context.Context, workDir, name string, args ...string) ([]byte, error)
}

// ConfigStore reads and writes persistent per-repository git settings.
// Each setting is a separate `git config` invocation; there is no
// transactional grouping, but every write is idempotent.
type ConfigStore struct {
	logger  zerolog.Logger
	cmdExec CommandExecutor
}

// ConfigStoreOption configures a ConfigStore.
type ConfigStoreOption func(*ConfigStore)

// NewConfigStore creates a ConfigStore with the given options.
func NewConfigStore(opts ...ConfigStoreOption) *ConfigStore {
	s := &ConfigStore{
		logger:  zerolog.Nop(),
		cmdExec: &defaultCommandExecutor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithConfigLogger sets the logger for config operations.
func WithConfigLogger(logger zerolog.Logger) ConfigStoreOption {
	return func(s *ConfigStore) {
		s.logger = logger
	}
}

// WithConfigExecutor sets a custom command executor (for testing).
func WithConfigExecutor(exec CommandExecutor) ConfigStoreOption {
	return func(s *ConfigStore) {
		s.cmdExec = exec
	}
}

// Get reads a config key from the repository at repoPath.
// A missing key is reported as found=false, not an error: `git config --get`
// exits non-zero for unset keys and that is an expected state.
func (s *ConfigStore) Get(ctx context.Context, repoPath, key string) (value string, found bool, err error) {
	output, err := s.cmdExec.Execute(ctx, repoPath, constants.ToolGit, "config", "--get", key)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, nil
	}
	return strings.TrimSpace(string(output)), true, nil
}

// Set writes a config key in the repository at repoPath.
func (s *ConfigStore) Set(ctx context.Context, repoPath, key, value string) error {
	_, err := s.cmdExec.Execute(ctx, repoPath, constants.ToolGit, "config", key, value)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to set %s: %w", key, gitiderrors.ErrConfigWrite)
	}
	s.logger.Debug().Str("key", key).Str("repo", repoPath).Msg("config written")
	return nil
}

// Unset removes a config key from the repository at repoPath.
// Clearing a key that was never set is not an error.
func (s *ConfigStore) Unset(ctx context.Context, repoPath, key string) error {
	_, found, err := s.Get(ctx, repoPath, key)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if _, err := s.cmdExec.Execute(ctx, repoPath, constants.ToolGit, "config", "--unset", key); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to unset %s: %w", key, gitiderrors.ErrConfigWrite)
	}
	s.logger.Debug().Str("key", key).Str("repo", repoPath).Msg("config cleared")
	return nil
}

// IsRepository reports whether path is inside a git repository.
func (s *ConfigStore) IsRepository(ctx context.Context, path string) bool {
	_, err := s.cmdExec.Execute(ctx, path, constants.ToolGit, "rev-parse", "--git-dir")
	return err == nil
}

// defaultCommandExecutor is the default implementation using exec.Command.
type defaultCommandExecutor struct{}

// Execute runs a git command in the specified directory and returns its
// stdout. Errors include stderr for debugging and wrap ErrGitOperation.
func (e *defaultCommandExecutor) Execute(ctx context.Context, workDir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir

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
			return nil, fmt.Errorf("%s %s failed: %s: %w", name, args[0], strings.TrimSpace(stderr.String()), gitiderrors.ErrGitOperation)
		}
		return nil, fmt.Errorf("%s %s failed: %w", name, args[0], gitiderrors.ErrGitOperation)
	}

	return stdout.Bytes(), nil
}
