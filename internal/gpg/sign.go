// Package gpg orchestrates the GnuPG and YubiKey Manager command-line tools.
// This file implements the bounded trial signature used to prove a software
// key can actually sign right now.
package gpg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/constants"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// signTestPayload is the fixed short payload signed during readiness checks.
const signTestPayload = "gitid signing readiness check\n"

// TrialSigner performs a non-interactive trial signature with a given key.
//
// Every trial runs under a bounded wait: a pinentry prompt or hardware touch
// that is never answered must surface as a timeout instead of hanging the
// caller indefinitely.
type TrialSigner struct {
	logger  zerolog.Logger
	cmdExec CommandExecutor
	timeout time.Duration
}

// TrialSignerOption configures a TrialSigner.
type TrialSignerOption func(*TrialSigner)

// NewTrialSigner creates a TrialSigner with the given options.
func NewTrialSigner(opts ...TrialSignerOption) *TrialSigner {
	s := &TrialSigner{
		logger:  zerolog.Nop(),
		cmdExec: &defaultCommandExecutor{},
		timeout: constants.DefaultSignTestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithSignerLogger sets the logger for trial signing.
func WithSignerLogger(logger zerolog.Logger) TrialSignerOption {
	return func(s *TrialSigner) {
		s.logger = logger
	}
}

// WithSignerExecutor sets a custom command executor (for testing).
func WithSignerExecutor(exec CommandExecutor) TrialSignerOption {
	return func(s *TrialSigner) {
		s.cmdExec = exec
	}
}

// WithSignerTimeout bounds the trial signature wait.
func WithSignerTimeout(timeout time.Duration) TrialSignerOption {
	return func(s *TrialSigner) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// TestSign signs a fixed short payload with the given key in batch mode.
// A nil return means the key can sign. Failures are classified:
//
//   - ErrSignTimeout: the bounded wait expired (unanswered touch/pinentry)
//   - ErrSigningTest: gpg rejected the operation (bad passphrase, revoked
//     key, agent misconfiguration)
func (s *TrialSigner) TestSign(ctx context.Context, keyID string) error {
	if keyID == "" {
		return fmt.Errorf("trial signature requires a key id: %w", gitiderrors.ErrSigningTest)
	}

	signCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.cmdExec.ExecuteInput(signCtx, []byte(signTestPayload), constants.ToolGPG,
		"--batch", "--yes", "--armor",
		"--local-user", keyID,
		"--output", "/dev/null",
		"--sign")
	if err == nil {
		return nil
	}

	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(signCtx.Err() != nil && ctx.Err() == nil)
	if timedOut {
		s.logger.Warn().Str("key_id", keyID).Dur("timeout", s.timeout).Msg("trial signature timed out")
		return fmt.Errorf("no signature after %s: %w", s.timeout, gitiderrors.ErrSignTimeout)
	}

	s.logger.Debug().Err(err).Str("key_id", keyID).Msg("trial signature failed")
	return fmt.Errorf("gpg rejected trial signature for %s: %w", keyID, gitiderrors.ErrSigningTest)
}
