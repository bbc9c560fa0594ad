// Package provider audits whether an identity's signing key is registered
// with its remote hosting account. Each provider is queried through its
// authenticated CLI's API passthrough and the response is decoded against
// the provider's published schema; substring matching of raw response text
// is deliberately avoided.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/domain"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// Verifier checks a single identity against its provider account.
type Verifier interface {
	Verify(ctx context.Context, id domain.Identity) domain.VerifyResult
}

// LocalKeyring supplies the local key material to compare against the
// provider's registered keys.
type LocalKeyring interface {
	ResolveKeyForEmail(ctx context.Context, email string) (bool, string)
	ListSecretKeys(ctx context.Context) []domain.GPGKeyRecord
}

// CommandExecutor executes provider CLI commands. Used for testing.
type CommandExecutor interface {
	// Execute runs a command and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Option configures the verifier variants.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	cmdExec CommandExecutor
}

func newOptions(opts []Option) options {
	o := options{
		logger:  zerolog.Nop(),
		cmdExec: &defaultCommandExecutor{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger for provider verification.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithExecutor sets a custom command executor (for testing).
func WithExecutor(exec CommandExecutor) Option {
	return func(o *options) {
		o.cmdExec = exec
	}
}

// ForProvider selects the verification backend for a provider tag. The set
// of variants is closed: GitHub and GitLab are queried through their CLIs;
// everything else reports the query-failed outcome rather than guessing.
func ForProvider(p domain.Provider, keys LocalKeyring, opts ...Option) Verifier {
	switch p {
	case domain.ProviderGitHub:
		return NewGitHubVerifier(keys, opts...)
	case domain.ProviderGitLab:
		return NewGitLabVerifier(keys, opts...)
	default:
		return &unsupportedVerifier{provider: p}
	}
}

// resolveLocalKey resolves the identity's key id (including "auto") and the
// matching local fingerprint for fallback comparison.
func resolveLocalKey(ctx context.Context, keys LocalKeyring, id domain.Identity) (keyID, fingerprint string, ok bool) {
	keyID = id.Signing.KeyID
	if id.Signing.AutoKey() || keyID == "" {
		found, resolved := keys.ResolveKeyForEmail(ctx, id.Email)
		if !found {
			return "", "", false
		}
		keyID = resolved
	}
	for _, rec := range keys.ListSecretKeys(ctx) {
		if keyIDMatches(rec.KeyID, keyID) {
			fingerprint = rec.Fingerprint
			break
		}
	}
	return keyID, fingerprint, true
}

// keyIDMatches compares two key identifiers case-insensitively, accepting a
// suffix relation so short ids, long ids, and full fingerprints of the same
// key all match each other.
func keyIDMatches(a, b string) bool {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if len(a) < 8 || len(b) < 8 {
		return a == b
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	return strings.HasSuffix(b, a)
}

// queryFailed builds the distinct "query failed" outcome. It must never be
// conflated with "key not registered".
func queryFailed(p domain.Provider, keyID string, err error) domain.VerifyResult {
	return domain.VerifyResult{
		Status:   domain.VerifyQueryFailed,
		Provider: p,
		KeyID:    keyID,
		Message:  fmt.Sprintf("could not query %s: %v", p, err),
	}
}

// unsupportedVerifier covers providers without a key-listing integration.
type unsupportedVerifier struct {
	provider domain.Provider
}

// Verify reports the query-failed outcome: the absence of an integration is
// an inability to ask, not evidence the key is unregistered.
func (v *unsupportedVerifier) Verify(_ context.Context, _ domain.Identity) domain.VerifyResult {
	return queryFailed(v.provider, "", gitiderrors.ErrProviderUnsupported)
}

// defaultCommandExecutor is the default implementation using exec.Command.
type defaultCommandExecutor struct{}

// Execute runs a provider CLI command and returns its stdout.
func (e *defaultCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- args are constructed internally, not user input

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s failed [%s]: %w", name, strings.TrimSpace(stderr.String()), gitiderrors.ErrProviderQuery)
		}
		return nil, fmt.Errorf("%s failed: %w", name, gitiderrors.ErrProviderQuery)
	}

	return stdout.Bytes(), nil
}
