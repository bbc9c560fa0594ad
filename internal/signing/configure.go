// Package signing contains the signing readiness decision engine and the
// per-repository signing configurator. This file applies an identity's
// signing configuration to a repository's persistent git settings.
package signing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/domain"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// GitConfig is the persistent per-repository settings store.
type GitConfig interface {
	Get(ctx context.Context, repoPath, key string) (value string, found bool, err error)
	Set(ctx context.Context, repoPath, key, value string) error
	Unset(ctx context.Context, repoPath, key string) error
}

// EmailResolver resolves the "auto" key id sentinel.
type EmailResolver interface {
	ResolveKeyForEmail(ctx context.Context, email string) (bool, string)
}

// Configurator writes signing configuration into a repository.
//
// The underlying tool offers no all-or-nothing grouping: each setting is a
// separate write. The contract is to attempt every write and report overall
// success only if every one succeeded. A partial failure is reported as
// failure even though some settings were applied; writes are idempotent, so
// re-invoking is safe.
type Configurator struct {
	logger   zerolog.Logger
	git      GitConfig
	keys     EmailResolver
	hardware HardwareChecker
	card     CardProber
}

// ConfiguratorOption configures a Configurator.
type ConfiguratorOption func(*Configurator)

// NewConfigurator creates a Configurator over the given collaborators.
func NewConfigurator(git GitConfig, keys EmailResolver, hardware HardwareChecker, card CardProber, opts ...ConfiguratorOption) *Configurator {
	c := &Configurator{
		logger:   zerolog.Nop(),
		git:      git,
		keys:     keys,
		hardware: hardware,
		card:     card,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithConfiguratorLogger sets the logger for configuration operations.
func WithConfiguratorLogger(logger zerolog.Logger) ConfiguratorOption {
	return func(c *Configurator) {
		c.logger = logger
	}
}

// ConfigureGPG writes the GPG signing settings for a repository.
func (c *Configurator) ConfigureGPG(ctx context.Context, repoPath, keyID string, signCommits, signTags, autoSignoff bool) error {
	if keyID == "" {
		return fmt.Errorf("gpg signing needs a key id: %w", gitiderrors.ErrConfigWrite)
	}

	writes := [][2]string{
		{"user.signingkey", keyID},
		{"gpg.format", "openpgp"},
		{"commit.gpgsign", strconv.FormatBool(signCommits)},
		{"tag.gpgsign", strconv.FormatBool(signTags)},
	}
	if autoSignoff {
		writes = append(writes, [2]string{"format.signoff", "true"})
	}
	return c.applyWrites(ctx, repoPath, writes)
}

// ConfigureSSH writes the SSH signing settings for a repository. When the
// conventional allowed-signers file exists on disk it is referenced so that
// local signature verification works too.
func (c *Configurator) ConfigureSSH(ctx context.Context, repoPath, sshKeyPath string, signCommits bool) error {
	if sshKeyPath == "" {
		return fmt.Errorf("ssh signing needs a key path: %w", gitiderrors.ErrConfigWrite)
	}

	keyPath := ExpandHome(sshKeyPath)
	writes := [][2]string{
		{"gpg.format", "ssh"},
		{"user.signingkey", keyPath},
		{"commit.gpgsign", strconv.FormatBool(signCommits)},
	}
	if signers := allowedSignersFile(); signers != "" {
		writes = append(writes, [2]string{"gpg.ssh.allowedSignersFile", signers})
	}
	return c.applyWrites(ctx, repoPath, writes)
}

// DisableSigning clears the signing key and disables commit signing.
// Clearing a key that was never set is not an error.
func (c *Configurator) DisableSigning(ctx context.Context, repoPath string) error {
	var result *multierror.Error
	if err := c.git.Unset(ctx, repoPath, "user.signingkey"); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.git.Set(ctx, repoPath, "commit.gpgsign", "false"); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.git.Set(ctx, repoPath, "tag.gpgsign", "false"); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// ConfigureIdentity is the dispatch entry point: it resolves the "auto" key
// id, selects the GPG or SSH path, and composes a human-readable outcome
// message. The returned bool reports overall success.
func (c *Configurator) ConfigureIdentity(ctx context.Context, repoPath string, id domain.Identity) (bool, string) {
	cfg := id.Signing
	if cfg.Empty() {
		return true, fmt.Sprintf("No signing configuration for %s; repository signing left unchanged", id.Name)
	}

	if cfg.Format == domain.FormatSSH {
		if err := c.ConfigureSSH(ctx, repoPath, cfg.SSHKeyPath, cfg.SignCommits); err != nil {
			c.logger.Error().Err(err).Str("identity", id.Name).Msg("ssh signing configuration failed")
			return false, fmt.Sprintf("failed to configure SSH signing: %v", err)
		}
		msg := fmt.Sprintf("Configured SSH signing with key %s", cfg.SSHKeyPath)
		if IsHardwareSSHKeyPath(cfg.SSHKeyPath) || cfg.HardwareKey {
			msg += c.hardwareAnnotation(ctx)
		}
		return true, msg
	}

	keyID := cfg.KeyID
	if cfg.AutoKey() || keyID == "" {
		found, resolved := c.keys.ResolveKeyForEmail(ctx, id.Email)
		if !found {
			return false, fmt.Sprintf("no GPG key found for %s; cannot configure signing", id.Email)
		}
		keyID = resolved
	}

	if err := c.ConfigureGPG(ctx, repoPath, keyID, cfg.SignCommits, cfg.SignTags, cfg.AutoSignoff); err != nil {
		c.logger.Error().Err(err).Str("identity", id.Name).Msg("gpg signing configuration failed")
		return false, fmt.Sprintf("failed to configure GPG signing: %v", err)
	}

	msg := fmt.Sprintf("Configured GPG signing with key %s", keyID)
	if c.hardware.IsHardwareKey(ctx, keyID) || cfg.HardwareKey {
		msg += c.hardwareAnnotation(ctx)
	}
	return true, msg
}

// hardwareAnnotation describes the token's touch requirements for success
// messages about hardware-backed keys.
func (c *Configurator) hardwareAnnotation(ctx context.Context) string {
	status := c.card.Status(ctx)
	if !status.Present {
		return " (hardware key; token not currently connected)"
	}
	switch status.TouchSig {
	case domain.TouchOn:
		return " (hardware key; touch required for every signature)"
	case domain.TouchCached:
		return " (hardware key; touch required once per session)"
	case domain.TouchOff:
		return " (hardware key; no touch required)"
	}
	return " (hardware key)"
}

// applyWrites attempts every write and aggregates failures. Overall success
// requires every individual write to succeed.
func (c *Configurator) applyWrites(ctx context.Context, repoPath string, writes [][2]string) error {
	var result *multierror.Error
	for _, kv := range writes {
		if err := c.git.Set(ctx, repoPath, kv[0], kv[1]); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// allowedSignersFile returns the conventional allowed-signers path when the
// file exists on disk, or "" otherwise.
func allowedSignersFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".ssh", "allowed_signers")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
