// Package config provides configuration management for gitid with layered
// precedence.
//
// Configuration sources are loaded in the following order (highest
// precedence first):
//  1. Environment variables (GITID_* prefix)
//  2. Global config (~/.config/gitid/config.yaml)
//  3. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for gitid.
type Config struct {
	// Identities maps identity names to their registry entries.
	Identities map[string]IdentityEntry `yaml:"identities" mapstructure:"identities"`

	// Signing contains settings for readiness evaluation.
	Signing SigningSettings `yaml:"signing" mapstructure:"signing"`

	// Verify contains settings for provider key verification.
	Verify VerifySettings `yaml:"verify" mapstructure:"verify"`
}

// IdentityEntry is the on-disk form of a registry identity. The identity
// package converts entries into domain identities.
type IdentityEntry struct {
	// Provider is the remote hosting provider tag (github, gitlab,
	// bitbucket, other).
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Host is the SSH alias used in remote URLs.
	Host string `yaml:"host,omitempty" mapstructure:"host"`

	// Hostname is the real host behind the alias.
	Hostname string `yaml:"hostname,omitempty" mapstructure:"hostname"`

	// User is the account username on the provider.
	User string `yaml:"user,omitempty" mapstructure:"user"`

	// Email is the commit author email.
	Email string `yaml:"email" mapstructure:"email"`

	// Signing holds the identity's signing configuration, if any.
	Signing SigningEntry `yaml:"signing,omitempty" mapstructure:"signing"`
}

// SigningEntry is the on-disk form of a signing configuration.
type SigningEntry struct {
	// KeyID is the GPG key id, or "auto" to resolve by email.
	KeyID string `yaml:"key_id,omitempty" mapstructure:"key_id"`

	// Format selects "gpg" or "ssh" signing.
	Format string `yaml:"format,omitempty" mapstructure:"format"`

	// SSHKeyPath is the public key file used for ssh signing.
	SSHKeyPath string `yaml:"ssh_key_path,omitempty" mapstructure:"ssh_key_path"`

	// SignCommits enables commit signing.
	SignCommits bool `yaml:"sign_commits,omitempty" mapstructure:"sign_commits"`

	// SignTags enables tag signing.
	SignTags bool `yaml:"sign_tags,omitempty" mapstructure:"sign_tags"`

	// AutoSignoff adds a Signed-off-by trailer to commits.
	AutoSignoff bool `yaml:"auto_signoff,omitempty" mapstructure:"auto_signoff"`

	// HardwareKey hints that the key lives on a hardware token.
	HardwareKey bool `yaml:"hardware_key,omitempty" mapstructure:"hardware_key"`

	// TouchPolicy is an advisory touch policy hint.
	TouchPolicy string `yaml:"touch_policy,omitempty" mapstructure:"touch_policy"`
}

// SigningSettings contains settings for readiness evaluation.
type SigningSettings struct {
	// TestTimeout bounds the non-interactive trial signature.
	// Default: 15 seconds.
	TestTimeout time.Duration `yaml:"test_timeout" mapstructure:"test_timeout"`
}

// VerifySettings contains settings for provider key verification.
type VerifySettings struct {
	// Timeout bounds a single provider API query.
	// Default: 30 seconds.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}
