// Package domain provides shared domain types for gitid.
// These types are used across all internal packages to ensure consistent
// data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/errors"
)

// Provider identifies the remote hosting provider an identity belongs to.
type Provider string

// Known providers.
const (
	// ProviderGitHub is github.com or a GitHub Enterprise host.
	ProviderGitHub Provider = "github"

	// ProviderGitLab is gitlab.com or a self-managed GitLab host.
	ProviderGitLab Provider = "gitlab"

	// ProviderBitbucket is bitbucket.org.
	ProviderBitbucket Provider = "bitbucket"

	// ProviderOther is any host without a dedicated integration.
	ProviderOther Provider = "other"
)

// Valid reports whether p is a recognized provider value.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGitHub, ProviderGitLab, ProviderBitbucket, ProviderOther:
		return true
	}
	return false
}

// String returns the provider tag.
func (p Provider) String() string {
	return string(p)
}

// ParseProvider converts a configuration string into a Provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	if !p.Valid() {
		return "", errors.Wrapf(errors.ErrInvalidProvider, "unrecognized provider %q", s)
	}
	return p, nil
}

// SigningFormat selects how commits and tags are signed.
type SigningFormat string

// Supported signing formats.
const (
	// FormatGPG signs with an OpenPGP key held in the GnuPG keyring
	// (possibly backed by a hardware token).
	FormatGPG SigningFormat = "gpg"

	// FormatSSH signs with an SSH key file via git's ssh signing support.
	FormatSSH SigningFormat = "ssh"
)

// Valid reports whether f is a recognized signing format.
func (f SigningFormat) Valid() bool {
	return f == FormatGPG || f == FormatSSH
}

// SigningConfig describes how an identity signs commits and tags.
//
// KeyID may be the literal "auto", meaning "resolve a concrete key id by the
// identity's email". The resolved id must always replace "auto" before the
// config reaches hardware detection, git config writes, or provider
// verification.
type SigningConfig struct {
	// KeyID is the GPG key id, or "auto" to resolve by email.
	// Unused when Format is FormatSSH.
	KeyID string `json:"key_id,omitempty" yaml:"key_id,omitempty" mapstructure:"key_id"`

	// Format selects GPG or SSH signing.
	Format SigningFormat `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`

	// SSHKeyPath is the public key file used when Format is FormatSSH.
	SSHKeyPath string `json:"ssh_key_path,omitempty" yaml:"ssh_key_path,omitempty" mapstructure:"ssh_key_path"`

	// SignCommits enables commit signing in the repository config.
	SignCommits bool `json:"sign_commits,omitempty" yaml:"sign_commits,omitempty" mapstructure:"sign_commits"`

	// SignTags enables tag signing in the repository config.
	SignTags bool `json:"sign_tags,omitempty" yaml:"sign_tags,omitempty" mapstructure:"sign_tags"`

	// AutoSignoff adds a Signed-off-by trailer to commits. This is a git
	// convention, not a cryptographic signing feature; advisory only.
	AutoSignoff bool `json:"auto_signoff,omitempty" yaml:"auto_signoff,omitempty" mapstructure:"auto_signoff"`

	// HardwareKey hints that the key lives on a hardware token. The
	// authoritative answer comes from hardware detection at evaluation time.
	HardwareKey bool `json:"hardware_key,omitempty" yaml:"hardware_key,omitempty" mapstructure:"hardware_key"`

	// TouchPolicy is a free-form hint ("on", "cached", ...). Advisory only;
	// the authoritative value comes from the card probe.
	TouchPolicy string `json:"touch_policy,omitempty" yaml:"touch_policy,omitempty" mapstructure:"touch_policy"`
}

// Empty reports whether no signing configuration is present at all.
// An identity with an empty SigningConfig switches cleanly without touching
// any signing-related repository settings.
func (c SigningConfig) Empty() bool {
	return c == SigningConfig{}
}

// AutoKey reports whether the key id must be resolved by email.
func (c SigningConfig) AutoKey() bool {
	return c.KeyID == constants.KeyAuto
}

// Identity is a named bundle of git author details and signing configuration
// bound to a remote host. Identities are created and edited by the registry;
// the readiness and configuration core treats them as read-only input.
type Identity struct {
	// Name is the unique registry key for this identity.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Provider is the remote hosting provider.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Host is the SSH alias used in remote URLs (e.g. "gitlab-personal").
	Host string `json:"host,omitempty" yaml:"host,omitempty" mapstructure:"host"`

	// Hostname is the real host behind the alias (e.g. "gitlab.com").
	Hostname string `json:"hostname,omitempty" yaml:"hostname,omitempty" mapstructure:"hostname"`

	// User is the account username on the provider.
	User string `json:"user,omitempty" yaml:"user,omitempty" mapstructure:"user"`

	// Email is the commit author email, also used for "auto" key resolution.
	Email string `json:"email" yaml:"email" mapstructure:"email"`

	// Signing describes commit/tag signing for this identity.
	Signing SigningConfig `json:"signing,omitempty" yaml:"signing,omitempty" mapstructure:"signing"`
}
