// Package provider audits remote key registration.
// This file implements verification against GitHub via the gh CLI.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/go-github/v57/github"

	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/domain"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// defaultGitHubHost is used when the identity carries no hostname.
const defaultGitHubHost = "github.com"

// GitHubVerifier checks key registration through `gh api`, decoding the
// response with the GitHub REST schema types.
type GitHubVerifier struct {
	opts options
	keys LocalKeyring
}

// NewGitHubVerifier creates a GitHubVerifier.
func NewGitHubVerifier(keys LocalKeyring, opts ...Option) *GitHubVerifier {
	return &GitHubVerifier{
		opts: newOptions(opts),
		keys: keys,
	}
}

// Verify checks whether the identity's signing key is registered to the
// authenticated GitHub account.
func (v *GitHubVerifier) Verify(ctx context.Context, id domain.Identity) domain.VerifyResult {
	host := id.Hostname
	if host == "" {
		host = defaultGitHubHost
	}

	if id.Signing.Format == domain.FormatSSH {
		return v.verifySSHSigningKey(ctx, host, id)
	}
	return v.verifyGPGKey(ctx, host, id)
}

// verifyGPGKey lists the account's GPG keys and matches on key id, with the
// local fingerprint as a fallback comparison.
func (v *GitHubVerifier) verifyGPGKey(ctx context.Context, host string, id domain.Identity) domain.VerifyResult {
	keyID, fingerprint, ok := resolveLocalKey(ctx, v.keys, id)
	if !ok {
		return queryFailed(domain.ProviderGitHub, "",
			fmt.Errorf("no local key for %s: %w", id.Email, gitiderrors.ErrNoKeyFound))
	}

	output, err := v.opts.cmdExec.Execute(ctx, constants.ToolGH, "api", "--hostname", host, "user/gpg_keys")
	if err != nil {
		v.opts.logger.Debug().Err(err).Str("host", host).Msg("github gpg key listing failed")
		return queryFailed(domain.ProviderGitHub, keyID, err)
	}

	var registered []*github.GPGKey
	if err := json.Unmarshal(output, &registered); err != nil {
		return queryFailed(domain.ProviderGitHub, keyID,
			fmt.Errorf("unexpected gpg key response: %w", err))
	}

	for _, key := range registered {
		if gitHubGPGKeyMatches(key, keyID, fingerprint) {
			return domain.VerifyResult{
				Status:   domain.VerifyRegistered,
				Provider: domain.ProviderGitHub,
				KeyID:    keyID,
				Message:  fmt.Sprintf("GPG key %s is registered on %s", keyID, host),
			}
		}
	}

	return domain.VerifyResult{
		Status:      domain.VerifyNotRegistered,
		Provider:    domain.ProviderGitHub,
		KeyID:       keyID,
		SettingsURL: fmt.Sprintf("https://%s/settings/keys", host),
		Message:     fmt.Sprintf("GPG key %s is not registered on %s", keyID, host),
	}
}

// verifySSHSigningKey lists the account's SSH signing keys and matches on
// the SHA256 fingerprint of the identity's public key file.
func (v *GitHubVerifier) verifySSHSigningKey(ctx context.Context, host string, id domain.Identity) domain.VerifyResult {
	local, err := LoadSSHPublicKey(id.Signing.SSHKeyPath)
	if err != nil {
		return queryFailed(domain.ProviderGitHub, id.Signing.SSHKeyPath, err)
	}

	output, err := v.opts.cmdExec.Execute(ctx, constants.ToolGH, "api", "--hostname", host, "user/ssh_signing_keys")
	if err != nil {
		v.opts.logger.Debug().Err(err).Str("host", host).Msg("github ssh signing key listing failed")
		return queryFailed(domain.ProviderGitHub, local.Fingerprint, err)
	}

	var registered []*github.Key
	if err := json.Unmarshal(output, &registered); err != nil {
		return queryFailed(domain.ProviderGitHub, local.Fingerprint,
			fmt.Errorf("unexpected ssh key response: %w", err))
	}

	for _, key := range registered {
		if sshKeyMatches(key.GetKey(), local) {
			return domain.VerifyResult{
				Status:   domain.VerifyRegistered,
				Provider: domain.ProviderGitHub,
				KeyID:    local.Fingerprint,
				Message:  fmt.Sprintf("SSH signing key %s is registered on %s", local.Fingerprint, host),
			}
		}
	}

	return domain.VerifyResult{
		Status:      domain.VerifyNotRegistered,
		Provider:    domain.ProviderGitHub,
		KeyID:       local.Fingerprint,
		SettingsURL: fmt.Sprintf("https://%s/settings/keys", host),
		Message:     fmt.Sprintf("SSH signing key %s is not registered on %s", local.Fingerprint, host),
	}
}

// gitHubGPGKeyMatches checks a registered key and its subkeys against the
// local key id and fingerprint.
func gitHubGPGKeyMatches(key *github.GPGKey, keyID, fingerprint string) bool {
	if key == nil {
		return false
	}
	if keyIDMatches(key.GetKeyID(), keyID) || keyIDMatches(key.GetKeyID(), fingerprint) {
		return true
	}
	for _, sub := range key.Subkeys {
		if keyIDMatches(sub.GetKeyID(), keyID) || keyIDMatches(sub.GetKeyID(), fingerprint) {
			return true
		}
	}
	return false
}
