// Package provider audits remote key registration.
// This file implements verification against GitLab via the glab CLI.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
	"github.com/xanzy/go-gitlab"

	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/domain"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// defaultGitLabHost is used when the identity carries no hostname.
const defaultGitLabHost = "gitlab.com"

// GitLabVerifier checks key registration through `glab api`, decoding the
// response with the GitLab REST schema types. GitLab reports GPG keys as
// armored bodies, so each is parsed to derive its key id and fingerprint
// for exact comparison.
type GitLabVerifier struct {
	opts options
	keys LocalKeyring
}

// NewGitLabVerifier creates a GitLabVerifier.
func NewGitLabVerifier(keys LocalKeyring, opts ...Option) *GitLabVerifier {
	return &GitLabVerifier{
		opts: newOptions(opts),
		keys: keys,
	}
}

// Verify checks whether the identity's signing key is registered to the
// authenticated GitLab account.
func (v *GitLabVerifier) Verify(ctx context.Context, id domain.Identity) domain.VerifyResult {
	host := id.Hostname
	if host == "" {
		host = defaultGitLabHost
	}

	if id.Signing.Format == domain.FormatSSH {
		return v.verifySSHKey(ctx, host, id)
	}
	return v.verifyGPGKey(ctx, host, id)
}

// verifyGPGKey lists the account's GPG keys and matches on the key id or
// fingerprint derived from each armored key body.
func (v *GitLabVerifier) verifyGPGKey(ctx context.Context, host string, id domain.Identity) domain.VerifyResult {
	keyID, fingerprint, ok := resolveLocalKey(ctx, v.keys, id)
	if !ok {
		return queryFailed(domain.ProviderGitLab, "",
			fmt.Errorf("no local key for %s: %w", id.Email, gitiderrors.ErrNoKeyFound))
	}

	output, err := v.opts.cmdExec.Execute(ctx, constants.ToolGLab, "api", "--hostname", host, "user/gpg_keys")
	if err != nil {
		v.opts.logger.Debug().Err(err).Str("host", host).Msg("gitlab gpg key listing failed")
		return queryFailed(domain.ProviderGitLab, keyID, err)
	}

	var registered []*gitlab.GPGKey
	if err := json.Unmarshal(output, &registered); err != nil {
		return queryFailed(domain.ProviderGitLab, keyID,
			fmt.Errorf("unexpected gpg key response: %w", err))
	}

	for _, key := range registered {
		if key == nil {
			continue
		}
		if armoredKeyMatches(key.Key, keyID, fingerprint) {
			return domain.VerifyResult{
				Status:   domain.VerifyRegistered,
				Provider: domain.ProviderGitLab,
				KeyID:    keyID,
				Message:  fmt.Sprintf("GPG key %s is registered on %s", keyID, host),
			}
		}
	}

	return domain.VerifyResult{
		Status:      domain.VerifyNotRegistered,
		Provider:    domain.ProviderGitLab,
		KeyID:       keyID,
		SettingsURL: fmt.Sprintf("https://%s/-/user_settings/gpg_keys", host),
		Message:     fmt.Sprintf("GPG key %s is not registered on %s", keyID, host),
	}
}

// verifySSHKey lists the account's SSH keys and matches on the SHA256
// fingerprint of the identity's public key file.
func (v *GitLabVerifier) verifySSHKey(ctx context.Context, host string, id domain.Identity) domain.VerifyResult {
	local, err := LoadSSHPublicKey(id.Signing.SSHKeyPath)
	if err != nil {
		return queryFailed(domain.ProviderGitLab, id.Signing.SSHKeyPath, err)
	}

	output, err := v.opts.cmdExec.Execute(ctx, constants.ToolGLab, "api", "--hostname", host, "user/keys")
	if err != nil {
		v.opts.logger.Debug().Err(err).Str("host", host).Msg("gitlab ssh key listing failed")
		return queryFailed(domain.ProviderGitLab, local.Fingerprint, err)
	}

	var registered []*gitlab.SSHKey
	if err := json.Unmarshal(output, &registered); err != nil {
		return queryFailed(domain.ProviderGitLab, local.Fingerprint,
			fmt.Errorf("unexpected ssh key response: %w", err))
	}

	for _, key := range registered {
		if key != nil && sshKeyMatches(key.Key, local) {
			return domain.VerifyResult{
				Status:   domain.VerifyRegistered,
				Provider: domain.ProviderGitLab,
				KeyID:    local.Fingerprint,
				Message:  fmt.Sprintf("SSH key %s is registered on %s", local.Fingerprint, host),
			}
		}
	}

	return domain.VerifyResult{
		Status:      domain.VerifyNotRegistered,
		Provider:    domain.ProviderGitLab,
		KeyID:       local.Fingerprint,
		SettingsURL: fmt.Sprintf("https://%s/-/user_settings/ssh_keys", host),
		Message:     fmt.Sprintf("SSH key %s is not registered on %s", local.Fingerprint, host),
	}
}

// armoredKeyMatches parses an armored public key body and compares its key
// id and fingerprint against the local key. Unparseable bodies never match.
func armoredKeyMatches(armored, keyID, fingerprint string) bool {
	if armored == "" {
		return false
	}
	key, err := crypto.NewKeyFromArmored(armored)
	if err != nil {
		return false
	}
	if keyIDMatches(key.GetHexKeyID(), keyID) || keyIDMatches(key.GetFingerprint(), keyID) {
		return true
	}
	return fingerprint != "" && keyIDMatches(key.GetFingerprint(), fingerprint)
}
