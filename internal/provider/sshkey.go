// Package provider audits remote key registration.
// This file handles SSH public key parsing and fingerprint comparison.
package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// SSHPublicKey is a parsed local public key ready for comparison against a
// provider's registered keys.
type SSHPublicKey struct {
	// Fingerprint is the SHA256 fingerprint ("SHA256:...").
	Fingerprint string

	// Marshaled is the key in authorized_keys form, without comment.
	Marshaled string
}

// LoadSSHPublicKey reads and parses a public key file.
func LoadSSHPublicKey(path string) (*SSHPublicKey, error) {
	if path == "" {
		return nil, fmt.Errorf("ssh key path not set: %w", gitiderrors.ErrEmptyValue)
	}

	data, err := os.ReadFile(expandHome(path)) //#nosec G304 -- user-configured key path
	if err != nil {
		return nil, fmt.Errorf("read ssh public key %s: %w", path, err)
	}

	pub, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse ssh public key %s: %w", path, err)
	}

	return &SSHPublicKey{
		Fingerprint: ssh.FingerprintSHA256(pub),
		Marshaled:   strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub))),
	}, nil
}

// sshKeyMatches compares a registered key body against the local key by
// SHA256 fingerprint, falling back to the marshaled authorized_keys form
// when the registered body does not parse.
func sshKeyMatches(registered string, local *SSHPublicKey) bool {
	registered = strings.TrimSpace(registered)
	if registered == "" || local == nil {
		return false
	}

	if pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(registered)); err == nil {
		return ssh.FingerprintSHA256(pub) == local.Fingerprint
	}
	return strings.HasPrefix(registered, local.Marshaled)
}

// expandHome expands a leading "~/" in a path to the user home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
