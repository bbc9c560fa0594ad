// Package gpg orchestrates the GnuPG and YubiKey Manager command-line tools.
// This file implements secret-key discovery from the host keyring.
package gpg

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/domain"
)

// KeyDiscovery enumerates software-held signing keys and resolves a key by
// owner email. All queries shell out to gpg in machine-readable colon format;
// a missing or failing gpg degrades to empty results, never an error.
type KeyDiscovery struct {
	logger  zerolog.Logger
	cmdExec CommandExecutor
}

// KeyDiscoveryOption configures a KeyDiscovery.
type KeyDiscoveryOption func(*KeyDiscovery)

// NewKeyDiscovery creates a KeyDiscovery with the given options.
func NewKeyDiscovery(opts ...KeyDiscoveryOption) *KeyDiscovery {
	d := &KeyDiscovery{
		logger:  zerolog.Nop(),
		cmdExec: &defaultCommandExecutor{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithDiscoveryLogger sets the logger for key discovery operations.
func WithDiscoveryLogger(logger zerolog.Logger) KeyDiscoveryOption {
	return func(d *KeyDiscovery) {
		d.logger = logger
	}
}

// WithDiscoveryExecutor sets a custom command executor (for testing).
func WithDiscoveryExecutor(exec CommandExecutor) KeyDiscoveryOption {
	return func(d *KeyDiscovery) {
		d.cmdExec = exec
	}
}

// Available reports whether the gpg binary can be executed at all.
func (d *KeyDiscovery) Available(ctx context.Context) bool {
	_, err := d.cmdExec.Execute(ctx, constants.ToolGPG, "--version")
	return err == nil
}

// ListSecretKeys enumerates all secret-key entries from the host keyring.
// A missing gpg binary or a non-zero exit yields an empty slice, never an
// error: an empty keyring and an absent tool are both expected states.
func (d *KeyDiscovery) ListSecretKeys(ctx context.Context) []domain.GPGKeyRecord {
	output, err := d.cmdExec.Execute(ctx, constants.ToolGPG, "--list-secret-keys", "--with-colons")
	if err != nil {
		d.logger.Debug().Err(err).Msg("secret key listing unavailable")
		return nil
	}
	return parseSecretKeyListing(string(output))
}

// ResolveKeyForEmail finds the key id owned by the given email address.
// It first attempts gpg's native search, then falls back to a
// case-insensitive scan of the full listing. Absence of a match is an
// expected outcome, reported as (false, ""), never an error.
func (d *KeyDiscovery) ResolveKeyForEmail(ctx context.Context, email string) (bool, string) {
	if email == "" {
		return false, ""
	}

	// Native search: gpg filters the listing by user id itself.
	output, err := d.cmdExec.Execute(ctx, constants.ToolGPG, "--list-secret-keys", "--with-colons", email)
	if err == nil {
		if keys := parseSecretKeyListing(string(output)); len(keys) > 0 {
			return true, keys[0].KeyID
		}
	}

	// Fallback: linear scan comparing email fields case-insensitively.
	for _, key := range d.ListSecretKeys(ctx) {
		if strings.EqualFold(key.Email, email) {
			return true, key.KeyID
		}
	}

	d.logger.Debug().Str("email", email).Msg("no secret key matches email")
	return false, ""
}

// gpgAlgorithmNames maps gpg's numeric public-key algorithm codes
// (RFC 4880 section 9.1 plus GnuPG extensions) to normalized names.
var gpgAlgorithmNames = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"1":  "rsa",
	"2":  "rsa",
	"3":  "rsa",
	"16": "elgamal",
	"17": "dsa",
	"18": "ecdh",
	"19": "ecdsa",
	"22": "ed25519",
}

// algorithmName normalizes a numeric algorithm code. Unrecognized codes map
// to "unknown", never an error.
func algorithmName(code string) string {
	if name, ok := gpgAlgorithmNames[code]; ok {
		return name
	}
	return "unknown"
}

// parseSecretKeyListing parses `gpg --list-secret-keys --with-colons` output.
//
// Records are keyed by the type tag in the first field of each line:
//   - "sec" starts a new key (key id, algorithm code, creation, expiry)
//   - "fpr" fills the fingerprint of the current key
//   - "uid" fills name/email from the first user id; later aliases ignored
func parseSecretKeyListing(output string) []domain.GPGKeyRecord {
	var keys []domain.GPGKeyRecord
	var current *domain.GPGKeyRecord

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "sec":
			if current != nil {
				keys = append(keys, *current)
			}
			current = &domain.GPGKeyRecord{}
			if len(fields) > 4 {
				current.KeyID = fields[4]
			}
			if len(fields) > 3 {
				current.Algorithm = algorithmName(fields[3])
			}
			if len(fields) > 5 {
				current.CreatedAt = parseGPGDate(fields[5])
			}
			if len(fields) > 6 {
				current.ExpiresAt = parseGPGDate(fields[6])
			}

		case "fpr":
			if current != nil && current.Fingerprint == "" && len(fields) > 9 {
				current.Fingerprint = fields[9]
			}

		case "uid":
			if current != nil && current.Email == "" && current.Name == "" && len(fields) > 9 {
				current.Name, current.Email = parseUserID(fields[9])
			}
		}
	}

	if current != nil {
		keys = append(keys, *current)
	}
	return keys
}

// parseUserID splits a "Name <email>" user id on the first angle-bracket
// pair. Without brackets, a token containing "@" is classified as an email,
// anything else as a name.
func parseUserID(uid string) (name, email string) {
	uid = strings.TrimSpace(uid)

	open := strings.Index(uid, "<")
	if open >= 0 {
		if end := strings.Index(uid[open:], ">"); end > 0 {
			name = strings.TrimSpace(uid[:open])
			email = strings.TrimSpace(uid[open+1 : open+end])
			return name, email
		}
	}

	if strings.Contains(uid, "@") {
		return "", uid
	}
	return uid, ""
}

// parseGPGDate parses gpg's colon-format timestamps: epoch seconds, or an
// ISO 8601 basic form on some installations. Unparseable values yield zero.
func parseGPGDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	if t, err := time.Parse("20060102T150405", value); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
