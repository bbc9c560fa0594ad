package config

import (
	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/errors"
)

// validProviders is the closed set of provider tags accepted in config.
var validProviders = map[string]bool{ //nolint:gochecknoglobals // static lookup table
	"github":    true,
	"gitlab":    true,
	"bitbucket": true,
	"other":     true,
}

// validFormats is the closed set of signing format tags accepted in config.
// The empty string means "no signing configuration".
var validFormats = map[string]bool{ //nolint:gochecknoglobals // static lookup table
	"":    true,
	"gpg": true,
	"ssh": true,
}

// Validate checks a Config for structural problems. It returns the first
// error found; identities with no signing configuration are valid.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if cfg.Signing.TestTimeout <= 0 {
		cfg.Signing.TestTimeout = constants.DefaultSignTestTimeout
	}
	if cfg.Verify.Timeout <= 0 {
		cfg.Verify.Timeout = DefaultVerifyTimeout
	}

	for name, entry := range cfg.Identities {
		if name == "" {
			return errors.Wrap(errors.ErrEmptyValue, "identity name")
		}
		if entry.Email == "" {
			return errors.Wrapf(errors.ErrEmptyValue, "identity %s email", name)
		}
		if entry.Provider != "" && !validProviders[entry.Provider] {
			return errors.Wrapf(errors.ErrInvalidProvider, "identity %s provider %q", name, entry.Provider)
		}
		if !validFormats[entry.Signing.Format] {
			return errors.Wrapf(errors.ErrInvalidSigningFormat, "identity %s format %q", name, entry.Signing.Format)
		}
		if entry.Signing.Format == "ssh" && entry.Signing.SSHKeyPath == "" {
			return errors.Wrapf(errors.ErrEmptyValue, "identity %s ssh_key_path", name)
		}
	}

	return nil
}
