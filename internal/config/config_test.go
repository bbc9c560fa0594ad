package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg.Identities)
	assert.Empty(t, cfg.Identities)
	assert.Equal(t, constants.DefaultSignTestTimeout, cfg.Signing.TestTimeout)
	assert.Equal(t, DefaultVerifyTimeout, cfg.Verify.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfigFile(t, `
identities:
  work:
    provider: github
    hostname: github.corp.example
    user: workuser
    email: work@corp.example
    signing:
      key_id: auto
      format: gpg
      sign_commits: true
      sign_tags: true
      hardware_key: true
  oss:
    provider: gitlab
    email: me@example.org
    signing:
      format: ssh
      ssh_key_path: ~/.ssh/id_ed25519_sk.pub
      sign_commits: true
signing:
  test_timeout: 5s
verify:
  timeout: 10s
`)

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)

		require.Len(t, cfg.Identities, 2)
		work := cfg.Identities["work"]
		assert.Equal(t, "github", work.Provider)
		assert.Equal(t, "work@corp.example", work.Email)
		assert.Equal(t, "auto", work.Signing.KeyID)
		assert.True(t, work.Signing.SignCommits)
		assert.True(t, work.Signing.HardwareKey)

		oss := cfg.Identities["oss"]
		assert.Equal(t, "ssh", oss.Signing.Format)
		assert.Equal(t, "~/.ssh/id_ed25519_sk.pub", oss.Signing.SSHKeyPath)

		assert.Equal(t, 5*time.Second, cfg.Signing.TestTimeout)
		assert.Equal(t, 10*time.Second, cfg.Verify.Timeout)
	})

	t.Run("defaults fill missing sections", func(t *testing.T) {
		path := writeConfigFile(t, `
identities:
  plain:
    email: plain@example.org
`)

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, constants.DefaultSignTestTimeout, cfg.Signing.TestTimeout)
		assert.Equal(t, DefaultVerifyTimeout, cfg.Verify.Timeout)
		assert.Empty(t, cfg.Identities["plain"].Provider)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml errors", func(t *testing.T) {
		path := writeConfigFile(t, "identities: [not a map\n")
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Identities: map[string]IdentityEntry{
				"work": {Provider: "github", Email: "work@corp.example"},
			},
			Signing: SigningSettings{TestTimeout: time.Second},
			Verify:  VerifySettings{Timeout: time.Second},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, Validate(valid()))
	})

	t.Run("nil config", func(t *testing.T) {
		assert.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
	})

	t.Run("missing email", func(t *testing.T) {
		cfg := valid()
		cfg.Identities["work"] = IdentityEntry{Provider: "github"}
		assert.ErrorIs(t, Validate(cfg), errors.ErrEmptyValue)
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := valid()
		cfg.Identities["work"] = IdentityEntry{Provider: "sourcehut", Email: "x@y.z"}
		assert.ErrorIs(t, Validate(cfg), errors.ErrInvalidProvider)
	})

	t.Run("empty provider allowed", func(t *testing.T) {
		cfg := valid()
		cfg.Identities["work"] = IdentityEntry{Email: "x@y.z"}
		require.NoError(t, Validate(cfg))
	})

	t.Run("unknown signing format", func(t *testing.T) {
		cfg := valid()
		cfg.Identities["work"] = IdentityEntry{
			Email:   "x@y.z",
			Signing: SigningEntry{Format: "smime"},
		}
		assert.ErrorIs(t, Validate(cfg), errors.ErrInvalidSigningFormat)
	})

	t.Run("ssh format requires key path", func(t *testing.T) {
		cfg := valid()
		cfg.Identities["work"] = IdentityEntry{
			Email:   "x@y.z",
			Signing: SigningEntry{Format: "ssh"},
		}
		assert.ErrorIs(t, Validate(cfg), errors.ErrEmptyValue)
	})

	t.Run("non-positive timeouts replaced with defaults", func(t *testing.T) {
		cfg := valid()
		cfg.Signing.TestTimeout = 0
		cfg.Verify.Timeout = -time.Second

		require.NoError(t, Validate(cfg))
		assert.Equal(t, constants.DefaultSignTestTimeout, cfg.Signing.TestTimeout)
		assert.Equal(t, DefaultVerifyTimeout, cfg.Verify.Timeout)
	})
}
