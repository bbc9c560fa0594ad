package provider

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// jsonString encodes a string as a JSON literal for fixture assembly.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestLoadSSHPublicKey(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		path, fingerprint, _ := writeTestSSHKey(t)

		key, err := LoadSSHPublicKey(path)
		require.NoError(t, err)
		assert.Equal(t, fingerprint, key.Fingerprint)
		assert.NotEmpty(t, key.Marshaled)
	})

	t.Run("key with comment", func(t *testing.T) {
		_, fingerprint, marshaled := writeTestSSHKey(t)
		withComment := []byte(marshaled[:len(marshaled)-1] + " work@corp.example\n")
		commented := filepath.Join(t.TempDir(), "commented.pub")
		require.NoError(t, os.WriteFile(commented, withComment, 0o600))

		key, err := LoadSSHPublicKey(commented)
		require.NoError(t, err)
		assert.Equal(t, fingerprint, key.Fingerprint)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := LoadSSHPublicKey("")
		assert.ErrorIs(t, err, gitiderrors.ErrEmptyValue)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSSHPublicKey(filepath.Join(t.TempDir(), "missing.pub"))
		assert.Error(t, err)
	})

	t.Run("malformed content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.pub")
		require.NoError(t, os.WriteFile(path, []byte("not an ssh key\n"), 0o600))

		_, err := LoadSSHPublicKey(path)
		assert.Error(t, err)
	})
}

func TestSSHKeyMatches(t *testing.T) {
	path, _, marshaled := writeTestSSHKey(t)
	local, err := LoadSSHPublicKey(path)
	require.NoError(t, err)

	t.Run("same key matches", func(t *testing.T) {
		assert.True(t, sshKeyMatches(marshaled, local))
	})

	t.Run("same key with comment matches", func(t *testing.T) {
		assert.True(t, sshKeyMatches(local.Marshaled+" work@corp.example", local))
	})

	t.Run("different key does not match", func(t *testing.T) {
		_, _, other := writeTestSSHKey(t)
		assert.False(t, sshKeyMatches(other, local))
	})

	t.Run("empty registered body", func(t *testing.T) {
		assert.False(t, sshKeyMatches("", local))
	})

	t.Run("nil local key", func(t *testing.T) {
		assert.False(t, sshKeyMatches(marshaled, nil))
	})
}
