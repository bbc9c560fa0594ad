package provider

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/mrz1836/gitid/internal/domain"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// testKeyring holds one key for work@corp.example.
func testKeyring() *fakeKeyring {
	return &fakeKeyring{
		byEmail: map[string]string{"work@corp.example": "F1E2D3C4B5A69788"},
		records: []domain.GPGKeyRecord{
			{KeyID: "F1E2D3C4B5A69788", Fingerprint: "AB12CD34EF56AB78CD90F1E2D3C4B5A69788"},
		},
	}
}

func githubGPGIdentity() domain.Identity {
	return domain.Identity{
		Name:     "work",
		Provider: domain.ProviderGitHub,
		Email:    "work@corp.example",
		Signing:  domain.SigningConfig{KeyID: "F1E2D3C4B5A69788", Format: domain.FormatGPG},
	}
}

// writeTestSSHKey generates an ed25519 keypair and writes the public key in
// authorized_keys form, returning the path and SHA256 fingerprint.
func writeTestSSHKey(t *testing.T) (path, fingerprint, marshaled string) {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)

	line := ssh.MarshalAuthorizedKey(sshPub)
	path = filepath.Join(t.TempDir(), "id_ed25519.pub")
	require.NoError(t, os.WriteFile(path, line, 0o600))

	return path, ssh.FingerprintSHA256(sshPub), string(line)
}

func TestGitHubVerifier_GPG_Registered(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(_ context.Context, name string, args ...string) ([]byte, error) {
			assert.Equal(t, "gh", name)
			assert.Equal(t, []string{"api", "--hostname", "github.com", "user/gpg_keys"}, args)
			return []byte(`[{"id":1,"key_id":"F1E2D3C4B5A69788","subkeys":[]}]`), nil
		},
	}
	v := NewGitHubVerifier(testKeyring(), WithExecutor(mock))

	result := v.Verify(context.Background(), githubGPGIdentity())

	assert.Equal(t, domain.VerifyRegistered, result.Status)
	assert.Equal(t, "F1E2D3C4B5A69788", result.KeyID)
}

func TestGitHubVerifier_GPG_RegisteredViaSubkey(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return []byte(`[{"id":1,"key_id":"1111222233334444","subkeys":[{"key_id":"F1E2D3C4B5A69788"}]}]`), nil
		},
	}
	v := NewGitHubVerifier(testKeyring(), WithExecutor(mock))

	result := v.Verify(context.Background(), githubGPGIdentity())
	assert.Equal(t, domain.VerifyRegistered, result.Status)
}

func TestGitHubVerifier_GPG_NotRegistered(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return []byte(`[{"id":1,"key_id":"0000111122223333","subkeys":[]}]`), nil
		},
	}
	v := NewGitHubVerifier(testKeyring(), WithExecutor(mock))

	result := v.Verify(context.Background(), githubGPGIdentity())

	assert.Equal(t, domain.VerifyNotRegistered, result.Status)
	assert.Equal(t, "https://github.com/settings/keys", result.SettingsURL)
}

func TestGitHubVerifier_GPG_QueryFailed(t *testing.T) {
	t.Run("cli error", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
				return nil, gitiderrors.ErrProviderQuery
			},
		}
		v := NewGitHubVerifier(testKeyring(), WithExecutor(mock))

		result := v.Verify(context.Background(), githubGPGIdentity())

		// A failed query is never reported as "not registered".
		assert.Equal(t, domain.VerifyQueryFailed, result.Status)
		assert.Empty(t, result.SettingsURL)
	})

	t.Run("malformed response", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
				return []byte("gh: Not logged in"), nil
			},
		}
		v := NewGitHubVerifier(testKeyring(), WithExecutor(mock))

		result := v.Verify(context.Background(), githubGPGIdentity())
		assert.Equal(t, domain.VerifyQueryFailed, result.Status)
	})

	t.Run("no local key for auto", func(t *testing.T) {
		v := NewGitHubVerifier(&fakeKeyring{}, WithExecutor(&mockCommandExecutor{}))

		id := githubGPGIdentity()
		id.Signing.KeyID = "auto"
		result := v.Verify(context.Background(), id)
		assert.Equal(t, domain.VerifyQueryFailed, result.Status)
	})
}

func TestGitHubVerifier_GPG_CustomHostname(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(_ context.Context, _ string, args ...string) ([]byte, error) {
			assert.Equal(t, []string{"api", "--hostname", "github.corp.example", "user/gpg_keys"}, args)
			return []byte(`[]`), nil
		},
	}
	v := NewGitHubVerifier(testKeyring(), WithExecutor(mock))

	id := githubGPGIdentity()
	id.Hostname = "github.corp.example"
	result := v.Verify(context.Background(), id)

	assert.Equal(t, domain.VerifyNotRegistered, result.Status)
	assert.Equal(t, "https://github.corp.example/settings/keys", result.SettingsURL)
}

func TestGitHubVerifier_SSH(t *testing.T) {
	path, fingerprint, marshaled := writeTestSSHKey(t)

	sshIdentity := domain.Identity{
		Name:     "oss",
		Provider: domain.ProviderGitHub,
		Email:    "me@example.org",
		Signing:  domain.SigningConfig{Format: domain.FormatSSH, SSHKeyPath: path},
	}

	t.Run("registered", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, args ...string) ([]byte, error) {
				assert.Equal(t, []string{"api", "--hostname", "github.com", "user/ssh_signing_keys"}, args)
				return []byte(`[{"id":7,"key":` + jsonString(marshaled) + `}]`), nil
			},
		}
		v := NewGitHubVerifier(testKeyring(), WithExecutor(mock))

		result := v.Verify(context.Background(), sshIdentity)

		assert.Equal(t, domain.VerifyRegistered, result.Status)
		assert.Equal(t, fingerprint, result.KeyID)
	})

	t.Run("not registered", func(t *testing.T) {
		_, _, otherKey := writeTestSSHKey(t)
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
				return []byte(`[{"id":7,"key":` + jsonString(otherKey) + `}]`), nil
			},
		}
		v := NewGitHubVerifier(testKeyring(), WithExecutor(mock))

		result := v.Verify(context.Background(), sshIdentity)
		assert.Equal(t, domain.VerifyNotRegistered, result.Status)
	})

	t.Run("unreadable key file", func(t *testing.T) {
		id := sshIdentity
		id.Signing.SSHKeyPath = filepath.Join(t.TempDir(), "missing.pub")
		v := NewGitHubVerifier(testKeyring(), WithExecutor(&mockCommandExecutor{}))

		result := v.Verify(context.Background(), id)
		assert.Equal(t, domain.VerifyQueryFailed, result.Status)
	})
}
