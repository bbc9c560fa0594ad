package gpg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// mockCommandExecutor is a test double for CommandExecutor.
type mockCommandExecutor struct {
	executeFunc func(ctx context.Context, name string, args ...string) ([]byte, error)
	inputFunc   func(ctx context.Context, input []byte, name string, args ...string) ([]byte, error)
	callCount   int
	lastArgs    []string
}

func (m *mockCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.callCount++
	m.lastArgs = args
	if m.executeFunc != nil {
		return m.executeFunc(ctx, name, args...)
	}
	return nil, gitiderrors.ErrCommandNotConfigured
}

func (m *mockCommandExecutor) ExecuteInput(ctx context.Context, input []byte, name string, args ...string) ([]byte, error) {
	m.callCount++
	m.lastArgs = args
	if m.inputFunc != nil {
		return m.inputFunc(ctx, input, name, args...)
	}
	return nil, gitiderrors.ErrCommandNotConfigured
}

// twoKeyListing is a realistic two-key colon listing: each key contributes a
// sec, fpr, and uid record.
const twoKeyListing = `sec:u:255:22:F1E2D3C4B5A69788:1672531200:::u:::scESC:::+:::ed25519:::0:
fpr:::::::::AB12CD34EF56AB78CD90EF12AB34CD56EF78AB90:
grp:::::::::1111111111111111111111111111111111111111:
uid:u::::1672531200::HASH::Work Account <work@corp.example>::::::::::0:
sec:u:4096:1:0123456789ABCDEF:1600000000:1700000000::u:::scESC:::+:::23::0:
fpr:::::::::1234567890ABCDEF1234567890ABCDEF12345678:
uid:u::::1600000000::HASH::Personal <me@example.org>::::::::::0:
`

func TestKeyDiscovery_Available(t *testing.T) {
	t.Run("gpg present", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
				return []byte("gpg (GnuPG) 2.4.4\n"), nil
			},
		}
		d := NewKeyDiscovery(WithDiscoveryExecutor(mock))
		assert.True(t, d.Available(context.Background()))
	})

	t.Run("gpg missing", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
				return nil, gitiderrors.ErrToolUnavailable
			},
		}
		d := NewKeyDiscovery(WithDiscoveryExecutor(mock))
		assert.False(t, d.Available(context.Background()))
	})
}

func TestKeyDiscovery_ListSecretKeys(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return []byte(twoKeyListing), nil
		},
	}
	d := NewKeyDiscovery(WithDiscoveryExecutor(mock))

	keys := d.ListSecretKeys(context.Background())
	require.Len(t, keys, 2)

	assert.Equal(t, "F1E2D3C4B5A69788", keys[0].KeyID)
	assert.Equal(t, "AB12CD34EF56AB78CD90EF12AB34CD56EF78AB90", keys[0].Fingerprint)
	assert.Equal(t, "ed25519", keys[0].Algorithm)
	assert.Equal(t, "Work Account", keys[0].Name)
	assert.Equal(t, "work@corp.example", keys[0].Email)
	assert.Equal(t, time.Unix(1672531200, 0).UTC(), keys[0].CreatedAt)
	assert.True(t, keys[0].ExpiresAt.IsZero())

	assert.Equal(t, "0123456789ABCDEF", keys[1].KeyID)
	assert.Equal(t, "rsa", keys[1].Algorithm)
	assert.Equal(t, "me@example.org", keys[1].Email)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), keys[1].ExpiresAt)
}

func TestKeyDiscovery_ListSecretKeys_ToolFailure(t *testing.T) {
	mock := &mockCommandExecutor{
		executeFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return nil, gitiderrors.ErrToolUnavailable
		},
	}
	d := NewKeyDiscovery(WithDiscoveryExecutor(mock))

	// A missing tool yields an empty listing, never a panic or error.
	assert.Empty(t, d.ListSecretKeys(context.Background()))
}

func TestKeyDiscovery_ResolveKeyForEmail(t *testing.T) {
	t.Run("native search hit", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, args ...string) ([]byte, error) {
				if args[len(args)-1] == "work@corp.example" {
					return []byte(twoKeyListing), nil
				}
				return []byte(""), nil
			},
		}
		d := NewKeyDiscovery(WithDiscoveryExecutor(mock))

		found, keyID := d.ResolveKeyForEmail(context.Background(), "work@corp.example")
		assert.True(t, found)
		assert.Equal(t, "F1E2D3C4B5A69788", keyID)
	})

	t.Run("fallback scan is case-insensitive", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, args ...string) ([]byte, error) {
				// Native search returns nothing; the full listing matches.
				if args[len(args)-1] == "ME@EXAMPLE.ORG" {
					return []byte(""), nil
				}
				return []byte(twoKeyListing), nil
			},
		}
		d := NewKeyDiscovery(WithDiscoveryExecutor(mock))

		found, keyID := d.ResolveKeyForEmail(context.Background(), "ME@EXAMPLE.ORG")
		assert.True(t, found)
		assert.Equal(t, "0123456789ABCDEF", keyID)
	})

	t.Run("no match", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _ string, args ...string) ([]byte, error) {
				if args[len(args)-1] == "nobody@example.net" {
					return []byte(""), nil
				}
				return []byte(twoKeyListing), nil
			},
		}
		d := NewKeyDiscovery(WithDiscoveryExecutor(mock))

		found, keyID := d.ResolveKeyForEmail(context.Background(), "nobody@example.net")
		assert.False(t, found)
		assert.Empty(t, keyID)
	})

	t.Run("empty email", func(t *testing.T) {
		d := NewKeyDiscovery(WithDiscoveryExecutor(&mockCommandExecutor{}))
		found, _ := d.ResolveKeyForEmail(context.Background(), "")
		assert.False(t, found)
	})
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		name      string
		uid       string
		wantName  string
		wantEmail string
	}{
		{"name and email", "Work Account <work@corp.example>", "Work Account", "work@corp.example"},
		{"email only in brackets", "<me@example.org>", "", "me@example.org"},
		{"bare email", "me@example.org", "", "me@example.org"},
		{"bare name", "Just A Name", "Just A Name", ""},
		{"comment before email", "Name (comment) <x@y.z>", "Name (comment)", "x@y.z"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, email := parseUserID(tt.uid)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantEmail, email)
		})
	}
}

func TestParseGPGDate(t *testing.T) {
	assert.Equal(t, time.Unix(1672531200, 0).UTC(), parseGPGDate("1672531200"))
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), parseGPGDate("20230101T000000"))
	assert.True(t, parseGPGDate("").IsZero())
	assert.True(t, parseGPGDate("not-a-date").IsZero())
}

func TestAlgorithmName(t *testing.T) {
	assert.Equal(t, "rsa", algorithmName("1"))
	assert.Equal(t, "dsa", algorithmName("17"))
	assert.Equal(t, "ed25519", algorithmName("22"))
	assert.Equal(t, "unknown", algorithmName("99"))
	assert.Equal(t, "unknown", algorithmName(""))
}
