package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitid/internal/constants"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// mockCommandExecutor is a test double for CommandExecutor.
type mockCommandExecutor struct {
	executeFunc func(ctx context.Context, workDir, name string, args ...string) ([]byte, error)
	callCount   int
	calls       [][]string
}

func (m *mockCommandExecutor) Execute(ctx context.Context, workDir, name string, args ...string) ([]byte, error) {
	m.callCount++
	m.calls = append(m.calls, args)
	if m.executeFunc != nil {
		return m.executeFunc(ctx, workDir, name, args...)
	}
	return nil, gitiderrors.ErrCommandNotConfigured
}

func TestConfigStore_Get(t *testing.T) {
	t.Run("existing key", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, workDir, name string, args ...string) ([]byte, error) {
				assert.Equal(t, "/repo", workDir)
				assert.Equal(t, constants.ToolGit, name)
				assert.Equal(t, []string{"config", "--get", "user.signingkey"}, args)
				return []byte("F1E2D3C4B5A69788\n"), nil
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))

		value, found, err := store.Get(context.Background(), "/repo", "user.signingkey")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "F1E2D3C4B5A69788", value)
	})

	t.Run("missing key is not an error", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return nil, gitiderrors.ErrGitOperation
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))

		value, found, err := store.Get(context.Background(), "/repo", "user.signingkey")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("canceled context surfaces", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		mock := &mockCommandExecutor{
			executeFunc: func(ctx context.Context, _, _ string, _ ...string) ([]byte, error) {
				return nil, ctx.Err()
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))

		_, _, err := store.Get(ctx, "/repo", "user.signingkey")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConfigStore_Set(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
				assert.Equal(t, []string{"config", "commit.gpgsign", "true"}, args)
				return []byte(""), nil
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))

		require.NoError(t, store.Set(context.Background(), "/repo", "commit.gpgsign", "true"))
	})

	t.Run("write failure wraps ErrConfigWrite", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return nil, gitiderrors.ErrGitOperation
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))

		err := store.Set(context.Background(), "/repo", "commit.gpgsign", "true")
		assert.ErrorIs(t, err, gitiderrors.ErrConfigWrite)
	})
}

func TestConfigStore_Unset(t *testing.T) {
	t.Run("set key is unset", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
				if args[0] == "config" && args[1] == "--get" {
					return []byte("value\n"), nil
				}
				assert.Equal(t, []string{"config", "--unset", "user.signingkey"}, args)
				return []byte(""), nil
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))

		require.NoError(t, store.Unset(context.Background(), "/repo", "user.signingkey"))
		assert.Equal(t, 2, mock.callCount)
	})

	t.Run("unset of missing key succeeds without a second call", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return nil, gitiderrors.ErrGitOperation
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))

		require.NoError(t, store.Unset(context.Background(), "/repo", "user.signingkey"))
		assert.Equal(t, 1, mock.callCount)
	})

	t.Run("unset failure wraps ErrConfigWrite", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
				if args[1] == "--get" {
					return []byte("value\n"), nil
				}
				return nil, gitiderrors.ErrGitOperation
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))

		err := store.Unset(context.Background(), "/repo", "user.signingkey")
		assert.ErrorIs(t, err, gitiderrors.ErrConfigWrite)
	})
}

func TestConfigStore_IsRepository(t *testing.T) {
	t.Run("inside a repository", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, args ...string) ([]byte, error) {
				assert.Equal(t, []string{"rev-parse", "--git-dir"}, args)
				return []byte(".git\n"), nil
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))
		assert.True(t, store.IsRepository(context.Background(), "/repo"))
	})

	t.Run("not a repository", func(t *testing.T) {
		mock := &mockCommandExecutor{
			executeFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return nil, gitiderrors.ErrGitOperation
			},
		}
		store := NewConfigStore(WithConfigExecutor(mock))
		assert.False(t, store.IsRepository(context.Background(), "/tmp"))
	})
}
