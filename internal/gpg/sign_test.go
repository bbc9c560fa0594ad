package gpg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

func TestTrialSigner_TestSign_Success(t *testing.T) {
	mock := &mockCommandExecutor{
		inputFunc: func(_ context.Context, input []byte, _ string, args ...string) ([]byte, error) {
			assert.Equal(t, []byte(signTestPayload), input)
			assert.Contains(t, args, "--batch")
			assert.Contains(t, args, "--local-user")
			assert.Contains(t, args, "F1E2D3C4B5A69788")
			return []byte(""), nil
		},
	}
	s := NewTrialSigner(WithSignerExecutor(mock))

	require.NoError(t, s.TestSign(context.Background(), "F1E2D3C4B5A69788"))
	assert.Equal(t, 1, mock.callCount)
}

func TestTrialSigner_TestSign_Rejected(t *testing.T) {
	mock := &mockCommandExecutor{
		inputFunc: func(_ context.Context, _ []byte, _ string, _ ...string) ([]byte, error) {
			return nil, gitiderrors.ErrToolUnavailable
		},
	}
	s := NewTrialSigner(WithSignerExecutor(mock))

	err := s.TestSign(context.Background(), "F1E2D3C4B5A69788")
	require.Error(t, err)
	assert.ErrorIs(t, err, gitiderrors.ErrSigningTest)
	assert.NotErrorIs(t, err, gitiderrors.ErrSignTimeout)
}

func TestTrialSigner_TestSign_Timeout(t *testing.T) {
	mock := &mockCommandExecutor{
		inputFunc: func(ctx context.Context, _ []byte, _ string, _ ...string) ([]byte, error) {
			// Simulate an unanswered touch prompt: block until the bounded
			// wait expires.
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	s := NewTrialSigner(WithSignerExecutor(mock), WithSignerTimeout(10*time.Millisecond))

	err := s.TestSign(context.Background(), "F1E2D3C4B5A69788")
	require.Error(t, err)
	assert.ErrorIs(t, err, gitiderrors.ErrSignTimeout)
	assert.NotErrorIs(t, err, gitiderrors.ErrSigningTest)
}

func TestTrialSigner_TestSign_EmptyKeyID(t *testing.T) {
	s := NewTrialSigner(WithSignerExecutor(&mockCommandExecutor{}))

	err := s.TestSign(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, gitiderrors.ErrSigningTest)
}

func TestWithSignerTimeout_IgnoresNonPositive(t *testing.T) {
	s := NewTrialSigner(WithSignerTimeout(0))
	assert.Equal(t, NewTrialSigner().timeout, s.timeout)

	s = NewTrialSigner(WithSignerTimeout(-time.Second))
	assert.Equal(t, NewTrialSigner().timeout, s.timeout)
}
