package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitid/internal/errors"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input string
		want  Provider
		ok    bool
	}{
		{"github", ProviderGitHub, true},
		{"gitlab", ProviderGitLab, true},
		{"bitbucket", ProviderBitbucket, true},
		{"other", ProviderOther, true},
		{"sourcehut", "", false},
		{"GitHub", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, errors.ErrInvalidProvider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestSigningFormat_Valid(t *testing.T) {
	assert.True(t, FormatGPG.Valid())
	assert.True(t, FormatSSH.Valid())
	assert.False(t, SigningFormat("").Valid())
	assert.False(t, SigningFormat("smime").Valid())
}

func TestSigningConfig_Empty(t *testing.T) {
	assert.True(t, SigningConfig{}.Empty())
	assert.False(t, SigningConfig{Format: FormatGPG}.Empty())
	assert.False(t, SigningConfig{SignCommits: true}.Empty())
}

func TestSigningConfig_AutoKey(t *testing.T) {
	assert.True(t, SigningConfig{KeyID: "auto"}.AutoKey())
	assert.False(t, SigningConfig{KeyID: "F1E2D3C4B5A69788"}.AutoKey())
	assert.False(t, SigningConfig{}.AutoKey())
}

func TestVerifyStatus_String(t *testing.T) {
	assert.Equal(t, "registered", VerifyRegistered.String())
	assert.Equal(t, "not_registered", VerifyNotRegistered.String())
	assert.Equal(t, "query_failed", VerifyQueryFailed.String())
	assert.Equal(t, "query_failed", VerifyStatus(99).String())
}

func TestVerifyStatus_MarshalText(t *testing.T) {
	b, err := VerifyRegistered.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "registered", string(b))
}
