package gpg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTouchPolicies_InlineDialect(t *testing.T) {
	sig, enc, aut := parseTouchPolicies("sig=on enc=on aut=cached\n")
	assert.Equal(t, "on", sig)
	assert.Equal(t, "on", enc)
	assert.Equal(t, "cached", aut)
}

func TestParseTouchPolicies_PerLineDialect(t *testing.T) {
	output := `OpenPGP version:      3.4
Application version:  5.4.3
PIN tries remaining:  3
SIG touch policy:     On
ENC touch policy:     Off
AUT touch policy:     Cached
`
	sig, enc, aut := parseTouchPolicies(output)
	assert.Equal(t, "on", sig)
	assert.Equal(t, "off", enc)
	assert.Equal(t, "cached", aut)
}

func TestParseTouchPolicies_LongSlotNames(t *testing.T) {
	output := `Signature touch policy:       On (fixed)
Decryption touch policy:      Off
Authentication touch policy:  Cached (fixed)
`
	sig, enc, aut := parseTouchPolicies(output)
	assert.Equal(t, "on", sig)
	assert.Equal(t, "off", enc)
	assert.Equal(t, "cached", aut)
}

func TestParseTouchPolicies_MissingSlotsStayUnknown(t *testing.T) {
	sig, enc, aut := parseTouchPolicies("SIG touch policy: On\n")
	assert.Equal(t, "on", sig)
	assert.Empty(t, enc)
	assert.Empty(t, aut)
}

func TestParseTouchPolicies_UnrecognizedValue(t *testing.T) {
	// A value outside the known set maps to unknown, never to off.
	sig, _, _ := parseTouchPolicies("sig=sometimes\n")
	assert.Empty(t, sig)
}

func TestParseTouchPolicies_EmptyOutput(t *testing.T) {
	sig, enc, aut := parseTouchPolicies("")
	assert.Empty(t, sig)
	assert.Empty(t, enc)
	assert.Empty(t, aut)
}

func TestNormalizeSlot(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"sig", "sig"},
		{"SIG", "sig"},
		{"Signature", "sig"},
		{"enc", "enc"},
		{"Encryption", "enc"},
		{"dec", "enc"},
		{"aut", "aut"},
		{"Authentication", "aut"},
		{"pin", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeSlot(tt.label))
		})
	}
}

func TestNormalizePolicyValue(t *testing.T) {
	assert.Equal(t, "on", normalizePolicyValue("On"))
	assert.Equal(t, "on", normalizePolicyValue("on (fixed)"))
	assert.Equal(t, "cached", normalizePolicyValue("Cached"))
	assert.Equal(t, "cached", normalizePolicyValue("cached (fixed)"))
	assert.Equal(t, "off", normalizePolicyValue("OFF"))
	assert.Empty(t, normalizePolicyValue("maybe"))
	assert.Empty(t, normalizePolicyValue(""))
}
