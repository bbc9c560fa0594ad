package domain

import "time"

// GPGKeyRecord is one secret-key entry from the host keyring.
//
// Records are ephemeral: they are rebuilt on every query and never cached
// across calls. The external keyring is the source of truth.
type GPGKeyRecord struct {
	// KeyID is the 16-hex-character key id.
	KeyID string `json:"key_id"`

	// Fingerprint is the full 40-hex-character fingerprint.
	Fingerprint string `json:"fingerprint"`

	// Email is the address from the key's first user id. Later aliases on
	// the same key are ignored.
	Email string `json:"email"`

	// Name is the display name from the key's first user id.
	Name string `json:"name"`

	// Algorithm is a normalized algorithm name ("rsa", "ed25519", ...),
	// or "unknown" for unrecognized algorithm codes.
	Algorithm string `json:"algorithm"`

	// CreatedAt is the key creation time. Zero when unreported.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// ExpiresAt is the key expiry time. Zero when the key never expires.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Touch policy values reported by the card probe. An empty string means the
// probing tool was unavailable, which is NOT the same as "off": unknown must
// never be treated as "no touch required".
const (
	// TouchOn requires physical touch for every private-key operation.
	TouchOn = "on"

	// TouchCached requires touch once, then caches presence for a short window.
	TouchCached = "cached"

	// TouchOff never requires touch.
	TouchOff = "off"

	// TouchUnknown means the touch policy could not be determined.
	TouchUnknown = ""
)

// CardStatus describes a connected hardware security token.
type CardStatus struct {
	// Present reports whether a token answered the status query at all.
	Present bool `json:"present"`

	// SerialNumber is the token serial number.
	SerialNumber string `json:"serial_number,omitempty"`

	// CardType is free text; "YubiKey" when a vendor match is detected.
	CardType string `json:"card_type,omitempty"`

	// Firmware is the token firmware version.
	Firmware string `json:"firmware,omitempty"`

	// TouchSig, TouchEnc, and TouchAut are the independent touch policies
	// for the signature, encryption, and authentication slots.
	// Values are TouchOn, TouchCached, TouchOff, or TouchUnknown.
	TouchSig string `json:"touch_sig,omitempty"`
	TouchEnc string `json:"touch_enc,omitempty"`
	TouchAut string `json:"touch_aut,omitempty"`

	// SignatureGrip, EncryptionGrip, and AuthGrip are the keygrips of the
	// keys resident in the corresponding card slots, used to match keyring
	// entries against card-held keys.
	SignatureGrip  string `json:"signature_grip,omitempty"`
	EncryptionGrip string `json:"encryption_grip,omitempty"`
	AuthGrip       string `json:"auth_grip,omitempty"`
}
