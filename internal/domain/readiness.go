package domain

// ReadinessResult is the answer to "can this identity produce a valid
// signature right now?". Every evaluation yields a total result: CanSign is
// always set and Message always carries a human-readable explanation.
type ReadinessResult struct {
	// Available reports whether GPG tooling is present at all.
	Available bool `json:"available"`

	// Format is the signing format the identity uses.
	Format SigningFormat `json:"format,omitempty"`

	// KeyID is the concrete key id the evaluation resolved to. Never "auto".
	KeyID string `json:"key_id,omitempty"`

	// IsHardwareKey reports whether the key is backed by a hardware token.
	IsHardwareKey bool `json:"is_hardware_key"`

	// Card is the hardware token state. Populated whenever IsHardwareKey
	// is true; zero otherwise.
	Card CardStatus `json:"card,omitempty"`

	// CanSign is the verdict. It must never be true while Card.Present is
	// false for a hardware-backed key.
	CanSign bool `json:"can_sign"`

	// Message is the human explanation for the verdict.
	Message string `json:"message"`

	// Recommendation is an optional actionable hint.
	Recommendation string `json:"recommendation,omitempty"`
}
