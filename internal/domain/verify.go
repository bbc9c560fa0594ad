package domain

// VerifyStatus is the outcome of checking a key against a provider account.
type VerifyStatus int

const (
	// VerifyQueryFailed means the provider API call itself failed (tool
	// missing, auth error, network error). Must never be reported as
	// "not registered".
	VerifyQueryFailed VerifyStatus = iota

	// VerifyNotRegistered means the provider answered and the key is
	// confirmed absent from the account.
	VerifyNotRegistered

	// VerifyRegistered means the key is registered to the remote account.
	VerifyRegistered
)

// String returns a string representation of the status.
func (s VerifyStatus) String() string {
	switch s {
	case VerifyRegistered:
		return "registered"
	case VerifyNotRegistered:
		return "not_registered"
	case VerifyQueryFailed:
		return "query_failed"
	}
	return "query_failed"
}

// VerifyResult reports whether an identity's signing key is registered with
// its remote provider account.
type VerifyResult struct {
	// Status is the three-state outcome.
	Status VerifyStatus `json:"status"`

	// Provider is the provider that was queried.
	Provider Provider `json:"provider"`

	// KeyID is the concrete key id (or SSH fingerprint) that was checked.
	KeyID string `json:"key_id,omitempty"`

	// SettingsURL points at the provider's key settings page. Set when the
	// key is confirmed absent so the user can register it.
	SettingsURL string `json:"settings_url,omitempty"`

	// Message is the human explanation of the outcome.
	Message string `json:"message"`
}

// MarshalText implements encoding.TextMarshaler for JSON output.
func (s VerifyStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
