package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrz1836/gitid/internal/domain"
	"github.com/mrz1836/gitid/internal/errors"
)

// IdentityResponse is the JSON shape of a single identity.
type IdentityResponse struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Host     string `json:"host,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	User     string `json:"user,omitempty"`
	Email    string `json:"email"`
	Signing  bool   `json:"signing_configured"`
	KeyID    string `json:"key_id,omitempty"`
	Format   string `json:"signing_format,omitempty"`
}

// ReadinessResponse is the JSON shape of a readiness verdict.
type ReadinessResponse struct {
	Identity       string        `json:"identity"`
	Available      bool          `json:"available"`
	Format         string        `json:"format,omitempty"`
	KeyID          string        `json:"key_id,omitempty"`
	HardwareKey    bool          `json:"hardware_key"`
	Card           *CardResponse `json:"card,omitempty"`
	CanSign        bool          `json:"can_sign"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation,omitempty"`
}

// CardResponse is the JSON shape of a hardware token status.
type CardResponse struct {
	Present      bool   `json:"present"`
	SerialNumber string `json:"serial_number,omitempty"`
	CardType     string `json:"card_type,omitempty"`
	Firmware     string `json:"firmware,omitempty"`
	TouchSig     string `json:"touch_sig,omitempty"`
	TouchEnc     string `json:"touch_enc,omitempty"`
	TouchAut     string `json:"touch_aut,omitempty"`
}

// KeyResponse is the JSON shape of a discovered secret key.
type KeyResponse struct {
	KeyID       string `json:"key_id"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Algorithm   string `json:"algorithm,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	Hardware    bool   `json:"hardware"`
}

// VerifyResponse is the JSON shape of a provider verification outcome.
type VerifyResponse struct {
	Identity    string `json:"identity"`
	Provider    string `json:"provider"`
	Status      string `json:"status"`
	KeyID       string `json:"key_id,omitempty"`
	SettingsURL string `json:"settings_url,omitempty"`
	Message     string `json:"message"`
}

// SwitchResponse is the JSON shape of a switch outcome.
type SwitchResponse struct {
	Identity string `json:"identity"`
	Repo     string `json:"repo"`
	Applied  bool   `json:"applied"`
	Signing  string `json:"signing,omitempty"`
	Message  string `json:"message,omitempty"`
}

// printJSON writes a value as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode json output")
	}
	return nil
}

// identityToResponse converts a domain identity for JSON output.
func identityToResponse(id domain.Identity) IdentityResponse {
	return IdentityResponse{
		Name:     id.Name,
		Provider: id.Provider.String(),
		Host:     id.Host,
		Hostname: id.Hostname,
		User:     id.User,
		Email:    id.Email,
		Signing:  !id.Signing.Empty(),
		KeyID:    id.Signing.KeyID,
		Format:   string(id.Signing.Format),
	}
}

// readinessToResponse converts a readiness verdict for JSON output.
func readinessToResponse(name string, r domain.ReadinessResult) ReadinessResponse {
	resp := ReadinessResponse{
		Identity:       name,
		Available:      r.Available,
		Format:         string(r.Format),
		KeyID:          r.KeyID,
		HardwareKey:    r.IsHardwareKey,
		CanSign:        r.CanSign,
		Message:        r.Message,
		Recommendation: r.Recommendation,
	}
	if r.IsHardwareKey {
		resp.Card = &CardResponse{
			Present:      r.Card.Present,
			SerialNumber: r.Card.SerialNumber,
			CardType:     r.Card.CardType,
			Firmware:     r.Card.Firmware,
			TouchSig:     r.Card.TouchSig,
			TouchEnc:     r.Card.TouchEnc,
			TouchAut:     r.Card.TouchAut,
		}
	}
	return resp
}

// verifyToResponse converts a verification outcome for JSON output.
func verifyToResponse(name string, r domain.VerifyResult) VerifyResponse {
	return VerifyResponse{
		Identity:    name,
		Provider:    r.Provider.String(),
		Status:      r.Status.String(),
		KeyID:       r.KeyID,
		SettingsURL: r.SettingsURL,
		Message:     r.Message,
	}
}

// readinessBadge renders a readiness verdict as a short status word.
func readinessBadge(r domain.ReadinessResult, styles *cliStyles) string {
	switch {
	case r.CanSign:
		return styles.success.Render("ready")
	case r.Available:
		return styles.warning.Render("blocked")
	default:
		return styles.failure.Render("unavailable")
	}
}

// verifyBadge renders a verification status as a short status word.
func verifyBadge(status domain.VerifyStatus, styles *cliStyles) string {
	switch status {
	case domain.VerifyRegistered:
		return styles.success.Render("registered")
	case domain.VerifyNotRegistered:
		return styles.failure.Render("not registered")
	case domain.VerifyQueryFailed:
		return styles.warning.Render("query failed")
	default:
		return fmt.Sprintf("%v", status)
	}
}
