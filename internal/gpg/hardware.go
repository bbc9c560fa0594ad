// Package gpg orchestrates the GnuPG and YubiKey Manager command-line tools.
// This file decides whether a key is backed by a hardware token.
package gpg

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/domain"
)

// CardStatusProvider supplies hardware token state for grip matching.
type CardStatusProvider interface {
	Status(ctx context.Context) domain.CardStatus
}

// HardwareDetector decides whether a specific key id is backed by a
// hardware token. Detection is best-effort: any ambiguity degrades to
// "software key" rather than blocking downstream logic.
type HardwareDetector struct {
	logger  zerolog.Logger
	cmdExec CommandExecutor
	card    CardStatusProvider
}

// HardwareDetectorOption configures a HardwareDetector.
type HardwareDetectorOption func(*HardwareDetector)

// NewHardwareDetector creates a HardwareDetector with the given options.
func NewHardwareDetector(card CardStatusProvider, opts ...HardwareDetectorOption) *HardwareDetector {
	h := &HardwareDetector{
		logger:  zerolog.Nop(),
		cmdExec: &defaultCommandExecutor{},
		card:    card,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// WithHardwareLogger sets the logger for hardware detection.
func WithHardwareLogger(logger zerolog.Logger) HardwareDetectorOption {
	return func(h *HardwareDetector) {
		h.logger = logger
	}
}

// WithHardwareExecutor sets a custom command executor (for testing).
func WithHardwareExecutor(exec CommandExecutor) HardwareDetectorOption {
	return func(h *HardwareDetector) {
		h.cmdExec = exec
	}
}

// IsHardwareKey reports whether the key's secret material is a stub pointing
// at a card rather than software-resident. Two independent signals are
// checked and a match on either is sufficient:
//
//  1. a stub marker on the secret-key record (the token serial-number field
//     of the colon listing, "#" for a bare stub)
//  2. the key's keygrips cross-referenced against the grips the card
//     reports for its signature and authentication slots
//
// A missing key or absent card yields false, never an error.
func (h *HardwareDetector) IsHardwareKey(ctx context.Context, keyID string) bool {
	if keyID == "" {
		return false
	}

	output, err := h.cmdExec.Execute(ctx, constants.ToolGPG,
		"--list-secret-keys", "--with-colons", "--with-keygrip", keyID)
	if err != nil {
		h.logger.Debug().Err(err).Str("key_id", keyID).Msg("keygrip listing unavailable")
		return false
	}

	stub, grips := parseStubAndGrips(string(output))
	if stub {
		return true
	}

	if h.card == nil || len(grips) == 0 {
		return false
	}
	status := h.card.Status(ctx)
	if !status.Present {
		return false
	}
	for _, grip := range grips {
		if grip == "" {
			continue
		}
		if strings.EqualFold(grip, status.SignatureGrip) || strings.EqualFold(grip, status.AuthGrip) {
			return true
		}
	}
	return false
}

// parseStubAndGrips scans a keygrip-annotated colon listing for the stub
// marker and collects all keygrips of the key and its subkeys.
//
// On sec/ssb records, field 15 carries the token serial number when the
// secret part lives on a card, or "#" when only a stub is present. "+" means
// the secret key is software-resident.
func parseStubAndGrips(output string) (stub bool, grips []string) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "sec", "ssb":
			if len(fields) > 14 {
				marker := fields[14]
				if marker != "" && marker != "+" {
					stub = true
				}
			}
		case "grp":
			if len(fields) > 9 && fields[9] != "" {
				grips = append(grips, fields[9])
			}
		}
	}
	return stub, grips
}
