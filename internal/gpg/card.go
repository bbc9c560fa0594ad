// Package gpg orchestrates the GnuPG and YubiKey Manager command-line tools.
// This file implements hardware security token probing.
package gpg

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/domain"
)

// CardProbe detects a connected hardware security token, its identity, and
// its touch policies. Probes never fail: an absent token or missing tool
// yields a CardStatus with Present=false and empty fields.
type CardProbe struct {
	logger  zerolog.Logger
	cmdExec CommandExecutor
}

// CardProbeOption configures a CardProbe.
type CardProbeOption func(*CardProbe)

// NewCardProbe creates a CardProbe with the given options.
func NewCardProbe(opts ...CardProbeOption) *CardProbe {
	p := &CardProbe{
		logger:  zerolog.Nop(),
		cmdExec: &defaultCommandExecutor{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithCardLogger sets the logger for card probing.
func WithCardLogger(logger zerolog.Logger) CardProbeOption {
	return func(p *CardProbe) {
		p.logger = logger
	}
}

// WithCardExecutor sets a custom command executor (for testing).
func WithCardExecutor(exec CommandExecutor) CardProbeOption {
	return func(p *CardProbe) {
		p.cmdExec = exec
	}
}

// Status queries the connected token. Presence is inferred from receiving
// any non-empty output from the machine-readable status query; a failed
// query means no token, never an error.
//
// The machine-readable form does not reliably expose the vendor, so the
// human-readable output is scanned separately for a vendor string.
func (p *CardProbe) Status(ctx context.Context) domain.CardStatus {
	output, err := p.cmdExec.Execute(ctx, constants.ToolGPG, "--card-status", "--with-colons")
	if err != nil || len(strings.TrimSpace(string(output))) == 0 {
		p.logger.Debug().Err(err).Msg("no hardware token detected")
		return domain.CardStatus{}
	}

	status := parseCardStatus(string(output))
	status.Present = true

	if human, herr := p.cmdExec.Execute(ctx, constants.ToolGPG, "--card-status"); herr == nil {
		if vendor := scanVendor(string(human)); vendor != "" {
			status.CardType = vendor
		}
	}

	p.fillTouchPolicies(ctx, &status)
	return status
}

// fillTouchPolicies runs the optional ykman probe for the three touch
// policy slots. A missing ykman leaves all three fields as TouchUnknown,
// which is distinct from TouchOff.
func (p *CardProbe) fillTouchPolicies(ctx context.Context, status *domain.CardStatus) {
	output, err := p.cmdExec.Execute(ctx, constants.ToolYkman, "openpgp", "info")
	if err != nil {
		p.logger.Debug().Err(err).Msg("touch policy probe unavailable")
		return
	}
	status.TouchSig, status.TouchEnc, status.TouchAut = parseTouchPolicies(string(output))
}

// parseCardStatus parses `gpg --card-status --with-colons` output.
//
// The card-status dialect differs from the key-listing one: the serial
// record carries the full application id rather than the displayed serial,
// and the fpr/grp records pack the three card slots (signature, encryption,
// auth) into fields 1-3.
func parseCardStatus(output string) domain.CardStatus {
	var status domain.CardStatus

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "serial":
			status.SerialNumber = cardSerialFromAID(fields[1])
		case "vendor":
			if len(fields) > 2 && fields[2] != "" {
				status.CardType = fields[2]
			}
		case "version":
			status.Firmware = formatCardVersion(fields[1])
		case "grp":
			status.SignatureGrip = fields[1]
			if len(fields) > 2 {
				status.EncryptionGrip = fields[2]
			}
			if len(fields) > 3 {
				status.AuthGrip = fields[3]
			}
		}
	}

	return status
}

// cardSerialFromAID extracts the displayed serial number from an OpenPGP
// application id (the 8 hex digits at positions 20-28 of the 32-digit AID).
// Anything that is not a standard OpenPGP AID passes through unchanged.
func cardSerialFromAID(raw string) string {
	const openpgpRID = "D27600012401"
	upper := strings.ToUpper(raw)
	if len(upper) == 32 && strings.HasPrefix(upper, openpgpRID) {
		return upper[20:28]
	}
	return raw
}

// formatCardVersion turns gpg's packed version field ("0005") into a
// dotted form ("0.5"). Values that are already dotted pass through.
func formatCardVersion(raw string) string {
	if raw == "" || strings.Contains(raw, ".") {
		return raw
	}
	if len(raw) == 4 {
		major := strings.TrimLeft(raw[:2], "0")
		minor := strings.TrimLeft(raw[2:], "0")
		if major == "" {
			major = "0"
		}
		if minor == "" {
			minor = "0"
		}
		return major + "." + minor
	}
	return raw
}

// scanVendor looks for a known vendor string in human-readable card output.
func scanVendor(output string) string {
	lower := strings.ToLower(output)
	if strings.Contains(lower, "yubikey") || strings.Contains(lower, "yubico") {
		return "YubiKey"
	}
	return ""
}
