// Package signing contains the signing readiness decision engine and the
// per-repository signing configurator. It combines key discovery, hardware
// token probing, and trial signatures into a single answer: can this
// identity produce a valid signature right now?
package signing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/domain"
	gitiderrors "github.com/mrz1836/gitid/internal/errors"
)

// KeyResolver supplies keyring state for readiness evaluation.
type KeyResolver interface {
	// Available reports whether GPG tooling is present at all.
	Available(ctx context.Context) bool

	// ResolveKeyForEmail finds the key id owned by an email address.
	ResolveKeyForEmail(ctx context.Context, email string) (bool, string)
}

// CardProber supplies hardware token state.
type CardProber interface {
	Status(ctx context.Context) domain.CardStatus
}

// HardwareChecker decides whether a key id is backed by a hardware token.
type HardwareChecker interface {
	IsHardwareKey(ctx context.Context, keyID string) bool
}

// Signer performs bounded trial signatures.
type Signer interface {
	TestSign(ctx context.Context, keyID string) error
}

// Evaluator is the readiness decision engine. It is stateless between calls;
// every evaluation re-queries the external tools. Evaluations for multiple
// identities must be run sequentially by the caller: the hardware token's
// command interface is an exclusive single-session resource.
type Evaluator struct {
	logger   zerolog.Logger
	keys     KeyResolver
	card     CardProber
	hardware HardwareChecker
	signer   Signer
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// NewEvaluator creates an Evaluator over the given collaborators.
func NewEvaluator(keys KeyResolver, card CardProber, hardware HardwareChecker, signer Signer, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		logger:   zerolog.Nop(),
		keys:     keys,
		card:     card,
		hardware: hardware,
		signer:   signer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithEvaluatorLogger sets the logger for readiness evaluation.
func WithEvaluatorLogger(logger zerolog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// Evaluate produces a total readiness verdict for the identity. Branches
// short-circuit in a fixed order; every path sets CanSign and a
// human-readable Message.
func (e *Evaluator) Evaluate(ctx context.Context, id domain.Identity) domain.ReadinessResult {
	cfg := id.Signing
	result := domain.ReadinessResult{Format: cfg.Format}

	// 1. No signing tool at all.
	if !e.keys.Available(ctx) {
		result.Message = "gpg is not installed; signing is unavailable"
		result.Recommendation = "install GnuPG to enable commit and tag signing"
		return result
	}
	result.Available = true

	// 2. SSH key file based signing.
	if cfg.Format == domain.FormatSSH {
		return e.evaluateSSH(ctx, cfg, result)
	}

	// 3. GPG: resolve the key id, including the "auto" sentinel.
	keyID := cfg.KeyID
	if cfg.AutoKey() || keyID == "" {
		found, resolved := e.keys.ResolveKeyForEmail(ctx, id.Email)
		if !found {
			result.Message = fmt.Sprintf("no GPG key found for %s", id.Email)
			result.Recommendation = fmt.Sprintf("generate or import a key for %s, or set an explicit key id", id.Email)
			return result
		}
		keyID = resolved
	}
	result.KeyID = keyID

	// 4. Hardware-backed key: the card decides.
	if e.hardware.IsHardwareKey(ctx, keyID) || cfg.HardwareKey {
		result.IsHardwareKey = true
		result.Card = e.card.Status(ctx)
		return e.evaluateHardware(result)
	}

	// 5. Software key: prove it with a trial signature.
	return e.evaluateSoftware(ctx, keyID, result)
}

// evaluateSSH checks SSH signing readiness: the key file must exist, and a
// hardware-backed (security key) file additionally needs a present token
// with a satisfiable touch policy.
func (e *Evaluator) evaluateSSH(ctx context.Context, cfg domain.SigningConfig, result domain.ReadinessResult) domain.ReadinessResult {
	result.KeyID = cfg.SSHKeyPath

	path := ExpandHome(cfg.SSHKeyPath)
	if _, err := os.Stat(path); err != nil {
		result.Message = fmt.Sprintf("SSH signing key %s does not exist", cfg.SSHKeyPath)
		result.Recommendation = "generate the key or correct ssh_key_path in the identity"
		return result
	}

	if !IsHardwareSSHKeyPath(path) {
		result.CanSign = true
		result.Message = fmt.Sprintf("ready to sign with SSH key %s", cfg.SSHKeyPath)
		return result
	}

	result.IsHardwareKey = true
	result.Card = e.card.Status(ctx)
	return e.evaluateHardware(result)
}

// evaluateHardware applies the card-presence and touch-policy rules shared
// by hardware-backed GPG and SSH keys. CanSign is never true while the card
// is absent.
func (e *Evaluator) evaluateHardware(result domain.ReadinessResult) domain.ReadinessResult {
	if !result.Card.Present {
		result.Message = "signing key lives on a hardware token that is not connected"
		result.Recommendation = "insert the hardware token and retry"
		return result
	}

	switch result.Card.TouchSig {
	case domain.TouchOn:
		result.Message = "touch policy is 'on': every signature requires a physical touch, which automation cannot satisfy"
		result.Recommendation = "sign interactively, or set the signature touch policy to 'cached'"
	case domain.TouchCached:
		result.CanSign = true
		result.Message = "ready to sign; the token requires a touch once per session (policy 'cached')"
	case domain.TouchOff:
		result.CanSign = true
		result.Message = "ready to sign with hardware token; no touch required"
	default:
		result.CanSign = true
		result.Message = "ready to sign with hardware token; touch policy is unknown, a touch prompt may still appear"
	}
	return result
}

// evaluateSoftware runs the bounded trial signature for a software-resident key.
func (e *Evaluator) evaluateSoftware(ctx context.Context, keyID string, result domain.ReadinessResult) domain.ReadinessResult {
	err := e.signer.TestSign(ctx, keyID)
	switch {
	case err == nil:
		result.CanSign = true
		result.Message = fmt.Sprintf("ready to sign with key %s", keyID)
	case errors.Is(err, gitiderrors.ErrSignTimeout):
		result.Message = fmt.Sprintf("trial signature with %s timed out awaiting hardware touch or pinentry", keyID)
		result.Recommendation = "unlock the key once interactively so the agent caches the passphrase"
	default:
		result.Message = fmt.Sprintf("trial signature with %s failed", keyID)
		result.Recommendation = "check the key's passphrase, expiry, and gpg-agent configuration"
	}
	if err != nil {
		e.logger.Debug().Err(err).Str("key_id", keyID).Msg("trial signature did not succeed")
	}
	return result
}

// IsHardwareSSHKeyPath reports whether an SSH key file name follows the
// FIDO2 security-key naming convention (a "-sk"/"_sk" component, as in
// id_ed25519_sk.pub).
func IsHardwareSSHKeyPath(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), ".pub")
	return strings.HasSuffix(base, "-sk") || strings.HasSuffix(base, "_sk") ||
		strings.Contains(base, "_sk_") || strings.Contains(base, "-sk-")
}

// ExpandHome expands a leading "~/" in a path to the user home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
