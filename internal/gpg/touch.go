// Package gpg orchestrates the GnuPG and YubiKey Manager command-line tools.
// This file normalizes touch policy output from the token management tool.
package gpg

import "strings"

// parseTouchPolicies normalizes ykman's OpenPGP touch policy report into the
// three-slot (sig, enc, aut) policy triple. Two output dialects exist in the
// wild and both must parse:
//
//	inline:   "sig=on enc=on aut=cached"
//	per-line: "SIG touch policy: On"
//	          "Signature touch policy:  On (fixed)"
//
// Slots the output does not mention stay TouchUnknown ("").
func parseTouchPolicies(output string) (sig, enc, aut string) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if slot, value, ok := parsePerLinePolicy(line); ok {
			assignPolicy(slot, value, &sig, &enc, &aut)
			continue
		}

		for _, token := range strings.Fields(line) {
			if slot, value, ok := parseInlinePolicy(token); ok {
				assignPolicy(slot, value, &sig, &enc, &aut)
			}
		}
	}
	return sig, enc, aut
}

// parseInlinePolicy parses a "sig=on" style token.
func parseInlinePolicy(token string) (slot, value string, ok bool) {
	eq := strings.Index(token, "=")
	if eq <= 0 {
		return "", "", false
	}
	slot = normalizeSlot(token[:eq])
	if slot == "" {
		return "", "", false
	}
	value = normalizePolicyValue(token[eq+1:])
	return slot, value, true
}

// parsePerLinePolicy parses a "SIG touch policy: On" style line.
func parsePerLinePolicy(line string) (slot, value string, ok bool) {
	lower := strings.ToLower(line)
	idx := strings.Index(lower, "touch policy")
	if idx < 0 {
		return "", "", false
	}

	slot = normalizeSlot(strings.TrimSpace(lower[:idx]))
	if slot == "" {
		return "", "", false
	}

	rest := lower[idx+len("touch policy"):]
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
	value = normalizePolicyValue(rest)
	return slot, value, true
}

// normalizeSlot maps a slot label from either dialect to sig/enc/aut.
func normalizeSlot(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "sig", "signature":
		return "sig"
	case "enc", "encryption", "dec", "decryption":
		return "enc"
	case "aut", "authentication":
		return "aut"
	}
	return ""
}

// normalizePolicyValue maps a policy value to the three-value enum.
// "On (fixed)" and "Cached (fixed)" variants normalize to their base value.
// Unrecognized values map to TouchUnknown rather than guessing.
func normalizePolicyValue(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.HasPrefix(lower, "cached"):
		return "cached"
	case strings.HasPrefix(lower, "on"):
		return "on"
	case strings.HasPrefix(lower, "off"):
		return "off"
	}
	return ""
}

// assignPolicy stores a parsed slot policy into the matching output field.
func assignPolicy(slot, value string, sig, enc, aut *string) {
	switch slot {
	case "sig":
		*sig = value
	case "enc":
		*enc = value
	case "aut":
		*aut = value
	}
}
