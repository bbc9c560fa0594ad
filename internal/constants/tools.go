// Package constants provides centralized constant values used throughout gitid.
// This file contains the external tool names the application orchestrates.
package constants

// Tool names invoked as subprocesses. gitid never performs cryptography
// itself; it drives these tools and interprets their output.
const (
	// ToolGPG is the GnuPG binary used for key listing, card status, and
	// trial signatures.
	ToolGPG = "gpg"

	// ToolYkman is the YubiKey Manager CLI, an optional probe for
	// OpenPGP touch policies.
	ToolYkman = "ykman"

	// ToolGit is the Git version control system, used for per-repository
	// config reads and writes.
	ToolGit = "git"

	// ToolGH is the GitHub CLI, used as an authenticated API passthrough.
	ToolGH = "gh"

	// ToolGLab is the GitLab CLI, used as an authenticated API passthrough.
	ToolGLab = "glab"
)
