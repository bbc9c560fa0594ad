// Package constants provides centralized constant values used throughout gitid.
package constants

import "time"

// Application identity.
const (
	// AppName is the canonical application name.
	AppName = "gitid"

	// EnvPrefix is the prefix for environment variable configuration (GITID_*).
	EnvPrefix = "GITID"
)

// Configuration and state paths, relative to the user home directory.
const (
	// ConfigDir is the global configuration directory (~/.config/gitid).
	ConfigDir = ".config/gitid"

	// ConfigFileName is the configuration file name inside ConfigDir.
	ConfigFileName = "config.yaml"

	// LogDirName is the log directory name inside ConfigDir.
	LogDirName = "logs"

	// LogFileName is the rotated log file name.
	LogFileName = "gitid.log"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the max size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the max age in days before a rotated file is deleted.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Signing behavior defaults.
const (
	// DefaultSignTestTimeout bounds the non-interactive trial signature.
	// A hardware touch or pinentry prompt that is never answered would
	// otherwise block forever.
	DefaultSignTestTimeout = 15 * time.Second

	// KeyAuto is the sentinel key id meaning "resolve a key by the
	// identity's email address".
	KeyAuto = "auto"
)
