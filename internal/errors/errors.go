// Package errors provides centralized error handling for gitid.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrToolUnavailable indicates an external tool (gpg, ykman, git, gh, glab)
	// is not installed or could not be executed.
	ErrToolUnavailable = errors.New("required tool unavailable")

	// ErrNoKeyFound indicates that resolving a signing key by email found no
	// matching entry in the local keyring.
	ErrNoKeyFound = errors.New("no signing key found")

	// ErrHardwareAbsent indicates a hardware-backed key was requested but no
	// security token is connected.
	ErrHardwareAbsent = errors.New("hardware token not connected")

	// ErrTouchRequired indicates the hardware token demands physical touch for
	// every signature. This is a blocking condition, not a system failure.
	ErrTouchRequired = errors.New("hardware touch required")

	// ErrSigningTest indicates a trial signature with a software key failed.
	ErrSigningTest = errors.New("signing test failed")

	// ErrSignTimeout indicates a trial signature did not complete within the
	// bounded wait, typically because a touch or pinentry prompt was never
	// answered. Distinct from ErrSigningTest.
	ErrSignTimeout = errors.New("signing test timed out")

	// ErrProviderQuery indicates the provider key-listing API call itself
	// failed. Must never be conflated with "key not registered".
	ErrProviderQuery = errors.New("provider query failed")

	// ErrProviderUnsupported indicates no key-verification backend exists for
	// the identity's provider.
	ErrProviderUnsupported = errors.New("provider verification not supported")

	// ErrConfigWrite indicates one or more persistent git config writes failed.
	// Writes are idempotent, so callers may safely retry.
	ErrConfigWrite = errors.New("config write failed")

	// ErrGitOperation indicates a git command failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrIdentityNotFound indicates the named identity does not exist in the registry.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrIdentityExists indicates an attempt to register an identity name twice.
	ErrIdentityExists = errors.New("identity already exists")

	// ErrInvalidProvider indicates an unrecognized provider value in configuration.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidSigningFormat indicates an unrecognized signing format value.
	ErrInvalidSigningFormat = errors.New("invalid signing format")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrOperationCanceled indicates the user canceled an operation.
	ErrOperationCanceled = errors.New("operation canceled by user")
)
