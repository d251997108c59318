package main

import (
	"errors"
	"os"

	"github.com/alnah/go-incidentmd"
	"github.com/alnah/go-incidentmd/internal/config"
)

// Exit codes for the incidentmd CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadNotes) ||
		errors.Is(err, ErrWriteReport) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoNotesFound) ||
		errors.Is(err, ErrReadMetadata) {
		return ExitIO
	}

	// Usage/config/input errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, incidentmd.ErrInvalidInput) ||
		errors.Is(err, incidentmd.ErrInvalidOption) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidDebounce) ||
		errors.Is(err, ErrNotDirectory) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	return ExitGeneral
}
