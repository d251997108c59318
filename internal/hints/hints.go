// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-incidentmd/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-incidentmd) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-incidentmd") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForInvalidConfig returns a hint listing the accepted preamble policies.
func ForInvalidConfig() string {
	return format("parser.preamble accepts issue or discard; validation.minBodyLength must be >= 0")
}

// ForEmptyInput returns a hint for notes with no usable text.
func ForEmptyInput() string {
	return format("start the notes with a section header such as ISSUE, IMPACT or FIX")
}

// ForNoInputFiles returns a hint naming the extensions picked up from directories.
func ForNoInputFiles(extensions []string) string {
	if len(extensions) == 0 {
		return ""
	}
	return format("directories are scanned for " + strings.Join(extensions, ", ") + " files")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
