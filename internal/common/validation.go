package common

import (
	"fmt"
	"slices"
	"strings"

	"resumetwin/internal/formatters"
)

// OutputFormats lists the formats a command may render: the configured ones
// that have a registered formatter, or every registered format when none are
// configured.
func OutputFormats(configured []string) []string {
	registered := formatters.GlobalRegistry.GetSupportedFormats()
	if len(configured) == 0 {
		return registered
	}
	return slices.DeleteFunc(slices.Clone(configured), func(format string) bool {
		return !slices.Contains(registered, format)
	})
}

// ValidateOutputFormat rejects formats outside OutputFormats(configured).
func ValidateOutputFormat(format string, configured []string) error {
	available := OutputFormats(configured)
	if slices.Contains(available, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format %q (available: %s)", format, strings.Join(available, ", "))
}
