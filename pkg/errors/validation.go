package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// runIDRegex matches the UUID form run identifiers take throughout the
// system.
var runIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRunID validates a run identifier received from an external
// caller, typically an API path segment.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if !runIDRegex.MatchString(strings.ToLower(id)) {
		return New(ErrCodeInvalidInput, "invalid run id: %q", id)
	}
	return nil
}

// ValidateSearchRange validates a threshold search range. SMax may be zero
// to request the automatic span-derived ceiling.
func ValidateSearchRange(smin, smax float64) error {
	if smin < 0 {
		return New(ErrCodeInvalidOptions, "minimum size cannot be negative")
	}
	if smax < 0 {
		return New(ErrCodeInvalidOptions, "maximum size cannot be negative")
	}
	if smax > 0 && smax < smin {
		return New(ErrCodeInvalidOptions, "maximum size %g is below minimum size %g", smax, smin)
	}
	return nil
}

// ValidateGrowth validates the growth factor of the search ladder, which
// must exceed 1 for the ladder to terminate.
func ValidateGrowth(growth float64) error {
	if growth <= 1 {
		return New(ErrCodeInvalidOptions, "growth factor must be greater than 1, got %g", growth)
	}
	return nil
}
