package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// pointIDRegex matches point identifiers as written in figure files:
// a letter followed by letters, digits, primes or underscores (A, B1, P', x_2).
var pointIDRegex = regexp.MustCompile(`^\p{L}[\p{L}\p{N}_']*$`)

// ValidatePointID validates a point identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 64 characters
//   - No control characters or whitespace
//   - Must start with a letter
func ValidatePointID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidFigure, "point id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidFigure, "point id too long (max 64 characters): %q", id)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidFigure, "point id contains invalid characters: %q", id)
		}
	}

	if !pointIDRegex.MatchString(id) {
		return New(ErrCodeInvalidFigure, "invalid point id: %q", id)
	}

	return nil
}

// ValidateLocalPath validates a path the user named on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateLocalPath(path string) error {
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

// ValidatePath validates a path received from an untrusted source. It
// applies the
// [ValidateLocalPath] rules and additionally rejects:
//   - Path traversal sequences (..)
//   - Backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if err := ValidateLocalPath(path); err != nil {
		return err
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateMeasure validates a resolved constraint measure.
// Lengths must be finite and non-negative; angles must lie in (0, 180] degrees
// once converted by the caller (pass the value in the unit being checked and
// its inclusive upper bound).
func ValidateMeasure(kind string, value, max float64) error {
	if value != value { // NaN
		return New(ErrCodeInvalidFigure, "%s measure is not a number", kind)
	}
	if value < 0 {
		return New(ErrCodeInvalidFigure, "%s measure must not be negative: %g", kind, value)
	}
	if max > 0 && value > max {
		return New(ErrCodeInvalidFigure, "%s measure %g exceeds %g", kind, value, max)
	}
	return nil
}
