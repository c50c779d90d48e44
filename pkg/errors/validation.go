package errors

import (
	"strings"
	"unicode"
)

// ValidateSetNames validates a list of set column names against the columns
// available in the input table.
//
// The validation rules are intentionally strict:
//   - The list must be non-empty
//   - Every name must appear in columns
//   - Names must be unique
//   - Names must not contain control characters
//
// The first offending name is identifiable in the returned error message.
func ValidateSetNames(sets []string, columns []string) error {
	if len(sets) == 0 {
		return New(ErrCodeInvalidSets, "set list cannot be empty")
	}

	available := make(map[string]bool, len(columns))
	for _, c := range columns {
		available[c] = true
	}

	seen := make(map[string]bool, len(sets))
	for _, name := range sets {
		if err := validateColumnName(name); err != nil {
			return err
		}
		if seen[name] {
			return New(ErrCodeInvalidSets, "duplicate set column %q", name)
		}
		seen[name] = true
		if !available[name] {
			return New(ErrCodeInvalidSets, "set column %q not found in table", name)
		}
	}
	return nil
}

// ValidateDimensions validates chart dimensions. All pixel sizes must be
// strictly positive and the height ratio must lie in (0, 1).
func ValidateDimensions(width, height float64, heightRatio float64) error {
	if width <= 0 {
		return New(ErrCodeInvalidDimensions, "width must be positive, got %g", width)
	}
	if height <= 0 {
		return New(ErrCodeInvalidDimensions, "height must be positive, got %g", height)
	}
	if heightRatio <= 0 || heightRatio >= 1 {
		return New(ErrCodeInvalidDimensions, "height ratio must be in (0, 1), got %g", heightRatio)
	}
	return nil
}

// ValidateColor validates a CSS color string for use in themes. Accepts hex
// colors (#rgb, #rrggbb) and simple named colors; rejects empty strings and
// anything with whitespace or control characters.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidTheme, "color cannot be empty")
	}
	for _, r := range color {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidTheme, "color %q contains invalid characters", color)
		}
	}
	if strings.HasPrefix(color, "#") {
		hex := color[1:]
		if len(hex) != 3 && len(hex) != 6 && len(hex) != 8 {
			return New(ErrCodeInvalidTheme, "hex color %q must have 3, 6, or 8 digits", color)
		}
		for _, r := range hex {
			if !isHexDigit(r) {
				return New(ErrCodeInvalidTheme, "hex color %q contains non-hex digit %q", color, r)
			}
		}
	}
	return nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func validateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSets, "set column name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSets, "set column name contains invalid control characters")
		}
	}
	return nil
}
