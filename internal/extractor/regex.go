package extractor

import (
	"regexp"
	"strings"
)

// IDPrefix is the letter every transporter ID starts with.
const IDPrefix = 'A'

// Regex patterns shared by the extractors
var (
	// Transporter IDs: prefix letter, alphanumeric, at least six characters.
	IDTokenRegex = regexp.MustCompile(`\bA[A-Z0-9]{5,}\b`)

	// Newer report generation: exactly fourteen characters.
	StrictIDRegex = regexp.MustCompile(`\bA[A-Z0-9]{13}\b`)

	// A cell holding a number, optionally followed by a percent sign, or a dash.
	NumericCellRegex = regexp.MustCompile(`^(?:-?\d[\d.,]*\s*%?|[-–—])$`)

	// Column header keywords of the driver table.
	ColumnKeywordRegex = regexp.MustCompile(`(?i)\b(ID|Transporter|Delivered|DCR|DPMO|POD|CC|CE|DEX)\b`)
)

// IsNumericOrDash reports whether s is a bare number, percentage or dash.
func IsNumericOrDash(s string) bool {
	return NumericCellRegex.MatchString(strings.TrimSpace(s))
}

// HasColumnKeyword reports whether s contains a driver-table column keyword.
func HasColumnKeyword(s string) bool {
	return ColumnKeywordRegex.MatchString(s)
}

// IsIDShaped reports whether s looks like a transporter ID: prefix letter,
// uppercase alphanumeric, six or more characters, at least one digit.
func IsIDShaped(s string) bool {
	if len(s) < 6 || s[0] != IDPrefix {
		return false
	}
	digit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return digit
}

// IsStrictID reports whether s matches the fourteen character ID scheme.
func IsStrictID(s string) bool {
	return len(s) == 14 && IsIDShaped(s)
}

// FindIDToken returns the first ID-shaped token in s, or "".
func FindIDToken(s string) string {
	for _, m := range IDTokenRegex.FindAllString(s, -1) {
		if IsIDShaped(m) {
			return m
		}
	}
	return ""
}

// NumericTokens returns the numeric-or-dash tokens of s in order.
func NumericTokens(s string) []string {
	var out []string
	for _, field := range strings.Fields(s) {
		if IsNumericOrDash(field) {
			out = append(out, field)
		}
	}
	return out
}
