package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanText folds compatibility characters (ligatures, non-breaking spaces,
// full-width digits), drops control characters and collapses whitespace.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	var sb strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			// Replace binary garbage with nothing
		default:
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Snippet returns up to width bytes of text starting at offset, cut at a
// rune boundary.
func Snippet(text string, offset, width int) string {
	if offset >= len(text) {
		return ""
	}
	end := offset + width
	if end >= len(text) {
		return text[offset:]
	}
	for end > offset && !utf8RuneStart(text[end]) {
		end--
	}
	return text[offset:end]
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
