// Package sanitizer normalizes user-supplied display strings before they
// are validated and stored.
package sanitizer

import (
	"strings"
	"unicode"
)

// CollapseWhitespace trims the string and folds internal whitespace runs
// into single spaces, dropping control characters.
func CollapseWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	lastWasSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		case unicode.IsControl(r):
			// skip
		default:
			b.WriteRune(r)
			lastWasSpace = false
		}
	}
	return b.String()
}

// DisplayName normalizes object names and locations.
func DisplayName(s string) string {
	return CollapseWhitespace(s)
}

// FreeText normalizes descriptions and notes, preserving line breaks.
func FreeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = CollapseWhitespace(line)
	}
	return strings.Join(lines, "\n")
}
