package nats

import (
	"strings"
	"unicode"
)

func namespace(values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		parts = append(parts, formatForNamespace(v))
	}
	return strings.Join(parts, ".")
}

// formatForNamespace makes v safe for use as a NATS subject token. An upper
// case letter following a lower case one starts a new dash separated word.
func formatForNamespace(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 4)

	var prev rune
	for _, r := range v {
		switch {
		case r == '_' || r == '-':
			b.WriteByte('-')
		case r == '.' || r == '*' || r == '>':
			b.WriteRune(r)
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			continue
		}
		prev = r
	}
	return b.String()
}
