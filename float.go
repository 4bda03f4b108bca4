package jsonfrag

import (
	"math"
	"strconv"
	"strings"
)

// isOutOfRange reports whether f has no standard JSON representation.
func isOutOfRange(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// floatToken returns the text of f, using the non standard NaN, Infinity and
// -Infinity tokens for values outside the JSON number grammar.
func floatToken(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return formatFloat(f)
}

// formatFloat returns the shortest text that parses back to f. Exponents in
// [-4, 16) use fixed notation with at least one fractional digit, others use
// scientific notation with a signed exponent of at least two digits.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'e', -1, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	mant, expText, _ := strings.Cut(s, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expText)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}

	switch {
	case exp < -4 || exp >= 16:
		b.WriteString(mant)
		b.WriteByte('e')
		b.WriteString(expText)
	case exp < 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -exp-1))
		b.WriteString(digits)
	case len(digits) <= exp+1:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", exp+1-len(digits)))
		b.WriteString(".0")
	default:
		b.WriteString(digits[:exp+1])
		b.WriteByte('.')
		b.WriteString(digits[exp+1:])
	}
	return b.String()
}
