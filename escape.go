package jsonfrag

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

// QuoteString returns s as a JSON string literal. Quotes, backslashes and
// control characters are escaped, other UTF-8 text is passed through.
func QuoteString(s string) string {
	stream := jsoniter.ConfigFastest.BorrowStream(nil)
	defer jsoniter.ConfigFastest.ReturnStream(stream)
	stream.WriteString(s)
	return string(stream.Buffer())
}

// QuoteASCII is like QuoteString but also escapes every non ASCII character,
// so the result is pure ASCII. Characters outside the basic multilingual
// plane are written as UTF-16 surrogate pairs.
func QuoteASCII(s string) string {
	quoted := QuoteString(s)
	if isASCII(quoted) {
		return quoted
	}

	var b strings.Builder
	b.Grow(len(quoted) + 16)
	for _, r := range quoted {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			writeUnicodeEscape(&b, r1)
			writeUnicodeEscape(&b, r2)
		default:
			writeUnicodeEscape(&b, r)
		}
	}
	return b.String()
}

const hexDigits = "0123456789abcdef"

func writeUnicodeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[r>>12&0xf])
	b.WriteByte(hexDigits[r>>8&0xf])
	b.WriteByte(hexDigits[r>>4&0xf])
	b.WriteByte(hexDigits[r&0xf])
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
