package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text and drops combining marks so accented
// characters reduce to their ASCII base forms.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeName converts an arbitrary series or episode title into a
// filesystem- and key-safe segment: accents folded, whitespace collapsed to
// single underscores, and anything outside [A-Za-z0-9._-] removed.
func SanitizeName(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSep = true
		}
	}
	return strings.Trim(b.String(), "._-")
}
