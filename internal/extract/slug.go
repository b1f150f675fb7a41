package extract

import (
	"strings"
	"unicode"
)

// Slug derives a filename-safe identifier from a title: lowercase,
// letters and digits kept, every other run of characters collapsed to a
// single separator, leading and trailing separators trimmed.
func Slug(title, sep string) string {
	if sep == "" {
		sep = "_"
	}
	var b strings.Builder
	pending := false
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteString(sep)
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}
	return b.String()
}
