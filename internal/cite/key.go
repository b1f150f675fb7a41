// Package cite derives bibliography citekeys and scrapes citation
// metadata from web pages.
package cite

import (
	"regexp"
	"strings"
	"unicode"
)

// KeyResult is the outcome of key generation. Key always carries the
// best guess; NeedsInput marks it as too general to accept without
// operator confirmation.
type KeyResult struct {
	Key        string `json:"key"`
	NeedsInput bool   `json:"needs_input"`
}

var timestampRe = regexp.MustCompile(`T\d[^-]*`)

// rangeMark protects range separators while date-internal dashes are
// stripped.
const rangeMark = "\x00"

// GenerateKey combines a normalized author and date into a citekey. The
// result is deterministic whenever both parts are non-empty; an empty
// part makes the key too general and flags NeedsInput, with the partial
// concatenation kept as the best guess.
func GenerateKey(author, date string) KeyResult {
	a := normalizeAuthor(author)
	d := normalizeDate(date)
	return KeyResult{Key: a + d, NeedsInput: a == "" || d == ""}
}

// normalizeAuthor lowercases the author and strips whitespace, commas,
// slashes, and question marks. Other punctuation is kept.
func normalizeAuthor(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' || r == '/' || r == '?' {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

// normalizeDate strips date-internal dashes while preserving range
// separators (en dash, em dash, or a literal double dash) as "--", then
// truncates intra-day timestamp suffixes. The truncation stops at a
// range separator so both halves of a range keep their day part.
func normalizeDate(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	for _, sep := range []string{"--", "–", "—"} {
		s = strings.ReplaceAll(s, sep, rangeMark)
	}
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, rangeMark, "--")
	return timestampRe.ReplaceAllString(s, "")
}
