package extract

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/starford/muninn/internal/models"
)

// scanBracketLinks finds [[target]] and [[target][description]] elements
// in text, tolerating descriptions that themselves contain bracketed
// links.
func scanBracketLinks(text string) []rawLink {
	var out []rawLink
	for i := 0; i+1 < len(text); {
		if text[i] != '[' || text[i+1] != '[' {
			i++
			continue
		}
		el, size := scanBracketElement(text[i:])
		if size == 0 {
			i += 2
			continue
		}
		out = append(out, el)
		i += size
	}
	return out
}

// scanBracketElement parses one [[...]] element at the start of text and
// returns its parts plus the consumed length. An unterminated element
// consumes nothing.
func scanBracketElement(text string) (rawLink, int) {
	if !strings.HasPrefix(text, "[[") {
		return rawLink{}, 0
	}
	depth := 1
	sep := -1 // position of the "][" separating target from description
	i := 2
	for i < len(text) {
		switch {
		case strings.HasPrefix(text[i:], "[["):
			depth++
			i += 2
		case strings.HasPrefix(text[i:], "]]"):
			depth--
			if depth == 0 {
				target := text[2:i]
				desc := ""
				if sep >= 0 {
					target = text[2:sep]
					desc = text[sep+2 : i]
				}
				return rawLink{target: target, desc: desc}, i + 2
			}
			i += 2
		case strings.HasPrefix(text[i:], "][") && depth == 1 && sep < 0:
			sep = i
			i += 2
		default:
			i++
		}
	}
	return rawLink{}, 0
}

// resolveTarget returns the effective raw target of a link occurrence.
// A composed link, one whose description contains a link of its own,
// resolves to the innermost raw target.
func resolveTarget(rl rawLink) string {
	if inner, ok := innerLink(rl.desc); ok {
		return inner
	}
	return unwrapTarget(rl.target)
}

// innerLink reports the resolved target of the first bracketed link
// contained in s, if any.
func innerLink(s string) (string, bool) {
	els := scanBracketLinks(s)
	if len(els) == 0 {
		return "", false
	}
	return resolveTarget(els[0]), true
}

// unwrapTarget strips link syntax wrapped around a raw value, e.g. a
// field recorded as [[cite:key]] or [[https://example.com][Title]].
func unwrapTarget(s string) string {
	s = strings.TrimSpace(s)
	if el, size := scanBracketElement(s); size > 0 && size == len(s) {
		return resolveTarget(el)
	}
	return s
}

// titleText renders a field value for display: link-wrapped values keep
// their description, falling back to the raw target.
func titleText(v string) string {
	v = strings.TrimSpace(v)
	el, size := scanBracketElement(v)
	if size == 0 || size != len(v) {
		return v
	}
	if desc := strings.TrimSpace(el.desc); desc != "" {
		return titleText(desc)
	}
	return strings.TrimSpace(el.target)
}

// classify maps a raw target to its link kind. Scheme-carrying forms
// (cite:, id:, file:) store only the part after the scheme; URL targets
// keep the full form.
func classify(target string) (models.LinkKind, string) {
	t := strings.TrimSpace(target)
	if strings.HasPrefix(t, "//") {
		return models.LinkKindWebsite, t
	}
	scheme, rest, ok := splitScheme(t)
	if !ok {
		return models.LinkKindFile, t
	}
	switch {
	case strings.HasPrefix(scheme, "cite"):
		return models.LinkKindCite, rest
	case scheme == "id":
		if u, err := uuid.Parse(rest); err == nil {
			rest = u.String()
		}
		return models.LinkKindID, rest
	case scheme == "file":
		return models.LinkKindFile, rest
	case strings.HasPrefix(rest, "//"):
		return models.LinkKindWebsite, t
	default:
		return models.LinkKindFile, t
	}
}

// citeKey reports the key of a cite-prefixed value (cite:, citep:, ...).
func citeKey(raw string) (string, bool) {
	scheme, rest, ok := splitScheme(raw)
	if ok && strings.HasPrefix(scheme, "cite") {
		return rest, true
	}
	return "", false
}

// splitScheme splits "scheme:rest" when s carries a URI-style scheme.
func splitScheme(s string) (string, string, bool) {
	i := strings.Index(s, ":")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	scheme := s[:i]
	for pos, r := range scheme {
		if pos == 0 && !unicode.IsLetter(r) {
			return "", "", false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '-' && r != '.' {
			return "", "", false
		}
	}
	return strings.ToLower(scheme), s[i+1:], true
}
