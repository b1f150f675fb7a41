package extract

import (
	"fmt"
	"strings"
	"unicode"
)

// document is the dialect-neutral view of a note that the metadata
// sources operate on.
type document struct {
	dialect  Dialect
	fields   map[string][]string // lowercased field name → values in declaration order
	body     string              // full document text
	meta     string              // leading metadata region, before the first heading
	headline string              // first top-level heading text, cookies not yet stripped
	links    []rawLink           // ordered link occurrences
}

// rawLink is a link occurrence before kind classification.
type rawLink struct {
	target string
	desc   string
}

func (d *document) addField(name, value string) {
	if d.fields == nil {
		d.fields = make(map[string][]string)
	}
	key := strings.ToLower(strings.TrimSpace(name))
	d.fields[key] = append(d.fields[key], strings.TrimSpace(value))
}

func (d *document) fieldValues(name string) []string {
	return d.fields[strings.ToLower(name)]
}

// fieldStrings flattens a decoded YAML value into its string parts.
func fieldStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, fieldStrings(item)...)
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}

// splitQuoted splits a field value on whitespace, keeping double-quoted
// segments together (quotes stripped). Used for multi-value Org fields
// such as alias declarations.
func splitQuoted(s string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	inQuote := false
	for _, r := range s {
		switch {
		case r == '"':
			if inQuote {
				flush()
			}
			inQuote = !inQuote
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
