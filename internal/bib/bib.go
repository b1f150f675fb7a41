// Package bib reads and writes bibliography files: outlines whose
// top-level headings are literature entries carrying named fields in a
// property drawer.
package bib

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/models"
)

// Config controls field naming. KeyField names the identifying field of
// an entry; TagSeparator splits the tags field.
type Config struct {
	KeyField     string
	TagSeparator string
}

// DefaultConfig matches the extraction defaults.
func DefaultConfig() Config {
	return Config{KeyField: "key", TagSeparator: ","}
}

var (
	headingRe     = regexp.MustCompile(`^\*\s+(.*)$`)
	drawerFieldRe = regexp.MustCompile(`^:([A-Za-z][A-Za-z0-9_-]*):\s*(.*)$`)
	cookieRe      = regexp.MustCompile(`\[\d*/\d*\]|\[\d+%\]`)

	// doiPattern matches a bare DOI (10.prefix/suffix).
	doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
)

var doiBase = "https://doi.org/"

// Parse reads every entry of a bibliography file. Headings without the
// identifying field are skipped; malformed lines are ignored rather
// than reported.
func Parse(data []byte, cfg Config) []models.LiteratureEntry {
	var entries []models.LiteratureEntry
	var cur *models.LiteratureEntry
	flush := func() {
		if cur != nil && cur.Key != "" {
			entries = append(entries, *cur)
		}
		cur = nil
	}

	inDrawer := false
	for _, line := range strings.Split(string(data), "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &models.LiteratureEntry{Title: stripCookies(m[1])}
			inDrawer = false
			continue
		}
		if cur == nil {
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.EqualFold(trimmed, ":PROPERTIES:"):
			inDrawer = true
		case strings.EqualFold(trimmed, ":END:"):
			inDrawer = false
		case inDrawer:
			if m := drawerFieldRe.FindStringSubmatch(trimmed); m != nil {
				setField(cur, m[1], m[2], cfg)
			}
		}
	}
	flush()
	return entries
}

func setField(e *models.LiteratureEntry, name, value string, cfg Config) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	lower := strings.ToLower(name)
	switch {
	case strings.EqualFold(name, cfg.KeyField):
		if e.Key == "" {
			e.Key = value
		}
	case lower == "author":
		e.Author = value
	case lower == "date":
		e.Date = value
	case lower == "type":
		e.Type = value
	case lower == "tags":
		for _, tag := range strings.Split(value, cfg.TagSeparator) {
			if tag = strings.TrimSpace(tag); tag != "" {
				e.Tags = append(e.Tags, tag)
			}
		}
	case lower == "url" || lower == "link":
		e.Sources = append(e.Sources, value)
	case lower == "doi":
		e.Sources = append(e.Sources, CanonicalDOI(value))
	default:
		if e.Fields == nil {
			e.Fields = make(map[string]string)
		}
		e.Fields[lower] = value
	}
}

func stripCookies(s string) string {
	return strings.Join(strings.Fields(cookieRe.ReplaceAllString(s, " ")), " ")
}

// CanonicalDOI rewrites a DOI in any common form (bare, doi: prefixed,
// legacy resolver hosts) to its canonical resolver URL.
func CanonicalDOI(doi string) string {
	d := strings.TrimSpace(doi)
	lower := strings.ToLower(d)
	for _, prefix := range []string{
		"https://doi.org/", "http://doi.org/",
		"https://dx.doi.org/", "http://dx.doi.org/",
		"doi:",
	} {
		if strings.HasPrefix(lower, prefix) {
			d = d[len(prefix):]
			break
		}
	}
	return doiBase + d
}

// CheckKeys verifies that every key is unique within the collection.
func CheckKeys(entries []models.LiteratureEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Key]; dup {
			return fmt.Errorf("bib: key %q: %w", e.Key, apperr.ErrDuplicateKey)
		}
		seen[e.Key] = struct{}{}
	}
	return nil
}

// Format renders one entry as a heading with a property drawer. Sources
// that are bare or prefixed DOIs are canonicalized first.
func Format(e models.LiteratureEntry, cfg Config) []byte {
	var b strings.Builder
	title := e.Title
	if title == "" {
		title = e.Key
	}
	fmt.Fprintf(&b, "* %s\n", title)
	b.WriteString(":PROPERTIES:\n")
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, ":%s: %s\n", strings.ToUpper(name), value)
		}
	}
	field(cfg.KeyField, e.Key)
	field("author", e.Author)
	field("date", e.Date)
	field("type", e.Type)
	if len(e.Tags) > 0 {
		field("tags", strings.Join(e.Tags, cfg.TagSeparator+" "))
	}
	for _, src := range CanonicalSources(e.Sources) {
		field("url", src)
	}
	for _, k := range sortedKeys(e.Fields) {
		field(k, e.Fields[k])
	}
	b.WriteString(":END:\n")
	return []byte(b.String())
}

// Append renders the entry after the existing collection, enforcing key
// uniqueness.
func Append(data []byte, e models.LiteratureEntry, cfg Config) ([]byte, error) {
	if strings.TrimSpace(e.Key) == "" {
		return nil, fmt.Errorf("bib: entry key required: %w", apperr.ErrAmbiguousKey)
	}
	for _, existing := range Parse(data, cfg) {
		if existing.Key == e.Key {
			return nil, fmt.Errorf("bib: key %q: %w", e.Key, apperr.ErrDuplicateKey)
		}
	}

	var b bytes.Buffer
	b.Write(data)
	if n := b.Len(); n > 0 {
		if data[n-1] != '\n' {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	b.Write(Format(e, cfg))
	return b.Bytes(), nil
}

// CanonicalSources drops blank sources and canonicalizes any that are
// bare or prefixed DOIs.
func CanonicalSources(sources []string) []string {
	var out []string
	for _, src := range sources {
		s := strings.TrimSpace(src)
		if s == "" {
			continue
		}
		if doiPattern.MatchString(s) || strings.HasPrefix(strings.ToLower(s), "doi:") ||
			strings.Contains(strings.ToLower(s), "dx.doi.org/") {
			s = CanonicalDOI(s)
		}
		out = append(out, s)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
