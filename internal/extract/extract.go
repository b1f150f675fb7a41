// Package extract derives structured metadata records (titles, aliases,
// tags, links, reference keys) from plain-text notes in outline-markup,
// lightweight-markup, and structured-data dialects.
package extract

import (
	"fmt"
	"io"
	stdpath "path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/muninn/internal/models"
)

var (
	tagRe    = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
	cookieRe = regexp.MustCompile(`\[\d*/\d*\]|\[\d+%\]`)
)

// Extract parses data and derives the metadata record for the note at
// path (relative to the vault root). It is total: malformed markup
// yields empty fields, never an error.
func Extract(data []byte, path string, cfg Config) models.NoteRecord {
	doc := parseDocument(data, path)
	aliases := aliasValues(doc, cfg)
	return models.NoteRecord{
		Titles:  titles(doc, aliases, cfg),
		Aliases: aliases,
		Tags:    collectTags(doc, path, cfg),
		Links:   collectLinks(doc, path),
		Refs:    collectRefs(doc, cfg),
	}
}

// ExtractReader is Extract over a stream. A failed read is the only
// condition that aborts extraction.
func ExtractReader(r io.Reader, path string, cfg Config) (models.NoteRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.NoteRecord{}, fmt.Errorf("extract: read %s: %w", path, err)
	}
	return Extract(data, path, cfg), nil
}

func parseDocument(data []byte, path string) *document {
	switch DetectDialect(path, data) {
	case DialectOrg:
		return parseOrg(data)
	case DialectStructured:
		return parseStructured(data)
	default:
		return parseMarkdown(data)
	}
}

// titles resolves the configured title sources in order. The first
// source with a non-empty result wins and contributes all of its values;
// the alias source contributes every alias.
func titles(doc *document, aliases []string, cfg Config) []string {
	for _, src := range cfg.TitleSources {
		var vals []string
		switch src {
		case TitleSourceProp:
			for _, v := range doc.fieldValues(cfg.TitleField) {
				if t := titleText(v); t != "" {
					vals = []string{t}
					break
				}
			}
		case TitleSourceHeadline:
			if h := stripCookies(doc.headline); h != "" {
				vals = []string{h}
			}
		case TitleSourceAlias:
			vals = aliases
		}
		if len(vals) > 0 {
			return vals
		}
	}
	return nil
}

// stripCookies removes statistics cookies ([3/5], [40%]) from a heading
// and normalises the surrounding whitespace.
func stripCookies(s string) string {
	s = cookieRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// aliasValues returns every alias declaration. Outline-markup values
// split on whitespace with double quotes grouping multi-word aliases;
// other dialects list aliases one value each.
func aliasValues(doc *document, cfg Config) []string {
	var out []string
	for _, v := range doc.fieldValues(cfg.AliasField) {
		if doc.dialect == DialectOrg {
			for _, a := range splitQuoted(v) {
				if t := titleText(a); t != "" {
					out = append(out, t)
				}
			}
			continue
		}
		if t := titleText(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// collectTags runs the configured tag sources in order and deduplicates
// the union, keeping first-seen order.
func collectTags(doc *document, path string, cfg Config) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(vals []string) {
		for _, t := range vals {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}

	for _, src := range cfg.TagSources {
		switch src {
		case TagSourceProp:
			for _, v := range doc.fieldValues(cfg.TagsField) {
				add(strings.Split(v, cfg.TagSeparator))
			}
		case TagSourceHashtagFrontmatter:
			add(hashtags(doc.meta))
		case TagSourceHashtag:
			add(hashtags(doc.body))
		case TagSourceAllDirectories:
			add(directoryTags(path))
		case TagSourceFirstDirectory:
			if d := directoryTags(path); len(d) > 0 {
				add(d[:1])
			}
		case TagSourceLastDirectory:
			if d := directoryTags(path); len(d) > 0 {
				add(d[len(d)-1:])
			}
		}
	}
	return out
}

func hashtags(text string) []string {
	var out []string
	for _, m := range tagRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// directoryTags returns the directory segments of path relative to the
// vault root. A note directly at the root has none; that is not an
// error.
func directoryTags(path string) []string {
	dir := stdpath.Dir(filepath.ToSlash(path))
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}
	var out []string
	for _, seg := range strings.Split(dir, "/") {
		if seg != "" && seg != "." {
			out = append(out, seg)
		}
	}
	return out
}

// collectLinks classifies the ordered link occurrences, deduplicating
// repeated targets.
func collectLinks(doc *document, path string) []models.Link {
	seen := make(map[models.Link]struct{})
	var out []models.Link
	for _, rl := range doc.links {
		target := resolveTarget(rl)
		if strings.TrimSpace(target) == "" {
			continue
		}
		kind, normalized := classify(target)
		l := models.Link{Source: path, Target: normalized, Kind: kind}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// collectRefs returns every reference declaration of the key field, in
// declaration order. Values wrapped in link syntax are unwrapped first.
func collectRefs(doc *document, cfg Config) []models.Ref {
	var out []models.Ref
	for _, v := range doc.fieldValues(cfg.KeyField) {
		raw := strings.TrimSpace(unwrapTarget(v))
		if raw == "" {
			continue
		}
		if key, ok := citeKey(raw); ok {
			out = append(out, models.Ref{Kind: models.RefKindCite, Key: key})
			continue
		}
		out = append(out, models.Ref{Kind: models.RefKindWebsite, Key: raw})
	}
	return out
}
