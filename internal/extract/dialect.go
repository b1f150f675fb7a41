package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dialect identifies the markup family of a note. Each extraction picks
// the dialect exactly once and dispatches every source through it.
type Dialect string

// Supported dialects.
const (
	DialectOrg        Dialect = "org"
	DialectMarkdown   Dialect = "markdown"
	DialectStructured Dialect = "structured"
)

var orgMarkerRe = regexp.MustCompile(`(?m)^(\*+ |#\+[A-Za-z_]+:)`)

// DetectDialect picks the dialect for a note. A known file extension is
// authoritative; otherwise the content is inspected.
func DetectDialect(path string, data []byte) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".org":
		return DialectOrg
	case ".md", ".markdown":
		return DialectMarkdown
	case ".yaml", ".yml", ".json":
		return DialectStructured
	}
	return inferDialect(data)
}

// inferDialect guesses from content: outline markers mean Org, a leading
// frontmatter fence means Markdown, a parseable mapping means structured
// data. Markdown is the fallback.
func inferDialect(data []byte) Dialect {
	text := string(data)
	if orgMarkerRe.MatchString(text) {
		return DialectOrg
	}
	if strings.HasPrefix(strings.TrimLeft(text, "\n\r"), "---") {
		return DialectMarkdown
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err == nil && len(m) > 0 {
		return DialectStructured
	}
	return DialectMarkdown
}
