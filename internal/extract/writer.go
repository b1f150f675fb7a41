package extract

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteTags rewrites the note's tags field in its own dialect so that a
// later extraction with the prop source enabled returns exactly these
// tags. The rest of the note is preserved.
func WriteTags(data []byte, path string, tags []string, cfg Config) []byte {
	if tags == nil {
		tags = []string{}
	}
	switch DetectDialect(path, data) {
	case DialectOrg:
		return writeOrgTags(data, tags, cfg)
	case DialectStructured:
		return writeStructuredTags(data, path, tags, cfg)
	default:
		return writeMarkdownTags(data, tags, cfg)
	}
}

// writeOrgTags replaces the first tags keyword line, dropping any
// duplicate declarations. Without an existing declaration the keyword is
// inserted after the last leading keyword line.
func writeOrgTags(data []byte, tags []string, cfg Config) []byte {
	decl := "#+" + cfg.TagsField + ": " + strings.Join(tags, cfg.TagSeparator+" ")
	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines)+1)
	replaced := false
	inMeta := true
	lastKeyword := -1
	for _, ln := range lines {
		if orgHeadlineRe.MatchString(ln) {
			inMeta = false
		}
		if inMeta {
			if m := orgKeywordRe.FindStringSubmatch(ln); m != nil {
				if strings.EqualFold(m[1], cfg.TagsField) {
					if replaced {
						continue
					}
					lastKeyword = len(out)
					out = append(out, decl)
					replaced = true
					continue
				}
				lastKeyword = len(out)
			}
		}
		out = append(out, ln)
	}
	if !replaced {
		pos := lastKeyword + 1
		rest := append([]string{decl}, out[pos:]...)
		out = append(out[:pos:pos], rest...)
	}
	return []byte(strings.Join(out, "\n"))
}

// writeMarkdownTags rebuilds the frontmatter with the tags list set,
// creating the frontmatter block when the note has none.
func writeMarkdownTags(data []byte, tags []string, cfg Config) []byte {
	fm, _, body := splitFrontmatter(data)
	if fm == nil {
		fm = map[string]any{}
	}
	deleteFieldFold(fm, cfg.TagsField)
	fm[cfg.TagsField] = tags

	block, err := yaml.Marshal(fm)
	if err != nil {
		return data
	}
	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(block)
	b.WriteString("---\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.Bytes()
}

// writeStructuredTags sets the tags key of the mapping, keeping the
// serialization format implied by the file extension.
func writeStructuredTags(data []byte, path string, tags []string, cfg Config) []byte {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil || m == nil {
		m = map[string]any{}
	}
	deleteFieldFold(m, cfg.TagsField)
	m[cfg.TagsField] = tags

	if strings.EqualFold(filepath.Ext(path), ".json") {
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return data
		}
		return append(out, '\n')
	}
	out, err := yaml.Marshal(m)
	if err != nil {
		return data
	}
	return out
}

func deleteFieldFold(m map[string]any, name string) {
	for k := range m {
		if strings.EqualFold(k, name) {
			delete(m, k)
		}
	}
}
