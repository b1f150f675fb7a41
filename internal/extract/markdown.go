package extract

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	wikilinkRe   = regexp.MustCompile(`\[\[(.*?)\]\]`)
	inlineLinkRe = regexp.MustCompile(`\[([^\[\]]*)\]\(([^()\s]+)\)`)
	refLinkRe    = regexp.MustCompile(`\[([^\[\]]+)\]\[([^\[\]]+)\]`)
	refDefRe     = regexp.MustCompile(`(?m)^\s*\[([^\[\]]+)\]:\s+(\S+)`)
	headingRe    = regexp.MustCompile(`^#\s+(.*)$`)
)

// parseMarkdown builds the document view of a lightweight-markup note:
// YAML frontmatter fields, the first heading, and wikilink, inline, and
// reference-style links.
func parseMarkdown(data []byte) *document {
	doc := &document{dialect: DialectMarkdown}
	fm, raw, body := splitFrontmatter(data)
	doc.body = string(data)
	for k, v := range fm {
		for _, s := range fieldStrings(v) {
			doc.addField(k, s)
		}
	}

	headingAt := -1
	offset := 0
	for _, line := range strings.Split(body, "\n") {
		if m := headingRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			doc.headline = strings.TrimSpace(m[1])
			headingAt = offset
			break
		}
		offset += len(line) + 1
	}
	doc.meta = raw + "\n" + body
	if headingAt >= 0 {
		doc.meta = raw + "\n" + body[:headingAt]
	}

	doc.links = markdownLinks(body)
	return doc
}

// splitFrontmatter separates YAML frontmatter (between leading ---
// delimiters) from the body. Missing or malformed frontmatter degrades
// to body-only; raw is the verbatim frontmatter region including fences.
func splitFrontmatter(data []byte) (map[string]any, string, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, "", string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter: treat everything as body.
		return nil, "", string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")
	raw := string(trimmed[:len(trimmed)-len(afterDelim)])

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML: fall back to body-only.
		return nil, "", string(data)
	}

	return fm, raw, body
}

type posLink struct {
	start, end int
	link       rawLink
}

// markdownLinks collects link occurrences in document order. Overlapping
// matches keep the earliest, so a link nested inside another resolves to
// the inner target.
func markdownLinks(body string) []rawLink {
	defs := make(map[string]string)
	for _, m := range refDefRe.FindAllStringSubmatch(body, -1) {
		defs[strings.ToLower(m[1])] = m[2]
	}

	var found []posLink
	for _, m := range wikilinkRe.FindAllStringSubmatchIndex(body, -1) {
		raw := body[m[2]:m[3]]
		target, desc := raw, ""
		if i := strings.Index(raw, "|"); i >= 0 {
			target, desc = raw[:i], raw[i+1:]
		}
		found = append(found, posLink{m[0], m[1], rawLink{target: target, desc: desc}})
	}
	for _, m := range inlineLinkRe.FindAllStringSubmatchIndex(body, -1) {
		found = append(found, posLink{m[0], m[1], rawLink{target: body[m[4]:m[5]], desc: body[m[2]:m[3]]}})
	}
	for _, m := range refLinkRe.FindAllStringSubmatchIndex(body, -1) {
		target, ok := defs[strings.ToLower(body[m[4]:m[5]])]
		if !ok {
			continue
		}
		found = append(found, posLink{m[0], m[1], rawLink{target: target, desc: body[m[2]:m[3]]}})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	var out []rawLink
	prevEnd := -1
	for _, f := range found {
		if f.start < prevEnd {
			continue
		}
		prevEnd = f.end
		out = append(out, f.link)
	}
	return out
}
