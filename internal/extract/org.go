package extract

import (
	"regexp"
	"strings"
)

var (
	orgKeywordRe  = regexp.MustCompile(`^#\+([A-Za-z][A-Za-z0-9_]*):\s*(.*)$`)
	orgHeadlineRe = regexp.MustCompile(`^(\*+)\s+(.*)$`)
)

// parseOrg builds the document view of an outline-markup note. Keyword
// lines (#+name: value) before the first headline are document fields;
// the metadata region ends at that headline.
func parseOrg(data []byte) *document {
	doc := &document{dialect: DialectOrg}
	text := string(data)
	doc.body = text

	lines := strings.Split(text, "\n")
	var linkLines []string
	metaEnd := -1
	offset := 0
	for _, line := range lines {
		if m := orgHeadlineRe.FindStringSubmatch(line); m != nil {
			if metaEnd < 0 {
				metaEnd = offset
			}
			if doc.headline == "" && len(m[1]) == 1 {
				doc.headline = strings.TrimSpace(m[2])
			}
			linkLines = append(linkLines, line)
		} else if m := orgKeywordRe.FindStringSubmatch(line); m != nil && metaEnd < 0 {
			// Field declarations never double as body links.
			doc.addField(m[1], m[2])
		} else {
			linkLines = append(linkLines, line)
		}
		offset += len(line) + 1
	}

	doc.meta = text
	if metaEnd >= 0 {
		doc.meta = text[:metaEnd]
	}
	doc.links = scanBracketLinks(strings.Join(linkLines, "\n"))
	return doc
}
