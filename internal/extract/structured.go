package extract

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// parseStructured builds the document view of a structured-data note: a
// YAML or JSON mapping whose top-level keys are the document fields. The
// whole document is metadata, so headline and hashtag sources have
// nothing to match.
func parseStructured(data []byte) *document {
	doc := &document{dialect: DialectStructured}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		// Not a mapping: every source misses.
		return doc
	}
	for k, v := range m {
		if strings.EqualFold(k, "links") {
			for _, s := range fieldStrings(v) {
				doc.links = append(doc.links, rawLink{target: s})
			}
			continue
		}
		for _, s := range fieldStrings(v) {
			doc.addField(k, s)
		}
	}
	return doc
}
