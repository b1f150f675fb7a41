package mcpserver

// NoteFormatContract describes the note formats the metadata extractor
// understands, for LLM consumers that create or rewrite notes.
const NoteFormatContract = `# Muninn Note Format Contract

Muninn extracts metadata from notes in three dialects, chosen by file
extension first and content shape second.

## Outline notes (.org)

` + "```" + `org
#+title: Human-readable title       # primary title source
#+tags: tag-one, tag-two            # comma-separated by default
#+aliases: short "A Longer Alias"   # whitespace-separated, quotes group
#+key: cite:doe2020                 # reference key for literature notes

* First headline [1/2]
Body text. Link to [[file:other.org][another note]] or [[https://example.org][the web]].
` + "```" + `

- Keyword lines (` + "`" + `#+name: value` + "`" + `) must come before the first headline.
- The first single-star headline is the fallback title; statistics
  cookies like ` + "`" + `[1/2]` + "`" + ` and ` + "`" + `[40%]` + "`" + ` are stripped from it.
- Links use ` + "`" + `[[target]]` + "`" + ` or ` + "`" + `[[target][description]]` + "`" + `. Targets may carry a
  scheme: ` + "`" + `file:` + "`" + `, ` + "`" + `id:` + "`" + ` (UUID), ` + "`" + `cite:` + "`" + `, or a URL.

## Markdown notes (.md, .markdown)

` + "```" + `markdown
---
title: Human-readable title
tags:
  - tag-one
  - tag-two
aliases:
  - An Alias
---

Body text with [[wikilinks]], [inline](https://example.org) and
[reference][label] links.

[label]: https://example.org/ref
` + "```" + `

- YAML frontmatter fences must be the first thing in the file.
- ` + "`" + `[[target|alias]]` + "`" + ` sets display text that differs from the target.
- The first ` + "`" + `#` + "`" + ` heading is the fallback title when frontmatter has none.

## Structured notes (.yaml, .yml, .json)

` + "```" + `yaml
title: Human-readable title
tags: [tag-one, tag-two]
links:
  - file:other.org
  - https://example.org
` + "```" + `

- The whole document is one mapping; every key is a metadata field.
- The ` + "`" + `links` + "`" + ` list declares outgoing links directly.

## Rules

1. **Field names are case-insensitive** and configurable; the defaults
   are ` + "`" + `title` + "`" + `, ` + "`" + `tags` + "`" + `, ` + "`" + `aliases` + "`" + `, and ` + "`" + `key` + "`" + `.
2. **Tags** are lowercase, kebab-case where possible.
3. **Hashtags** (` + "`" + `#tag` + "`" + `) count as tags only when the corresponding tag
   source is enabled in the configuration.
4. **Malformed markup never fails extraction** - it just yields fewer
   fields. Write well-formed notes anyway.
5. **Encoding** is UTF-8 with a trailing newline.
`
