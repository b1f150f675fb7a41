// Package models defines the domain types for Muninn.
package models

import "time"

// LinkKind classifies the target of an extracted link.
type LinkKind string

// Link kinds.
const (
	LinkKindFile    LinkKind = "file"
	LinkKindCite    LinkKind = "cite"
	LinkKindWebsite LinkKind = "website"
	LinkKindID      LinkKind = "id"
)

// RefKind classifies a reference declaration.
type RefKind string

// Ref kinds.
const (
	RefKindCite    RefKind = "cite"
	RefKindWebsite RefKind = "website"
)

// NoteRecord is the structured metadata extracted from a single note.
// It is derived fresh on every extraction and carries no persistent identity;
// external consumers (indexes, caches) own storage and diffing.
type NoteRecord struct {
	Titles  []string `json:"titles"`
	Aliases []string `json:"aliases"`
	Tags    []string `json:"tags"`
	Links   []Link   `json:"links"`
	Refs    []Ref    `json:"refs"`
}

// Link is a directed edge from the note at Source to Target.
type Link struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   LinkKind `json:"kind"`
}

// Ref declares that a note is the canonical note for a reference key.
type Ref struct {
	Kind RefKind `json:"kind"`
	Key  string  `json:"key"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LiteratureEntry is one entry of a bibliography collection.
type LiteratureEntry struct {
	Key     string            `json:"key"`
	Title   string            `json:"title,omitempty"`
	Author  string            `json:"author,omitempty"`
	Date    string            `json:"date,omitempty"`
	Type    string            `json:"type,omitempty"`
	Tags    []string          `json:"tags,omitempty"`
	Sources []string          `json:"sources,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// PageMetadata is the best-effort citation metadata scraped from a web page.
// Any field may be empty when the page does not declare it.
type PageMetadata struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Date   string `json:"date,omitempty"`
}
