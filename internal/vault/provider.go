// Package vault defines the note collection and its file-system backend.
package vault

import "github.com/starford/muninn/internal/models"

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns metadata for every note file under dir (relative to
	// the vault root).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the
	// vault root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the vault
	// root).
	Write(path string, content []byte) error
}
