// Package noteservice coordinates vault access, metadata extraction, and
// bibliography maintenance behind one facade shared by the CLI and the
// MCP server.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/bib"
	"github.com/starford/muninn/internal/checksum"
	"github.com/starford/muninn/internal/cite"
	"github.com/starford/muninn/internal/extract"
	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/vault"
)

// RecordDetail is the full representation of one extracted note.
type RecordDetail struct {
	Path     string            `json:"path"`
	Checksum string            `json:"checksum"`
	Record   models.NoteRecord `json:"record"`
}

// FetchDetail carries fetched page metadata together with the citekey
// suggested from it.
type FetchDetail struct {
	Page      models.PageMetadata `json:"page"`
	Suggested cite.KeyResult      `json:"suggested"`
}

// Options configures a Service beyond its storage backend.
type Options struct {
	Extract  extract.Config
	Fetcher  *cite.Fetcher
	BibPath  string
	DailyDir string
	Workers  int
}

// Service coordinates vault, extraction, and bibliography operations.
type Service struct {
	store    vault.Provider
	cfg      extract.Config
	fetcher  *cite.Fetcher
	bibPath  string
	dailyDir string
	workers  int
}

// NewService creates a new note service.
func NewService(store vault.Provider, opts Options) *Service {
	if opts.Extract.TitleField == "" {
		opts.Extract = extract.DefaultConfig()
	}
	if opts.Fetcher == nil {
		opts.Fetcher = cite.NewFetcher(10 * time.Second)
	}
	if opts.BibPath == "" {
		opts.BibPath = "bibliography.org"
	}
	return &Service{
		store:    store,
		cfg:      opts.Extract,
		fetcher:  opts.Fetcher,
		bibPath:  opts.BibPath,
		dailyDir: opts.DailyDir,
		workers:  opts.Workers,
	}
}

// Record reads one note and extracts its metadata record.
func (s *Service) Record(_ context.Context, path string) (*RecordDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildDetail(path, data), nil
}

// ScanAll extracts a record for every note in the vault.
func (s *Service) ScanAll(ctx context.Context) ([]vault.ScanResult, error) {
	results, err := vault.Scan(ctx, s.store, "", s.cfg, s.workers)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Record = normalized(results[i].Record)
	}
	return results, nil
}

// Citekey derives a deterministic key from author and date strings.
func (s *Service) Citekey(author, date string) cite.KeyResult {
	return cite.GenerateKey(author, date)
}

// FetchMetadata retrieves page metadata for a URL and suggests a citekey
// from it. Fetch failures degrade to an empty record; only context
// cancellation aborts.
func (s *Service) FetchMetadata(ctx context.Context, url string) (FetchDetail, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return FetchDetail{}, ctxErr
		}
		page = models.PageMetadata{}
	}
	return FetchDetail{Page: page, Suggested: cite.GenerateKey(page.Author, page.Date)}, nil
}

// Literature returns every bibliography entry. A missing bibliography
// file is an empty library, not an error.
func (s *Service) Literature(_ context.Context) ([]models.LiteratureEntry, error) {
	data, err := s.readBib()
	if err != nil {
		return nil, err
	}
	entries := bib.Parse(data, s.bibConfig())
	if entries == nil {
		entries = []models.LiteratureEntry{}
	}
	return entries, nil
}

// CheckLiterature verifies key uniqueness across the bibliography and
// returns the entry count.
func (s *Service) CheckLiterature(_ context.Context) (int, error) {
	data, err := s.readBib()
	if err != nil {
		return 0, err
	}
	entries := bib.Parse(data, s.bibConfig())
	return len(entries), bib.CheckKeys(entries)
}

// AddLiterature appends an entry to the bibliography, deriving its key
// from author and date when none is given.
func (s *Service) AddLiterature(_ context.Context, entry models.LiteratureEntry) (models.LiteratureEntry, error) {
	if entry.Key == "" {
		res := cite.GenerateKey(entry.Author, entry.Date)
		if res.NeedsInput {
			return models.LiteratureEntry{}, fmt.Errorf("noteservice: derive key for %q: %w", entry.Title, apperr.ErrAmbiguousKey)
		}
		entry.Key = res.Key
	}
	entry.Sources = bib.CanonicalSources(entry.Sources)

	data, err := s.readBib()
	if err != nil {
		return models.LiteratureEntry{}, err
	}
	out, err := bib.Append(data, entry, s.bibConfig())
	if err != nil {
		return models.LiteratureEntry{}, err
	}
	if err := s.store.Write(s.bibPath, out); err != nil {
		return models.LiteratureEntry{}, err
	}
	return entry, nil
}

// WriteTags replaces the tag declaration of a note in its own dialect
// and returns the short checksum of the new revision.
func (s *Service) WriteTags(_ context.Context, path string, tags []string) (string, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperr.ErrNotFound
		}
		return "", err
	}
	updated := extract.WriteTags(data, path, tags, s.cfg)
	if err := s.store.Write(path, updated); err != nil {
		return "", err
	}
	return checksum.Short(updated), nil
}

// Daily returns the daily note for the given day, creating it first when
// it does not exist yet. The second return reports whether it was
// created by this call.
func (s *Service) Daily(_ context.Context, day time.Time) (*RecordDetail, bool, error) {
	path := vault.DailyPath(s.dailyDir, day)
	data, err := s.store.Read(path)
	if err == nil {
		return s.buildDetail(path, data), false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}

	content := []byte("#+title: " + vault.DailyTitle(day) + "\n\n")
	if err := s.store.Write(path, content); err != nil {
		return nil, false, err
	}
	return s.buildDetail(path, content), true, nil
}

func (s *Service) readBib() ([]byte, error) {
	data, err := s.store.Read(s.bibPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *Service) bibConfig() bib.Config {
	return bib.Config{KeyField: s.cfg.KeyField, TagSeparator: s.cfg.TagSeparator}
}

// buildDetail constructs a RecordDetail from raw data without re-reading
// the file.
func (s *Service) buildDetail(path string, data []byte) *RecordDetail {
	return &RecordDetail{
		Path:     path,
		Checksum: checksum.Sum(data),
		Record:   normalized(extract.Extract(data, path, s.cfg)),
	}
}

func normalized(rec models.NoteRecord) models.NoteRecord {
	rec.Titles = nonNilSlice(rec.Titles)
	rec.Aliases = nonNilSlice(rec.Aliases)
	rec.Tags = nonNilSlice(rec.Tags)
	rec.Links = nonNilSlice(rec.Links)
	rec.Refs = nonNilSlice(rec.Refs)
	return rec
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
