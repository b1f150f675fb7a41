package vault

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/starford/muninn/internal/extract"
	"github.com/starford/muninn/internal/models"
)

// ScanResult pairs a note's file metadata with its extracted record.
type ScanResult struct {
	models.NoteMetadata
	Record models.NoteRecord `json:"record"`
}

// Scan reads every note under dir and extracts a record from each.
// Extraction runs on a bounded worker pool; results come back sorted by
// path. A note that cannot be read aborts the whole scan.
func Scan(ctx context.Context, p Provider, dir string, cfg extract.Config, workers int) ([]ScanResult, error) {
	metas, err := p.List(dir)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]ScanResult, len(metas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, meta := range metas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := p.Read(meta.Path)
			if err != nil {
				return err
			}
			results[i] = ScanResult{
				NoteMetadata: meta,
				Record:       extract.Extract(data, meta.Path, cfg),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("vault: scan: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}
