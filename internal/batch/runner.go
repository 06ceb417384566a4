// Package batch fetches every puzzle of one date window.
package batch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"xwscraper/pkg/logger"
	"xwscraper/pkg/nyt"
)

// PuzzleFetcher is the part of the service client a Runner needs
type PuzzleFetcher interface {
	FetchPuzzles(ctx context.Context, pt nyt.PuzzleType, w nyt.Window) ([]nyt.PuzzleRecord, error)
	FetchPuzzleDetail(ctx context.Context, rec nyt.PuzzleRecord) (nyt.PuzzleRecord, error)
}

// Runner lists the puzzles of a window and fetches all their details at once.
// Concurrency is bounded only by the client's transport.
type Runner struct {
	client PuzzleFetcher
	logger logger.Logger

	// OnDetail, when set, is called after each puzzle detail is merged.
	// It may be called from several goroutines at once.
	OnDetail func(w nyt.Window, rec nyt.PuzzleRecord)
}

// NewRunner creates a Runner over client
func NewRunner(client PuzzleFetcher, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{
		client: client,
		logger: log,
	}
}

// Run returns the enriched records of every puzzle published in w, in list
// order. The first failed detail fetch cancels the rest and fails the window.
func (r *Runner) Run(ctx context.Context, pt nyt.PuzzleType, w nyt.Window) ([]nyt.PuzzleRecord, error) {
	start := time.Now()
	log := r.logger.WithFields(map[string]interface{}{
		"puzzle_type": string(pt),
		"window":      w.String(),
	})

	summaries, err := r.client.FetchPuzzles(ctx, pt, w)
	if err != nil {
		return nil, fmt.Errorf("list %s puzzles %s: %w", pt, w, err)
	}
	log.DebugWithFields("Window listed", map[string]interface{}{
		"puzzles": len(summaries),
	})

	records := make([]nyt.PuzzleRecord, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	for i, summary := range summaries {
		g.Go(func() error {
			rec, err := r.client.FetchPuzzleDetail(gctx, summary)
			if err != nil {
				id, _ := summary.ID()
				return fmt.Errorf("puzzle %s (%s): %w", id, w, err)
			}
			records[i] = rec
			if r.OnDetail != nil {
				r.OnDetail(w, rec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.DebugWithFields("Window fetched", map[string]interface{}{
		"puzzles":  len(records),
		"duration": time.Since(start),
	})
	return records, nil
}
