package reconcile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DiffResult pairs sorted comparison entries with their summary.
type DiffResult struct {
	Entries []Entry `json:"entries"`
	Summary Summary `json:"summary"`
}

// Diff materializes both sides concurrently and compares them. A listing
// failure on either side aborts the whole operation; there is no partial
// diff without both sides known.
func Diff(ctx context.Context, first, second Source, cfg MaterializeConfig) (DiffResult, error) {
	var firstListing, secondListing Listing

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listing, err := Materialize(gctx, first, cfg)
		if err != nil {
			return fmt.Errorf("failed to list first side: %w", err)
		}
		firstListing = listing
		return nil
	})
	g.Go(func() error {
		listing, err := Materialize(gctx, second, cfg)
		if err != nil {
			return fmt.Errorf("failed to list second side: %w", err)
		}
		secondListing = listing
		return nil
	})
	if err := g.Wait(); err != nil {
		return DiffResult{}, err
	}

	entries := Compare(firstListing, secondListing)
	return DiffResult{
		Entries: entries,
		Summary: Summarize(entries),
	}, nil
}
