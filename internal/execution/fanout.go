package execution

import (
	"github.com/ajitpratap0/epochflow/internal/table"
	"golang.org/x/sync/errgroup"
)

// runFanOut runs fn once per asset concurrently. maxConcurrent of zero
// leaves the group unbounded, matching the "concurrency level is unlimited"
// default; a positive value caps it via errgroup.SetLimit. errgroup.Group is
// used purely as a WaitGroup here: fn never returns an error because every
// failure path already routes through ctx.Logger, a catch-and-log per-asset
// policy rather than abort-on-first-error.
func runFanOut(assetIDs []table.AssetID, maxConcurrent int, fn func(table.AssetID)) {
	var g errgroup.Group
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}
	for _, assetID := range assetIDs {
		assetID := assetID
		g.Go(func() error {
			fn(assetID)
			return nil
		})
	}
	_ = g.Wait()
}

// runFanOutIndexed is runFanOut's index-addressed counterpart, used when the
// caller needs a stable per-asset result slot (cross-sectional gathering).
func runFanOutIndexed(n, maxConcurrent int, fn func(int)) {
	var g errgroup.Group
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
