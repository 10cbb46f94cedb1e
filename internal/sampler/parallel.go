package sampler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"hamlet/domain/core"
	"hamlet/domain/mfd"
	"hamlet/internal/bins"
	"hamlet/ports"
)

// StreamName returns the RNG stream name for a cell's stochastic sampling.
// Sequential and parallel execution both derive streams through this name,
// which is what makes the two paths produce identical results.
func StreamName(cell core.CellID) string {
	return "stochastic-mfd/" + string(cell)
}

// StochasticMFDs computes the stochastic MFD for every requested cell.
// Cells are independent, so the work fans out across up to `workers`
// goroutines and fans back in keyed by cell ID; no ordering between cells
// is assumed anywhere. workers <= 1 runs sequentially, workers == 0 uses
// one worker per CPU.
func StochasticMFDs(
	ctx context.Context,
	rngf ports.RNG,
	col *bins.Collection,
	cells []core.CellID,
	nIters int,
	intervalLength float64,
	workers int,
) (map[core.CellID]map[core.MagKey]mfd.CountFreqs, error) {
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]map[core.MagKey]mfd.CountFreqs, len(cells))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cell := range cells {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, ok := col.Get(cell)
			if !ok {
				return nil // cell not in collection, nothing to sample
			}
			rng := rngf.Stream(StreamName(cell))
			results[i] = StochasticMFD(rng, row.Bin, nIters, intervalLength)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[core.CellID]map[core.MagKey]mfd.CountFreqs, len(cells))
	for i, cell := range cells {
		if results[i] != nil {
			out[cell] = results[i]
		}
	}
	return out, nil
}
