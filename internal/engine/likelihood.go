package engine

import (
	"context"
	"math"

	"hamlet/domain/core"
	"hamlet/domain/mfd"
	"hamlet/internal/bins"
	"hamlet/internal/config"
	"hamlet/internal/errors"
	"hamlet/internal/sampler"
	"hamlet/internal/stats"
)

// runLikelihoodTest scores every source bin under the configured method.
// The whole column is first filled with the default likelihood so that
// bins no test touches still carry a defined value.
func (e *Engine) runLikelihoodTest(ctx context.Context) error {
	tc := e.cfg.Tests.Likelihood

	e.col.FillLogLike(tc.DefaultLikelihood)
	cells := e.col.SourceCells()
	e.log.Info("running MFD likelihood test (%s) over %d source bins", tc.Method, len(cells))

	switch tc.Method {
	case config.MethodPoisson:
		return e.poissonLikelihoodTest(cells)
	case config.MethodEmpirical:
		return e.empiricalLikelihoodTest(ctx, cells)
	}
	return errors.InvalidInput("unknown likelihood method: " + tc.Method)
}

func (e *Engine) poissonLikelihoodTest(cells []core.CellID) error {
	tc := e.cfg.Tests.Likelihood
	for _, cell := range cells {
		row, _ := e.col.Get(cell)
		ll, err := poissonBinLogLike(row.Bin, tc.InvestigationTime, tc.NotModeledVal)
		if err != nil {
			return err
		}
		e.col.SetLogLike(cell, ll)
	}
	return nil
}

func (e *Engine) empiricalLikelihoodTest(ctx context.Context, cells []core.CellID) error {
	tc := e.cfg.Tests.Likelihood

	workers := 1
	if e.cfg.Run.Parallel {
		workers = e.cfg.Run.Workers
		if workers == 1 {
			workers = 0 // one per CPU
		}
	}

	e.log.Debug("sampling empirical MFDs, n_iters=%d workers=%d", tc.NIters, workers)
	cellMFDs, err := sampler.StochasticMFDs(
		ctx, e.rngf, e.col, cells, tc.NIters, tc.InvestigationTime, workers)
	if err != nil {
		return err
	}

	for _, cell := range cells {
		row, _ := e.col.Get(cell)
		e.col.SetLogLike(cell, empiricalBinLogLike(row.Bin, cellMFDs[cell], tc.NotModeledVal))
	}
	return nil
}

// poissonBinLogLike scores one spatial bin: the log of the geometric mean
// of per-magnitude-bin Poisson likelihoods of the observed counts given
// the modeled rates over the investigation time. Magnitude bins with zero
// modeled rate route through the zero-rate branch, so an observed event
// there contributes log(notModeledVal) instead of an error.
func poissonBinLogLike(b *bins.SpacemagBin, invTime, notModeledVal float64) (float64, error) {
	modMFD := bins.RuptureMFD(b, false)

	sum := 0.0
	nBins := 0
	for _, key := range b.Binning.Keys() {
		ll, err := stats.PoissonLogLikelihood(b.ObservedCount(key), modMFD.Get(key), invTime, notModeledVal)
		if err != nil {
			return 0, err
		}
		sum += ll
		nBins++
	}
	if nBins == 0 {
		return 0, errors.InternalError("bin has no magnitude bins")
	}
	return sum / float64(nBins), nil
}

// empiricalBinLogLike is the same aggregate with the sampled
// count-frequency table as the likelihood model: the probability of the
// observed count is looked up directly, falling back to notModeledVal for
// counts never sampled.
func empiricalBinLogLike(b *bins.SpacemagBin, freqs map[core.MagKey]mfd.CountFreqs, notModeledVal float64) float64 {
	sum := 0.0
	nBins := 0
	for _, key := range b.Binning.Keys() {
		p, ok := freqs[key].Prob(b.ObservedCount(key))
		if !ok {
			p = notModeledVal
		}
		sum += math.Log(p)
		nBins++
	}
	return sum / float64(nBins)
}
