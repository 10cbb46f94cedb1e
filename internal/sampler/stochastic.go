// Package sampler builds empirical magnitude-frequency distributions by
// Monte Carlo sampling of spatial-magnitude bins.
package sampler

import (
	"math/rand/v2"

	"hamlet/domain/core"
	"hamlet/domain/mfd"
	"hamlet/internal/bins"
	"hamlet/internal/stats"
)

// StochasticMFDCounts samples a bin nIters times and records, per magnitude
// bin center, the event count drawn in each iteration. Iterations are
// sequential on one stream; fan-out happens across bins, not iterations.
func StochasticMFDCounts(rng *rand.Rand, b *bins.SpacemagBin, nIters int, intervalLength float64) map[core.MagKey][]int {
	counts := make(map[core.MagKey][]int, b.Binning.NumBins())
	for _, key := range b.Binning.Keys() {
		counts[key] = make([]int, 0, nIters)
	}

	for i := 0; i < nIters; i++ {
		sample := bins.RuptureSampleMFD(rng, b, intervalLength, false, false)
		for _, key := range sample.Keys() {
			counts[key] = append(counts[key], int(sample.Get(key)))
		}
	}
	return counts
}

// MFDFreqCounts builds the empirical frequency table of a count sequence:
// how often each exact event count occurred.
func MFDFreqCounts(eqCounts []int) mfd.CountFreqs {
	if len(eqCounts) == 0 {
		return mfd.CountFreqs{}
	}
	occurrences := make(map[int]int)
	for _, n := range eqCounts {
		occurrences[n]++
	}
	freqs := make(mfd.CountFreqs, len(occurrences))
	total := float64(len(eqCounts))
	for n, c := range occurrences {
		freqs[n] = float64(c) / total
	}
	return freqs
}

// StochasticMFD composes the two: an empirical distribution of event counts
// per magnitude bin, obtained from nIters Monte Carlo iterations. This is
// the likelihood model of the empirical test method.
func StochasticMFD(rng *rand.Rand, b *bins.SpacemagBin, nIters int, intervalLength float64) map[core.MagKey]mfd.CountFreqs {
	counts := StochasticMFDCounts(rng, b, nIters, intervalLength)
	out := make(map[core.MagKey]mfd.CountFreqs, len(counts))
	for key, eqCounts := range counts {
		out[key] = MFDFreqCounts(eqCounts)
	}
	return out
}

// StochasticMoment draws one Monte Carlo realization of the bin's total
// seismic moment release over the interval.
func StochasticMoment(rng *rand.Rand, b *bins.SpacemagBin, intervalLength float64) float64 {
	smfd := bins.RuptureSampleMFD(rng, b, intervalLength, true, false)
	return MomentFromMFD(smfd)
}

// StochasticMomentSet repeats StochasticMoment nIters times, building a
// sampled moment distribution for moment-budget checks.
func StochasticMomentSet(rng *rand.Rand, b *bins.SpacemagBin, nIters int, intervalLength float64) []float64 {
	out := make([]float64, nIters)
	for i := range out {
		out[i] = StochasticMoment(rng, b, intervalLength)
	}
	return out
}

// MomentFromMFD converts an incremental rate MFD into an annual seismic
// moment release, in N·m.
func MomentFromMFD(m *mfd.MFD) float64 {
	mo := 0.0
	for _, key := range m.Keys() {
		mo += m.Get(key) * stats.MagToMoment(key.Mag())
	}
	return mo
}
