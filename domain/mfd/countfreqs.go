package mfd

// CountFreqs is an empirical probability mass function over observed
// integer event counts: how often each exact count occurred during Monte
// Carlo sampling. It serves as the likelihood model for the empirical test
// method.
type CountFreqs map[int]float64

// Prob returns the sampled frequency of the given count. Counts that were
// never sampled have zero probability here; the caller decides what a
// never-sampled observation is worth.
func (f CountFreqs) Prob(count int) (float64, bool) {
	p, ok := f[count]
	return p, ok
}
