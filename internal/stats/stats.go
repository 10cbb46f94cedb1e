// Package stats provides the statistical primitives shared by the
// evaluation tests: Poisson and negative-binomial likelihoods, information
// divergences, and Monte Carlo event-time sampling.
package stats

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"hamlet/internal/errors"
)

// SampleEventTimesInInterval draws a Poisson-distributed number of events
// for the given annual occurrence rate over an interval of length
// intervalLength (years), then places each event at an independent uniform
// time in [t0, t0+intervalLength). All randomness comes from the supplied
// stream, so the caller controls determinism.
func SampleEventTimesInInterval(rng *rand.Rand, annualOccurrenceRate, intervalLength, t0 float64) []float64 {
	if annualOccurrenceRate <= 0 || intervalLength <= 0 {
		return nil
	}

	pois := distuv.Poisson{Lambda: annualOccurrenceRate * intervalLength, Src: rng}
	nEvents := int(pois.Rand())
	if nEvents == 0 {
		return nil
	}

	unif := distuv.Uniform{Min: t0, Max: t0 + intervalLength, Src: rng}
	times := make([]float64, nEvents)
	for i := range times {
		times[i] = unif.Rand()
	}
	return times
}

// SampleEventCount draws one Poisson count for the given rate over the
// interval. A non-positive rate yields zero events.
func SampleEventCount(rng *rand.Rand, annualOccurrenceRate, intervalLength float64) int {
	if annualOccurrenceRate <= 0 || intervalLength <= 0 {
		return 0
	}
	pois := distuv.Poisson{Lambda: annualOccurrenceRate * intervalLength, Src: rng}
	return int(pois.Rand())
}

// PoissonLikelihood returns the Poisson probability of observing numEvents
// in timeInterval given an occurrence rate in the interval's time units.
//
// A zero rate is a valid model state, not an error: zero events then have
// likelihood 1, and any positive count gets the configured notModeledVal.
func PoissonLikelihood(numEvents int, rate, timeInterval, notModeledVal float64) (float64, error) {
	if numEvents < 0 {
		return 0, errors.InvalidInput("num_events should be zero or a positive integer")
	}
	if rate == 0 {
		return poissonLikelihoodZeroRate(numEvents, notModeledVal), nil
	}
	rt := rate * timeInterval
	return math.Exp(float64(numEvents)*math.Log(rt) - rt - logFactorial(numEvents)), nil
}

// PoissonLogLikelihood is the log-space variant of PoissonLikelihood, with
// the same zero-rate branch. A notModeledVal of zero therefore yields -Inf,
// which the caller may treat as a hard veto.
func PoissonLogLikelihood(numEvents int, rate, timeInterval, notModeledVal float64) (float64, error) {
	if numEvents < 0 {
		return 0, errors.InvalidInput("num_events should be zero or a positive integer")
	}
	if rate == 0 {
		return math.Log(poissonLikelihoodZeroRate(numEvents, notModeledVal)), nil
	}
	rt := rate * timeInterval
	return -rt + float64(numEvents)*math.Log(rt) - logFactorial(numEvents), nil
}

func poissonLikelihoodZeroRate(numEvents int, notModeledVal float64) float64 {
	if numEvents == 0 {
		return 1.0
	}
	return notModeledVal
}

// logFactorial returns ln(n!) via the log-gamma function.
func logFactorial(n int) float64 {
	lg, _ := math.Lgamma(float64(n) + 1)
	return lg
}

// NegativeBinomialDistribution returns the negative-binomial probability of
// observing numEvents given a mean rate and a dispersion parameter. At zero
// dispersion the distribution degenerates to the Poisson.
func NegativeBinomialDistribution(numEvents int, meanRate, dispersion float64) (float64, error) {
	if numEvents < 0 {
		return 0, errors.InvalidInput("num_events should be zero or a positive integer")
	}
	if dispersion == 0 {
		return PoissonLikelihood(numEvents, meanRate, 1, 0)
	}

	rDisp := 1 / dispersion
	n := float64(numEvents)

	term1 := math.Gamma(n+rDisp) / (math.Gamma(rDisp) * math.Gamma(n+1))
	term2 := math.Pow((meanRate*dispersion)/(1+meanRate*dispersion), n)
	term3 := math.Pow(1+meanRate*dispersion, -rDisp)

	return term1 * term2 * term3, nil
}

// KullbackLeiblerDivergence computes sum(p * ln(p/q)) over two equal-length
// distributions. Zero entries in q where p is nonzero are not guarded; the
// result is then Inf or NaN and propagates as a value, by the same contract
// as the rest of the divergence family. Panics on length mismatch are left
// to the runtime.
func KullbackLeiblerDivergence(p, q []float64) float64 {
	sum := 0.0
	for i, pi := range p {
		if pi == 0 {
			continue
		}
		sum += pi * math.Log(pi/q[i])
	}
	return sum
}

// JensenShannonDivergence is the symmetrized KL divergence of p and q
// against their pointwise midpoint distribution.
func JensenShannonDivergence(p, q []float64) float64 {
	r := midpointMeasure(p, q)
	return 0.5 * (KullbackLeiblerDivergence(p, r) + KullbackLeiblerDivergence(q, r))
}

// JensenShannonDistance is the square root of the JS divergence.
func JensenShannonDistance(p, q []float64) float64 {
	return math.Sqrt(JensenShannonDivergence(p, q))
}

func midpointMeasure(p, q []float64) []float64 {
	r := make([]float64, len(p))
	for i := range p {
		r[i] = 0.5 * (p[i] + q[i])
	}
	return r
}

// MagToMoment converts a moment magnitude to scalar seismic moment in N·m.
func MagToMoment(mag float64) float64 {
	return math.Pow(10, 1.5*mag+9.05)
}
