package stats

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"hamlet/internal/errors"
)

// EstimateNegBinomParams fits negative-binomial parameters to a sample of
// event counts: the mean by method of moments, the dispersion by BFGS
// minimization of the negative log-likelihood, started from the sample
// coefficient of variation.
func EstimateNegBinomParams(samples []int) (mean, dispersion float64, err error) {
	if len(samples) == 0 {
		return 0, 0, errors.InvalidInput("cannot estimate parameters from an empty sample")
	}

	sum := 0.0
	for _, n := range samples {
		if n < 0 {
			return 0, 0, errors.InvalidInput("num_events should be zero or a positive integer")
		}
		sum += float64(n)
	}
	mean = sum / float64(len(samples))
	if mean == 0 {
		return 0, 0, errors.InvalidInput("cannot estimate dispersion for an all-zero sample")
	}

	varSum := 0.0
	for _, n := range samples {
		d := float64(n) - mean
		varSum += d * d
	}
	cov := math.Sqrt(varSum/float64(len(samples))) / mean

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return negNegBinomLogLikelihood(samples, mean, x[0])
		},
	}

	result, err := optimize.Minimize(problem, []float64{cov}, nil, &optimize.BFGS{})
	if err != nil {
		return 0, 0, errors.Wrap(err, "dispersion minimization failed")
	}
	return mean, result.X[0], nil
}

func negNegBinomLogLikelihood(samples []int, mean, dispersion float64) float64 {
	negLike := 0.0
	for _, n := range samples {
		p, err := NegativeBinomialDistribution(n, mean, dispersion)
		if err != nil || p <= 0 || math.IsNaN(p) {
			return math.Inf(1)
		}
		negLike -= math.Log(p)
	}
	return negLike
}
