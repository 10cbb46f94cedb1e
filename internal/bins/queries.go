package bins

import (
	"math"
	"math/rand/v2"

	"hamlet/domain/core"
	"hamlet/domain/mfd"
	"hamlet/internal/errors"
	"hamlet/internal/stats"
)

// RuptureMFD sums the annual occurrence rates of a bin's ruptures per
// magnitude bin center. With cumulative set, each bin holds the rate of
// that magnitude and above.
func RuptureMFD(b *SpacemagBin, cumulative bool) *mfd.MFD {
	out := mfd.New(b.Binning.Keys())
	for key, rups := range b.Ruptures {
		rate := 0.0
		for _, r := range rups {
			rate += r.OccurrenceRate
		}
		out.Set(key, rate)
	}
	if cumulative {
		return out.Cumulative()
	}
	return out
}

// EmpiricalMFD annualizes the observed earthquake counts per magnitude bin
// over a catalog duration of tYears.
func EmpiricalMFD(b *SpacemagBin, tYears float64, cumulative bool) (*mfd.MFD, error) {
	return catalogMFD(b.Observed, b, tYears, cumulative)
}

// ProspectiveMFD is EmpiricalMFD over the prospective catalog.
func ProspectiveMFD(b *SpacemagBin, tYears float64, cumulative bool) (*mfd.MFD, error) {
	return catalogMFD(b.Prospective, b, tYears, cumulative)
}

func catalogMFD[E any](byKey map[core.MagKey][]E, b *SpacemagBin, tYears float64, cumulative bool) (*mfd.MFD, error) {
	if tYears <= 0 {
		return nil, errors.InvalidInput("catalog duration must be positive")
	}
	out := mfd.New(b.Binning.Keys())
	for key, events := range byKey {
		out.Set(key, float64(len(events))/tYears)
	}
	if cumulative {
		return out.Cumulative(), nil
	}
	return out, nil
}

// RuptureSampleMFD draws one Monte Carlo realization of the bin's
// seismicity: an independent Poisson count per rupture over the interval,
// summed per magnitude bin. With normalize set the counts divide by the
// interval length to express annual rates.
func RuptureSampleMFD(rng *rand.Rand, b *SpacemagBin, intervalLength float64, normalize, cumulative bool) *mfd.MFD {
	out := mfd.New(b.Binning.Keys())
	for key, rups := range b.Ruptures {
		n := 0
		for _, r := range rups {
			n += stats.SampleEventCount(rng, r.OccurrenceRate, intervalLength)
		}
		out.Set(key, float64(n))
	}
	if normalize {
		out = out.Scale(1 / intervalLength)
	}
	if cumulative {
		return out.Cumulative()
	}
	return out
}

// MaxRuptureMag returns the largest modeled rupture magnitude in the bin.
// The second return is false for bins without ruptures.
func MaxRuptureMag(b *SpacemagBin) (float64, bool) {
	max := math.Inf(-1)
	found := false
	for _, rups := range b.Ruptures {
		for _, r := range rups {
			if r.Mag > max {
				max = r.Mag
			}
			found = true
		}
	}
	return max, found
}

// MaxObservedMag returns the largest observed earthquake magnitude in the
// bin. The second return is false for bins without observed events.
func MaxObservedMag(b *SpacemagBin) (float64, bool) {
	max := math.Inf(-1)
	found := false
	for _, eqs := range b.Observed {
		for _, eq := range eqs {
			if eq.Mag > max {
				max = eq.Mag
			}
			found = true
		}
	}
	return max, found
}
