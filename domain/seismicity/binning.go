package seismicity

import (
	"fmt"
	"math"

	"hamlet/domain/core"
)

// MagBinning defines the fixed, shared sequence of magnitude bin centers
// that every spatial bin and every derived MFD uses. Centers run from Min
// to Max inclusive in steps of Width; a magnitude belongs to its nearest
// center, and magnitudes more than half a bin width outside the covered
// range belong to no bin.
type MagBinning struct {
	Min   float64
	Max   float64
	Width float64

	keys []core.MagKey
}

// NewMagBinning validates the bin parameters and precomputes the key
// sequence. Width must be a positive multiple of 0.1 so that bin centers
// quantize exactly to MagKey tenths.
func NewMagBinning(min, max, width float64) (MagBinning, error) {
	if width <= 0 {
		return MagBinning{}, fmt.Errorf("bin width must be positive, got %g", width)
	}
	tenths := width * 10
	if math.Abs(tenths-math.Round(tenths)) > 1e-9 {
		return MagBinning{}, fmt.Errorf("bin width must be a multiple of 0.1, got %g", width)
	}
	if max < min {
		return MagBinning{}, fmt.Errorf("max magnitude %g below min %g", max, min)
	}

	b := MagBinning{Min: min, Max: max, Width: width}
	step := int(math.Round(tenths))
	for k := core.KeyForMag(min); k <= core.KeyForMag(max); k += core.MagKey(step) {
		b.keys = append(b.keys, k)
	}
	return b, nil
}

// Keys returns the bin centers in ascending order. Callers must not mutate
// the returned slice.
func (b MagBinning) Keys() []core.MagKey {
	return b.keys
}

// NumBins returns the number of magnitude bins.
func (b MagBinning) NumBins() int {
	return len(b.keys)
}

// KeyFor assigns a magnitude to its nearest bin center. The second return
// is false when the magnitude falls outside the covered range.
func (b MagBinning) KeyFor(mag float64) (core.MagKey, bool) {
	if len(b.keys) == 0 {
		return 0, false
	}
	half := b.Width / 2
	if mag < b.Min-half || mag >= b.Max+half {
		return 0, false
	}
	idx := int(math.Round((mag - b.Min) / b.Width))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(b.keys) {
		idx = len(b.keys) - 1
	}
	return b.keys[idx], true
}
