package core

import (
	"fmt"
	"math"
)

// MagKey is a magnitude bin center expressed in integer tenths of a
// magnitude unit (e.g. Mw 6.5 -> MagKey(65)). Magnitude bin centers are map
// keys throughout the evaluation engine, and exact float equality is too
// fragile for that job, so the fixed-point form is the canonical key.
type MagKey int

// KeyForMag quantizes a magnitude to the nearest tenth.
func KeyForMag(mag float64) MagKey {
	return MagKey(math.Round(mag * 10))
}

// Mag returns the bin-center magnitude this key stands for.
func (k MagKey) Mag() float64 {
	return float64(k) / 10.0
}

func (k MagKey) String() string {
	return fmt.Sprintf("%.1f", k.Mag())
}
