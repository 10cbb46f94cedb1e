// Package testkit provides synthetic seismicity fixtures for tests.
package testkit

import (
	"fmt"
	"time"

	"hamlet/domain/core"
	"hamlet/domain/seismicity"
	"hamlet/internal/bins"
	"hamlet/internal/rng"
	"hamlet/ports"
)

// Binning returns the standard test binning: Mw 6.0 to 8.0 in 0.2 steps.
func Binning() seismicity.MagBinning {
	b, err := seismicity.NewMagBinning(6.0, 8.0, 0.2)
	if err != nil {
		panic(err)
	}
	return b
}

// Rupture builds a rupture with the given magnitude and annual rate.
func Rupture(mag, rate float64) seismicity.Rupture {
	return seismicity.Rupture{
		Strike:         0,
		Dip:            90,
		Rake:           0,
		Mag:            mag,
		Hypocenter:     seismicity.Point{Lon: 10, Lat: 45, Depth: 10},
		OccurrenceRate: rate,
		Source:         "test-source",
	}
}

// Quake builds an observed earthquake with the given magnitude.
func Quake(mag float64) seismicity.Earthquake {
	return seismicity.Earthquake{
		Mag:      mag,
		Location: seismicity.Point{Lon: 10, Lat: 45, Depth: 12},
		Time:     time.Date(2010, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

// Bin builds a SpacemagBin with ruptures at the given magnitude->rate
// pairs. Panics on out-of-range magnitudes; fixtures should be in range.
func Bin(cell string, ruptureRates map[float64]float64) *bins.SpacemagBin {
	b := bins.NewSpacemagBin(core.CellID(cell), Binning())
	for mag, rate := range ruptureRates {
		if err := b.AddRupture(Rupture(mag, rate)); err != nil {
			panic(fmt.Sprintf("fixture rupture M%.1f: %v", mag, err))
		}
	}
	return b
}

// Observe appends observed earthquakes at the given magnitudes.
func Observe(b *bins.SpacemagBin, mags ...float64) {
	for _, mag := range mags {
		if err := b.AddEarthquake(Quake(mag), false); err != nil {
			panic(fmt.Sprintf("fixture quake M%.1f: %v", mag, err))
		}
	}
}

// Collection builds a bin collection from the given bins.
func Collection(spacemagBins ...*bins.SpacemagBin) *bins.Collection {
	col := bins.NewCollection()
	for _, b := range spacemagBins {
		if err := col.Add(b); err != nil {
			panic(err)
		}
	}
	return col
}

// RNG returns a deterministic stream factory for tests.
func RNG(seed uint64) ports.RNG {
	return rng.NewSeeded(seed)
}
