// Package bins holds the spatial-magnitude bin aggregate and the stateless
// MFD queries over it. Storage and derived statistics are deliberately
// separate: SpacemagBin only owns assignments, the query functions in this
// package compute everything else on demand.
package bins

import (
	"hamlet/domain/core"
	"hamlet/domain/seismicity"
	"hamlet/internal/errors"
)

// SpacemagBin is one spatial cell's seismicity data, subdivided by
// magnitude bin center: the ruptures of the source model, the observed
// earthquakes, and optionally a prospective catalog, each keyed by the
// shared magnitude binning. Inserts are append-only; bins are never removed
// during a run.
type SpacemagBin struct {
	Cell    core.CellID
	Binning seismicity.MagBinning

	Ruptures    map[core.MagKey][]seismicity.Rupture
	Observed    map[core.MagKey][]seismicity.Earthquake
	Prospective map[core.MagKey][]seismicity.Earthquake
}

// NewSpacemagBin creates an empty bin for the given cell and binning.
func NewSpacemagBin(cell core.CellID, binning seismicity.MagBinning) *SpacemagBin {
	return &SpacemagBin{
		Cell:        cell,
		Binning:     binning,
		Ruptures:    make(map[core.MagKey][]seismicity.Rupture),
		Observed:    make(map[core.MagKey][]seismicity.Earthquake),
		Prospective: make(map[core.MagKey][]seismicity.Earthquake),
	}
}

// AddRupture assigns a rupture to its magnitude bin. Ruptures outside the
// binning's magnitude range are rejected.
func (b *SpacemagBin) AddRupture(r seismicity.Rupture) error {
	key, ok := b.Binning.KeyFor(r.Mag)
	if !ok {
		return errors.InvalidInput("rupture magnitude outside binning range")
	}
	b.Ruptures[key] = append(b.Ruptures[key], r)
	return nil
}

// AddEarthquake assigns an observed event to its magnitude bin. The
// prospective flag routes the event into the prospective catalog instead.
func (b *SpacemagBin) AddEarthquake(eq seismicity.Earthquake, prospective bool) error {
	key, ok := b.Binning.KeyFor(eq.Mag)
	if !ok {
		return errors.InvalidInput("earthquake magnitude outside binning range")
	}
	if prospective {
		b.Prospective[key] = append(b.Prospective[key], eq)
	} else {
		b.Observed[key] = append(b.Observed[key], eq)
	}
	return nil
}

// NumRuptures returns the total rupture count across magnitude bins.
func (b *SpacemagBin) NumRuptures() int {
	n := 0
	for _, rs := range b.Ruptures {
		n += len(rs)
	}
	return n
}

// NumObserved returns the total observed earthquake count.
func (b *SpacemagBin) NumObserved() int {
	n := 0
	for _, eqs := range b.Observed {
		n += len(eqs)
	}
	return n
}

// ObservedCount returns the observed event count in one magnitude bin.
// Empty bins count zero, never an error.
func (b *SpacemagBin) ObservedCount(key core.MagKey) int {
	return len(b.Observed[key])
}
