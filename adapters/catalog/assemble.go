package catalog

import (
	"hamlet/domain/core"
	"hamlet/domain/seismicity"
	"hamlet/internal"
	"hamlet/internal/bins"
	"hamlet/ports"
)

// AssembleBins builds the bin collection from pre-binned records: one
// SpacemagBin per distinct cell, in first-seen order across ruptures and
// both catalogs. Records whose magnitude falls outside the binning range
// are dropped with a count, not an error.
func AssembleBins(
	binning seismicity.MagBinning,
	ruptures []ports.BinnedRupture,
	observed []ports.BinnedEarthquake,
	prospective []ports.BinnedEarthquake,
	log *internal.Logger,
) (*bins.Collection, error) {
	if log == nil {
		log = internal.DefaultLogger
	}
	col := bins.NewCollection()

	getBin := func(cell core.CellID) (*bins.SpacemagBin, error) {
		if row, ok := col.Get(cell); ok {
			return row.Bin, nil
		}
		b := bins.NewSpacemagBin(cell, binning)
		if err := col.Add(b); err != nil {
			return nil, err
		}
		return b, nil
	}

	skippedRups := 0
	for _, br := range ruptures {
		b, err := getBin(br.Cell)
		if err != nil {
			return nil, err
		}
		if err := b.AddRupture(br.Rupture); err != nil {
			skippedRups++
		}
	}

	skippedEqs := 0
	for _, be := range observed {
		b, err := getBin(be.Cell)
		if err != nil {
			return nil, err
		}
		if err := b.AddEarthquake(be.Earthquake, false); err != nil {
			skippedEqs++
		}
	}
	for _, be := range prospective {
		b, err := getBin(be.Cell)
		if err != nil {
			return nil, err
		}
		if err := b.AddEarthquake(be.Earthquake, true); err != nil {
			skippedEqs++
		}
	}

	if skippedRups > 0 {
		log.Debug("dropped %d ruptures outside the magnitude binning", skippedRups)
	}
	if skippedEqs > 0 {
		log.Debug("dropped %d earthquakes outside the magnitude binning", skippedEqs)
	}
	log.Info("assembled %d spatial bins (%d ruptures, %d observed events)",
		col.Len(), len(ruptures), len(observed))

	return col, nil
}
