package ports

import (
	"context"

	"hamlet/domain/core"
	"hamlet/domain/seismicity"
)

// The spatial partitioning of ruptures and earthquakes happens upstream
// (GIS bin construction, H3 indexing); by the time records reach the
// evaluation core each one already carries its spatial cell key.

// BinnedRupture is a modeled rupture with its precomputed spatial cell.
type BinnedRupture struct {
	Cell    core.CellID
	Rupture seismicity.Rupture
}

// BinnedEarthquake is an observed event with its precomputed spatial cell.
type BinnedEarthquake struct {
	Cell       core.CellID
	Earthquake seismicity.Earthquake
}

// RuptureSource yields the ruptures of a seismic source model.
type RuptureSource interface {
	Ruptures(ctx context.Context) ([]BinnedRupture, error)
}

// CatalogSource yields observed (or prospective) earthquake records.
type CatalogSource interface {
	Earthquakes(ctx context.Context) ([]BinnedEarthquake, error)
}
