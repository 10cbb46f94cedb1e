package engine

import (
	"hamlet/domain/core"
	"hamlet/internal/bins"
)

// runMaxMagCheck flags spatial bins where an observed earthquake exceeds
// the largest modeled rupture magnitude. A bin with observed events but no
// ruptures at all also counts as exceeded: the model has no ceiling there.
func (e *Engine) runMaxMagCheck() error {
	tc := e.cfg.Tests.MaxMag
	e.log.Info("checking maximum magnitudes")

	nExceeded := 0
	e.col.Each(func(cell core.CellID, row *bins.Row) {
		maxObs, hasObs := bins.MaxObservedMag(row.Bin)
		if !hasObs {
			if tc.AppendCheck {
				e.col.SetMaxMagExceeded(cell, false)
			}
			return
		}

		maxRup, hasRup := bins.MaxRuptureMag(row.Bin)
		exceeded := !hasRup || maxObs > maxRup

		if exceeded {
			nExceeded++
			if tc.Warn {
				e.log.Warn("bin %s: observed M%.1f exceeds modeled max M%.1f", cell, maxObs, maxRup)
			}
		}
		if tc.AppendCheck {
			e.col.SetMaxMagExceeded(cell, exceeded)
		}
	})

	e.log.Info("max magnitude exceeded in %d of %d bins", nExceeded, e.col.Len())
	return nil
}
