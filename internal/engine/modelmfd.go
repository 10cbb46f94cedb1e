package engine

import (
	"hamlet/domain/core"
	"hamlet/domain/mfd"
	"hamlet/internal/bins"
)

// MFDComparison is the aggregate model-vs-observed MFD table: modeled and
// empirical rates summed over every spatial bin, in both incremental and
// cumulative form, aligned on the shared magnitude bin centers.
type MFDComparison struct {
	Keys        []core.MagKey
	Modeled     []float64
	ModeledCum  []float64
	Observed    []float64
	ObservedCum []float64
}

// runModelMFDComparison sums modeled and empirical MFDs across all bins
// into one global pair for tabular or visual comparison.
func (e *Engine) runModelMFDComparison() error {
	tc := e.cfg.Tests.ModelMFD
	e.log.Info("running model-observed MFD comparison")

	var modTotal, obsTotal *mfd.MFD
	var firstErr error
	e.col.Each(func(cell core.CellID, row *bins.Row) {
		if firstErr != nil {
			return
		}
		binMod := bins.RuptureMFD(row.Bin, false)
		binObs, err := bins.EmpiricalMFD(row.Bin, tc.InvestigationTime, false)
		if err != nil {
			firstErr = err
			return
		}
		if modTotal == nil {
			modTotal, obsTotal = binMod, binObs
			return
		}
		if err := modTotal.AddMFD(binMod); err != nil {
			firstErr = err
			return
		}
		if err := obsTotal.AddMFD(binObs); err != nil {
			firstErr = err
		}
	})
	if firstErr != nil {
		return firstErr
	}
	if modTotal == nil {
		return nil
	}

	e.mfdComp = &MFDComparison{
		Keys:        modTotal.Keys(),
		Modeled:     modTotal.Values(),
		ModeledCum:  modTotal.Cumulative().Values(),
		Observed:    obsTotal.Values(),
		ObservedCum: obsTotal.Cumulative().Values(),
	}
	return nil
}
