// Package export writes evaluation outputs as delimited or spreadsheet
// tables.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"hamlet/domain/core"
	"hamlet/internal/bins"
	"hamlet/internal/engine"
	"hamlet/internal/errors"
)

// WriteBinTable writes the per-bin score columns as CSV: one row per
// spatial cell in collection order.
func WriteBinTable(path string, col *bins.Collection) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating bin table file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"cell_id", "log_like", "max_mag_exceeded"}); err != nil {
		return errors.Wrap(err, "writing bin table header")
	}

	var writeErr error
	col.Each(func(cell core.CellID, row *bins.Row) {
		if writeErr != nil {
			return
		}
		logLike := ""
		if row.HasLogLike {
			logLike = strconv.FormatFloat(row.LogLike, 'g', -1, 64)
		}
		maxMag := ""
		if row.HasMaxMagCheck {
			maxMag = strconv.FormatBool(row.MaxMagExceeded)
		}
		writeErr = w.Write([]string{string(cell), logLike, maxMag})
	})
	if writeErr != nil {
		return errors.Wrap(writeErr, "writing bin table row")
	}

	w.Flush()
	return errors.Wrap(w.Error(), "flushing bin table")
}

// WriteMFDComparison writes the aggregate model-vs-observed MFD table,
// dispatching on the file extension. Unknown formats are an error, never
// silently coerced.
func WriteMFDComparison(path string, comp *engine.MFDComparison) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeMFDComparisonCSV(path, comp)
	case ".xlsx":
		return writeMFDComparisonXLSX(path, comp)
	}
	return errors.UnknownFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

var mfdHeader = []string{"bin", "mod_mfd", "mod_mfd_cum", "obs_mfd", "obs_mfd_cum"}

func writeMFDComparisonCSV(path string, comp *engine.MFDComparison) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating MFD comparison file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(mfdHeader); err != nil {
		return errors.Wrap(err, "writing MFD comparison header")
	}
	for i, key := range comp.Keys {
		rec := []string{
			key.String(),
			strconv.FormatFloat(comp.Modeled[i], 'g', -1, 64),
			strconv.FormatFloat(comp.ModeledCum[i], 'g', -1, 64),
			strconv.FormatFloat(comp.Observed[i], 'g', -1, 64),
			strconv.FormatFloat(comp.ObservedCum[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return errors.Wrap(err, "writing MFD comparison row")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flushing MFD comparison")
}

func writeMFDComparisonXLSX(path string, comp *engine.MFDComparison) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, h := range mfdHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, key := range comp.Keys {
		rowNum := i + 2
		values := []interface{}{
			key.Mag(), comp.Modeled[i], comp.ModeledCum[i], comp.Observed[i], comp.ObservedCum[i],
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, fmt.Sprintf("saving MFD comparison to %s", path))
	}
	return nil
}
