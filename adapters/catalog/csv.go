// Package catalog reads pre-binned rupture and earthquake tables. Records
// arrive with their spatial cell already assigned upstream; this package
// only parses and groups them.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"hamlet/domain/core"
	"hamlet/domain/seismicity"
	"hamlet/internal/errors"
	"hamlet/ports"
)

// RuptureFile reads ruptures from a CSV file with a header row. Required
// columns: cell_id, mag, rate. Optional: strike, dip, rake, lon, lat,
// depth, source.
type RuptureFile struct {
	Path string
}

var _ ports.RuptureSource = (*RuptureFile)(nil)

// Ruptures parses the whole file.
func (s *RuptureFile) Ruptures(ctx context.Context) ([]ports.BinnedRupture, error) {
	var out []ports.BinnedRupture
	err := readCSV(ctx, s.Path, []string{"cell_id", "mag", "rate"}, func(get func(string) string) error {
		mag, err := parseFloat(get("mag"), "mag")
		if err != nil {
			return err
		}
		rate, err := parseFloat(get("rate"), "rate")
		if err != nil {
			return err
		}
		r := seismicity.Rupture{
			Mag:            mag,
			OccurrenceRate: rate,
			Source:         get("source"),
		}
		r.Strike, _ = strconv.ParseFloat(get("strike"), 64)
		r.Dip, _ = strconv.ParseFloat(get("dip"), 64)
		r.Rake, _ = strconv.ParseFloat(get("rake"), 64)
		r.Hypocenter.Lon, _ = strconv.ParseFloat(get("lon"), 64)
		r.Hypocenter.Lat, _ = strconv.ParseFloat(get("lat"), 64)
		r.Hypocenter.Depth, _ = strconv.ParseFloat(get("depth"), 64)

		out = append(out, ports.BinnedRupture{
			Cell:    core.CellID(get("cell_id")),
			Rupture: r,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading rupture file %s", s.Path)
	}
	return out, nil
}

// EarthquakeFile reads an earthquake catalog from a CSV file with a header
// row. Required columns: cell_id, mag. Optional: lon, lat, depth, time
// (RFC3339), event_id.
type EarthquakeFile struct {
	Path string
}

var _ ports.CatalogSource = (*EarthquakeFile)(nil)

// Earthquakes parses the whole file.
func (s *EarthquakeFile) Earthquakes(ctx context.Context) ([]ports.BinnedEarthquake, error) {
	var out []ports.BinnedEarthquake
	err := readCSV(ctx, s.Path, []string{"cell_id", "mag"}, func(get func(string) string) error {
		mag, err := parseFloat(get("mag"), "mag")
		if err != nil {
			return err
		}
		eq := seismicity.Earthquake{
			Mag:     mag,
			EventID: get("event_id"),
		}
		eq.Location.Lon, _ = strconv.ParseFloat(get("lon"), 64)
		eq.Location.Lat, _ = strconv.ParseFloat(get("lat"), 64)
		eq.Location.Depth, _ = strconv.ParseFloat(get("depth"), 64)
		if ts := get("time"); ts != "" {
			t, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				return errors.InvalidInput(fmt.Sprintf("bad time %q: %v", ts, err))
			}
			eq.Time = t
		}

		out = append(out, ports.BinnedEarthquake{
			Cell:       core.CellID(get("cell_id")),
			Earthquake: eq,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog file %s", s.Path)
	}
	return out, nil
}

// readCSV iterates a header-addressed CSV file, calling fn once per record
// with a column accessor. Missing required columns fail immediately.
func readCSV(ctx context.Context, path string, required []string, fn func(get func(string) string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return errors.Wrap(err, "reading header")
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	for _, name := range required {
		if _, ok := colIdx[name]; !ok {
			return errors.InvalidInput("missing required column: " + name)
		}
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line++
		get := func(name string) string {
			if i, ok := colIdx[name]; ok && i < len(rec) {
				return rec[i]
			}
			return ""
		}
		if err := fn(get); err != nil {
			return errors.Wrapf(err, "record at line %d", line)
		}
	}
}

func parseFloat(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.InvalidInput(fmt.Sprintf("bad %s value %q", field, s))
	}
	return v, nil
}
