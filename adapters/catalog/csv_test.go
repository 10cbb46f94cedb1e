package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamlet/adapters/catalog"
	"hamlet/domain/core"
	"hamlet/internal/testkit"
	"hamlet/ports"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRuptureFile(t *testing.T) {
	path := writeFile(t, "ruptures.csv", `cell_id,mag,rate,strike,dip,rake,lon,lat,depth,source
c1,6.5,0.01,30,90,0,10.1,45.2,12,fault-a
c1,7.1,0.002,,,,,,,
c2,6.1,0.05,,,,,,,
`)

	src := &catalog.RuptureFile{Path: path}
	rups, err := src.Ruptures(context.Background())
	require.NoError(t, err)
	require.Len(t, rups, 3)

	assert.Equal(t, core.CellID("c1"), rups[0].Cell)
	assert.Equal(t, 6.5, rups[0].Rupture.Mag)
	assert.Equal(t, 0.01, rups[0].Rupture.OccurrenceRate)
	assert.Equal(t, 30.0, rups[0].Rupture.Strike)
	assert.Equal(t, "fault-a", rups[0].Rupture.Source)

	// Optional columns default to zero values.
	assert.Zero(t, rups[1].Rupture.Dip)
	assert.Equal(t, core.CellID("c2"), rups[2].Cell)
}

func TestRuptureFile_MissingColumn(t *testing.T) {
	path := writeFile(t, "ruptures.csv", "cell_id,mag\nc1,6.5\n")

	_, err := (&catalog.RuptureFile{Path: path}).Ruptures(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: rate")
}

func TestRuptureFile_BadValue(t *testing.T) {
	path := writeFile(t, "ruptures.csv", "cell_id,mag,rate\nc1,6.5,0.01\nc1,big,0.01\n")

	_, err := (&catalog.RuptureFile{Path: path}).Ruptures(context.Background())
	require.Error(t, err)
	// The error points at the offending line.
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), `bad mag value "big"`)
}

func TestEarthquakeFile(t *testing.T) {
	path := writeFile(t, "catalog.csv", `cell_id,mag,lon,lat,depth,time,event_id
c1,6.2,10.1,45.2,8,2015-04-25T06:11:25Z,ev-001
c2,7.8,,,,,
`)

	src := &catalog.EarthquakeFile{Path: path}
	eqs, err := src.Earthquakes(context.Background())
	require.NoError(t, err)
	require.Len(t, eqs, 2)

	assert.Equal(t, core.CellID("c1"), eqs[0].Cell)
	assert.Equal(t, 6.2, eqs[0].Earthquake.Mag)
	assert.Equal(t, "ev-001", eqs[0].Earthquake.EventID)
	assert.Equal(t, time.Date(2015, 4, 25, 6, 11, 25, 0, time.UTC), eqs[0].Earthquake.Time)

	assert.True(t, eqs[1].Earthquake.Time.IsZero())
}

func TestEarthquakeFile_BadTime(t *testing.T) {
	path := writeFile(t, "catalog.csv", "cell_id,mag,time\nc1,6.2,25/04/2015\n")

	_, err := (&catalog.EarthquakeFile{Path: path}).Earthquakes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad time")
}

func TestReadCanceledContext(t *testing.T) {
	path := writeFile(t, "ruptures.csv", "cell_id,mag,rate\nc1,6.5,0.01\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&catalog.RuptureFile{Path: path}).Ruptures(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembleBins(t *testing.T) {
	binning := testkit.Binning()
	ruptures := []ports.BinnedRupture{
		{Cell: "c1", Rupture: testkit.Rupture(6.5, 0.01)},
		{Cell: "c1", Rupture: testkit.Rupture(7.1, 0.002)},
		{Cell: "c2", Rupture: testkit.Rupture(6.1, 0.05)},
		// Out of range, dropped without failing the run.
		{Cell: "c2", Rupture: testkit.Rupture(5.0, 1.0)},
	}
	observed := []ports.BinnedEarthquake{
		{Cell: "c1", Earthquake: testkit.Quake(6.7)},
		{Cell: "c3", Earthquake: testkit.Quake(6.0)},
	}
	prospective := []ports.BinnedEarthquake{
		{Cell: "c1", Earthquake: testkit.Quake(7.0)},
	}

	col, err := catalog.AssembleBins(binning, ruptures, observed, prospective, nil)
	require.NoError(t, err)

	// One bin per distinct cell, in first-seen order.
	assert.Equal(t, []core.CellID{"c1", "c2", "c3"}, col.Cells())

	c1, _ := col.Get("c1")
	assert.Equal(t, 2, c1.Bin.NumRuptures())
	assert.Equal(t, 1, c1.Bin.NumObserved())
	assert.Len(t, c1.Bin.Prospective[core.KeyForMag(7.0)], 1)

	c2, _ := col.Get("c2")
	assert.Equal(t, 1, c2.Bin.NumRuptures())

	c3, _ := col.Get("c3")
	assert.Equal(t, 0, c3.Bin.NumRuptures())
	assert.Equal(t, 1, c3.Bin.NumObserved())
}
