package export_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamlet/adapters/export"
	"hamlet/domain/core"
	"hamlet/internal/engine"
	"hamlet/internal/testkit"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteBinTable(t *testing.T) {
	col := testkit.Collection(
		testkit.Bin("a", map[float64]float64{6.0: 0.1}),
		testkit.Bin("b", nil),
	)
	require.NoError(t, col.SetLogLike("a", -2.5))
	require.NoError(t, col.SetMaxMagExceeded("a", true))

	path := filepath.Join(t.TempDir(), "bins.csv")
	require.NoError(t, export.WriteBinTable(path, col))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"cell_id", "log_like", "max_mag_exceeded"}, records[0])
	assert.Equal(t, []string{"a", "-2.5", "true"}, records[1])
	// Unscored rows stay blank rather than carrying a fake zero.
	assert.Equal(t, []string{"b", "", ""}, records[2])
}

func mfdFixture() *engine.MFDComparison {
	return &engine.MFDComparison{
		Keys:        []core.MagKey{60, 62},
		Modeled:     []float64{0.8, 0.1},
		ModeledCum:  []float64{0.9, 0.1},
		Observed:    []float64{0.05, 0.025},
		ObservedCum: []float64{0.075, 0.025},
	}
}

func TestWriteMFDComparison_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfd.csv")
	require.NoError(t, export.WriteMFDComparison(path, mfdFixture()))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"bin", "mod_mfd", "mod_mfd_cum", "obs_mfd", "obs_mfd_cum"}, records[0])
	assert.Equal(t, []string{"6.0", "0.8", "0.9", "0.05", "0.075"}, records[1])
	assert.Equal(t, []string{"6.2", "0.1", "0.1", "0.025", "0.025"}, records[2])
}

func TestWriteMFDComparison_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfd.xlsx")
	require.NoError(t, export.WriteMFDComparison(path, mfdFixture()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteMFDComparison_UnknownFormat(t *testing.T) {
	err := export.WriteMFDComparison(filepath.Join(t.TempDir(), "mfd.parquet"), mfdFixture())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet")
}
