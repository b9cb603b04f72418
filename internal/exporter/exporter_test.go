package exporter

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ttcli/internal/config"
	"ttcli/internal/prizes"
	"ttcli/internal/stations"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths := config.PathsFrom(t.TempDir(), config.PathsConfig{})
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const exporterMetaCSV = `station,station_name,lat,lng
aber,Aberporth,52.139,-4.570
lerw,Lerwick,60.139,-1.183
`

const exporterMonthlyCSV = `station,year,month,tmax,tmin,af,rain,sun
aber,2000,1,8.0,3.0,2,100.0,50.0
aber,2001,1,9.0,4.0,1,80.0,60.0
lerw,2000,1,5.0,1.0,5,90.0,20.0
`

func TestCSVWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")

	w := NewCSVWriter(testLogger())
	err := w.WriteCSV(path, WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}, {"3", "4"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFa,b\n1,2\n3,4\n", string(data))
}

func TestStationExporter_AnnualCSV(t *testing.T) {
	ds, err := stations.Load([]byte(exporterMetaCSV), []byte(exporterMonthlyCSV))
	require.NoError(t, err)

	paths := testPaths(t)
	e := NewStationExporter(paths, testLogger())
	require.NoError(t, e.ExportAnnualCSV(ds))

	data, err := os.ReadFile(paths.StationAnnualCSV)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "station,station_name,year,region,tmax,tmin,rain,sun,af")
	assert.Contains(t, content, "aber,Aberporth,2000,Midlands,8.0,3.0,100.0,50.0,2.0")
	assert.Contains(t, content, "lerw,Lerwick,2000,Scotland (North)")
}

func TestStationExporter_SummaryXLSX(t *testing.T) {
	ds, err := stations.Load([]byte(exporterMetaCSV), []byte(exporterMonthlyCSV))
	require.NoError(t, err)

	paths := testPaths(t)
	e := NewStationExporter(paths, testLogger())
	require.NoError(t, e.ExportSummaryXLSX(ds))

	f, err := excelize.OpenFile(paths.StationSummaryXLSX)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Stations", "Annual", "Regional"}, f.GetSheetList())

	rows, err := f.GetRows("Stations")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "aber", rows[1][0])
	assert.Equal(t, "Scotland (North)", rows[2][4])

	rows, err = f.GetRows("Annual")
	require.NoError(t, err)
	// header plus three station-years
	assert.Len(t, rows, 4)

	rows, err = f.GetRows("Regional")
	require.NoError(t, err)
	assert.Greater(t, len(rows), 1)
	assert.Equal(t, []string{"metric", "region", "mean", "std_dev", "min", "max"}, rows[0])
}

func TestPrizeExporter_NamesCSV(t *testing.T) {
	ds, err := prizes.Load([]byte("prize_name,year_award\nBooker Prize,1969\nBooker Prize,1970\nCosta Book Award,1971\n"))
	require.NoError(t, err)

	paths := testPaths(t)
	e := NewPrizeExporter(paths, testLogger())
	require.NoError(t, e.ExportNamesCSV(ds))

	data, err := os.ReadFile(paths.PrizeNamesCSV)
	require.NoError(t, err)
	assert.Equal(t, "prize_name,awards\nBooker Prize,2\nCosta Book Award,1\n", string(data))
}
