package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttcli/internal/prizes"
	"ttcli/internal/stations"
)

const panelMetaCSV = `station,station_name,lat,lng
aber,Aberporth,52.139,-4.570
lerw,Lerwick,60.139,-1.183
`

const panelMonthlyCSV = `station,year,month,tmax,tmin,af,rain,sun
aber,2000,1,8.0,3.0,2,100.0,50.0
aber,2001,1,9.0,4.0,1,80.0,60.0
lerw,2000,1,5.0,1.0,5,90.0,20.0
lerw,2001,1,6.0,2.0,4,70.0,25.0
`

const panelPrizesCSV = `prize_name,year_award
Booker Prize,1969
Booker Prize,1970
Costa Book Award,1971
`

func stationTestRegistry(t *testing.T) (*Registry, Inputs) {
	t.Helper()
	ds, err := stations.Load([]byte(panelMetaCSV), []byte(panelMonthlyCSV))
	require.NoError(t, err)
	return StationRegistry(ds), StationDefaults(ds)
}

func TestStationRegistry_AllOutputsCompute(t *testing.T) {
	registry, defaults := stationTestRegistry(t)
	s := NewSession(registry, defaults)

	for _, update := range s.ComputeAll() {
		assert.Empty(t, update.Error, "output %s", update.Output)
		assert.NotNil(t, update.Data, "output %s", update.Output)
	}
}

func TestStationDefaults(t *testing.T) {
	ds, err := stations.Load([]byte(panelMetaCSV), []byte(panelMonthlyCSV))
	require.NoError(t, err)

	defaults := StationDefaults(ds)
	year, ok := defaults.Int("map_year")
	assert.True(t, ok)
	assert.Equal(t, 2001, year)

	selection, ok := defaults.Strings("ts_stations")
	assert.True(t, ok)
	assert.Equal(t, []string{"aber", "lerw"}, selection)
}

func TestStationRegistry_MapYearChange(t *testing.T) {
	registry, defaults := stationTestRegistry(t)
	s := NewSession(registry, defaults)

	updates := s.Set("map_year", 2000)
	require.Len(t, updates, 2)
	assert.Equal(t, "weather_map", updates[0].Output)
	assert.Equal(t, "map_stats", updates[1].Output)

	md, ok := updates[0].Data.(stations.MapData)
	require.True(t, ok)
	assert.Equal(t, 2000, md.Year)
	assert.Len(t, md.Points, 2)
}

func TestStationRegistry_InvalidMetricSurfacesError(t *testing.T) {
	registry, defaults := stationTestRegistry(t)
	s := NewSession(registry, defaults)

	updates := s.Set("trend_metric", "bogus")
	require.Len(t, updates, 2)
	for _, update := range updates {
		assert.Contains(t, update.Error, "bogus")
	}
}

func TestStationRegistry_Overview(t *testing.T) {
	registry, defaults := stationTestRegistry(t)
	s := NewSession(registry, defaults)

	data, err := registry.Compute("overview", defaults)
	require.NoError(t, err)
	overview, ok := data.(StationOverview)
	require.True(t, ok)
	assert.Equal(t, 2, overview.StationCount)
	assert.Equal(t, 2000, overview.FirstYear)
	assert.Equal(t, 2001, overview.LastYear)
	assert.Len(t, overview.Metrics, 5)

	// overview declares no inputs, so no control change recomputes it
	assert.Empty(t, s.Set("map_metric", "rain")[0].Error)
	for _, update := range s.Set("map_metric", "sun") {
		assert.NotEqual(t, "overview", update.Output)
	}
}

func TestPrizeRegistry(t *testing.T) {
	ds, err := prizes.Load([]byte(panelPrizesCSV))
	require.NoError(t, err)

	registry := PrizeRegistry(ds)
	s := NewSession(registry, PrizeDefaults())

	updates := s.ComputeAll()
	require.Len(t, updates, 3)
	for _, update := range updates {
		assert.Empty(t, update.Error)
	}

	updates = s.Set("prize_selection", []interface{}{"Booker Prize"})
	require.Len(t, updates, 1)
	assert.Equal(t, "awards_by_decade", updates[0].Output)
	decades, ok := updates[0].Data.([]prizes.DecadeCount)
	require.True(t, ok)
	assert.Equal(t, []prizes.DecadeCount{{Decade: 1960, Count: 1}, {Decade: 1970, Count: 1}}, decades)
}
