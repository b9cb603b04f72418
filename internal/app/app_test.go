package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttcli/internal/dashboard"
	"ttcli/internal/prizes"
	"ttcli/internal/stations"
)

const testMetaCSV = `station,station_name,lat,lng
aber,Aberporth,52.139,-4.570
lerw,Lerwick,60.139,-1.183
oxfd,Oxford,51.761,-1.262
`

const testMonthlyCSV = `station,year,month,tmax,tmin,af,rain,sun
aber,2000,1,8.1,3.2,2,95.0,50.1
aber,2000,2,8.4,3.0,1,70.2,80.5
lerw,2000,1,5.6,1.4,5,120.3,20.0
lerw,2000,2,5.2,1.0,6,90.8,40.2
oxfd,2000,1,7.9,2.1,4,60.1,55.0
oxfd,2000,2,8.8,2.4,2,45.9,70.3
`

const testPrizeCSV = `prize_name,year_award
Booker Prize,2001
Booker Prize,2002
Costa Book Award,2003
`

func testDatasets(t *testing.T) *Datasets {
	t.Helper()
	stationDS, err := stations.Load([]byte(testMetaCSV), []byte(testMonthlyCSV))
	require.NoError(t, err)
	prizeDS, err := prizes.Load([]byte(testPrizeCSV))
	require.NoError(t, err)
	return &Datasets{Stations: stationDS, Prizes: prizeDS}
}

func TestBoards(t *testing.T) {
	boards := Boards(testDatasets(t))
	require.Len(t, boards, 2)

	assert.Equal(t, "stations", boards[0].Name)
	assert.Equal(t, "prizes", boards[1].Name)
	assert.Contains(t, boards[0].Actions, "select_random")
	assert.Contains(t, boards[0].Actions, "clear_selection")
	assert.Empty(t, boards[1].Actions)
}

func TestBoards_SelectRandomAction(t *testing.T) {
	ds := testDatasets(t)
	boards := Boards(ds)
	station := boards[0]

	session := dashboard.NewSession(station.Registry, station.Defaults)
	session.ComputeAll()

	updates := station.Actions["select_random"](session)
	require.NotEmpty(t, updates)

	// The action changes the time series selection, so only the
	// timeseries panel recomputes.
	for _, u := range updates {
		assert.Equal(t, "timeseries", u.Output)
		assert.Empty(t, u.Error)
	}

	picked, ok := session.Input("ts_stations")
	require.True(t, ok)
	ids, isStrings := picked.([]string)
	require.True(t, isStrings)
	assert.NotEmpty(t, ids)
	assert.LessOrEqual(t, len(ids), randomSelectionSize)
}

func TestBoards_ClearSelectionAction(t *testing.T) {
	ds := testDatasets(t)
	boards := Boards(ds)
	station := boards[0]

	session := dashboard.NewSession(station.Registry, station.Defaults)
	session.ComputeAll()

	updates := station.Actions["clear_selection"](session)
	require.NotEmpty(t, updates)

	picked, ok := session.Input("ts_stations")
	require.True(t, ok)
	assert.Empty(t, picked)

	// An empty selection surfaces as a panel error prompting the user
	// to pick stations.
	require.Len(t, updates, 1)
	assert.Equal(t, "timeseries", updates[0].Output)
	assert.Contains(t, updates[0].Error, "no stations selected")
}

func TestBoards_PrizeBoardComputes(t *testing.T) {
	boards := Boards(testDatasets(t))
	prize := boards[1]

	session := dashboard.NewSession(prize.Registry, prize.Defaults)
	updates := session.ComputeAll()
	require.Len(t, updates, len(prize.Registry.Outputs()))
	for _, u := range updates {
		assert.Empty(t, u.Error)
	}
}
