package frogs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testObsCSV = `scientificName,decimalLatitude,decimalLongitude,eventDate,stateProvince
Litoria fallax,-27.5,153.0,2023-01-15,Queensland
Litoria fallax,-27.6,153.1,2023-02-10,Queensland
Litoria fallax,-28.0,153.2,2023-07-01,New South Wales
Crinia signifera,-35.3,149.1,2023-04-20,Australian Capital Territory
Crinia signifera,-35.4,149.2,,Australian Capital Territory
Uperoleia mahonyi,-32.7,152.1,2023-10-05,New South Wales
Uperoleia mahonyi,-32.8,152.0,2023-11-12,New South Wales
Uperoleia mahonyi,-32.9,152.2,2023-09-30,New South Wales
Litoria fallax,,153.0,2023-03-01,Queensland
`

const testNamesCSV = `scientificName,commonName,subfamily
Litoria fallax,Eastern Dwarf Tree Frog,Pelodryadinae
Crinia signifera,Common Eastern Froglet,Myobatrachinae
Uperoleia mahonyi,Mahony's Toadlet,Myobatrachinae
`

func loadTestDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Load([]byte(testObsCSV), []byte(testNamesCSV))
	require.NoError(t, err)
	return ds
}

func TestLoad_MergesAndDropsMissingCoordinates(t *testing.T) {
	ds := loadTestDataset(t)

	assert.Equal(t, 9, ds.LoadedRecords)
	assert.Equal(t, 3, ds.NameRecords)
	// one row has no latitude and is dropped
	assert.Len(t, ds.Observations, 8)

	for _, o := range ds.Observations {
		if o.ScientificName == "Litoria fallax" {
			assert.Equal(t, "Eastern Dwarf Tree Frog", o.CommonName)
			assert.Equal(t, "Pelodryadinae", o.Subfamily)
		}
	}
}

func TestLoad_DerivesMonthAndSeason(t *testing.T) {
	ds := loadTestDataset(t)

	byDate := make(map[string]Observation)
	for _, o := range ds.Observations {
		if !o.EventDate.IsZero() {
			byDate[o.EventDate.Format("2006-01-02")] = o
		}
	}

	jan := byDate["2023-01-15"]
	assert.Equal(t, 1, jan.Month)
	assert.Equal(t, "Summer", jan.Season)

	jul := byDate["2023-07-01"]
	assert.Equal(t, "Winter", jul.Season)

	oct := byDate["2023-10-05"]
	assert.Equal(t, "Spring", oct.Season)

	// the undated Crinia row keeps coordinates but gets no season
	var undated int
	for _, o := range ds.Observations {
		if o.EventDate.IsZero() {
			undated++
			assert.Equal(t, 0, o.Month)
			assert.Equal(t, "Unknown", o.Season)
		}
	}
	assert.Equal(t, 1, undated)
}

func TestLoad_MissingColumn(t *testing.T) {
	_, err := Load([]byte("scientificName,foo\nLitoria fallax,1\n"), []byte(testNamesCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimalLatitude")
}

func TestSeasonForMonth(t *testing.T) {
	expected := map[int]string{
		1: "Summer", 2: "Summer", 12: "Summer",
		3: "Autumn", 4: "Autumn", 5: "Autumn",
		6: "Winter", 7: "Winter", 8: "Winter",
		9: "Spring", 10: "Spring", 11: "Spring",
	}
	for month, season := range expected {
		assert.Equal(t, season, SeasonForMonth(month), "month %d", month)
	}
	assert.Equal(t, "Unknown", SeasonForMonth(0))
	assert.Equal(t, "Unknown", SeasonForMonth(13))
}

func TestParseEventDate(t *testing.T) {
	got, ok := parseEventDate("2023-01-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), got)

	_, ok = parseEventDate("15/01/2023")
	assert.False(t, ok)
}

func TestCenter(t *testing.T) {
	ds := &Dataset{Observations: []Observation{
		{Lat: -30, Lon: 150},
		{Lat: -40, Lon: 152},
	}}
	lat, lon := ds.Center()
	assert.InDelta(t, -35, lat, 1e-9)
	assert.InDelta(t, 151, lon, 1e-9)
}
