package frogs

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func obs(name, common, state string, lat, lon float64, when time.Time) Observation {
	o := Observation{
		ScientificName: name,
		CommonName:     common,
		State:          state,
		Lat:            lat,
		Lon:            lon,
	}
	if !when.IsZero() {
		o.EventDate = when
		o.Month = int(when.Month())
	}
	o.Season = SeasonForMonth(o.Month)
	return o
}

func TestSummarize(t *testing.T) {
	ds := &Dataset{Observations: []Observation{
		obs("A", "Frog A", "Queensland", -27, 153, date(2022, 1, 1)),
		obs("A", "Frog A", "Queensland", -27, 153, date(2023, 6, 30)),
		obs("B", "Frog B", "Victoria", -37, 145, date(2023, 3, 15)),
	}}
	ds.Observations[0].Subfamily = "Pelodryadinae"
	ds.Observations[2].Subfamily = "Myobatrachinae"

	s := Summarize(ds)
	assert.Equal(t, 3, s.TotalRecords)
	assert.Equal(t, 2, s.SpeciesCount)
	assert.Equal(t, 2, s.SubfamilyCount)

	require.Len(t, s.TopSpecies, 2)
	assert.Equal(t, SpeciesCount{"A", "Frog A", 2}, s.TopSpecies[0])
	assert.Equal(t, SpeciesCount{"B", "Frog B", 1}, s.TopSpecies[1])

	require.Len(t, s.TopStates, 2)
	assert.Equal(t, StateCount{"Queensland", 2}, s.TopStates[0])

	assert.Equal(t, date(2022, 1, 1), s.FirstDate)
	assert.Equal(t, date(2023, 6, 30), s.LastDate)
}

func TestSummarize_TiesBreakByName(t *testing.T) {
	ds := &Dataset{Observations: []Observation{
		obs("B", "", "X", 0, 0, time.Time{}),
		obs("A", "", "Y", 0, 0, time.Time{}),
	}}
	s := Summarize(ds)
	require.Len(t, s.TopSpecies, 2)
	assert.Equal(t, "A", s.TopSpecies[0].ScientificName)
	assert.Equal(t, "Unknown", s.TopSpecies[0].CommonName)
}

func TestEndemism(t *testing.T) {
	ds := &Dataset{Observations: []Observation{
		// single state, 3 records: endemic
		obs("A", "Frog A", "Queensland", -27, 153, time.Time{}),
		obs("A", "Frog A", "Queensland", -27, 153, time.Time{}),
		obs("A", "Frog A", "Queensland", -27, 153, time.Time{}),
		// single state but only 2 records: below the floor
		obs("B", "Frog B", "Queensland", -27, 153, time.Time{}),
		obs("B", "Frog B", "Queensland", -27, 153, time.Time{}),
		// 3 records spread over two states: not endemic
		obs("C", "Frog C", "Queensland", -27, 153, time.Time{}),
		obs("C", "Frog C", "Victoria", -37, 145, time.Time{}),
		obs("C", "Frog C", "Victoria", -37, 145, time.Time{}),
	}}

	endemic := Endemism(ds)
	require.Len(t, endemic, 1)
	require.Len(t, endemic["Queensland"], 1)
	assert.Equal(t, EndemicSpecies{"A", "Frog A", 3}, endemic["Queensland"][0])
}

func TestCallingSeasons(t *testing.T) {
	ds := &Dataset{Observations: []Observation{
		obs("A", "Frog A", "Queensland", -27, 153, date(2023, 1, 1)),
		obs("A", "Frog A", "Queensland", -27, 153, date(2023, 1, 2)),
		obs("A", "Frog A", "Queensland", -27, 153, date(2023, 12, 3)),
		obs("A", "Frog A", "Queensland", -27, 153, date(2023, 7, 4)),
		obs("A", "Frog A", "Queensland", -27, 153, date(2023, 7, 5)),
		obs("A", "Frog A", "Queensland", -27, 153, date(2023, 7, 6)),
		// undated records never count toward the floor
		obs("A", "Frog A", "Queensland", -27, 153, time.Time{}),
		// only 2 dated records: excluded
		obs("B", "Frog B", "Victoria", -37, 145, date(2023, 4, 1)),
		obs("B", "Frog B", "Victoria", -37, 145, date(2023, 4, 2)),
	}}

	prefs := CallingSeasons(ds)
	require.Len(t, prefs, 1)

	pref := prefs[0]
	assert.Equal(t, "A", pref.ScientificName)
	assert.Equal(t, 6, pref.TotalRecords)
	assert.Equal(t, "Summer", pref.PeakSeason)
	assert.InDelta(t, 50.0, pref.SeasonPercent["Summer"], 1e-9)
	assert.InDelta(t, 50.0, pref.SeasonPercent["Winter"], 1e-9)
	assert.InDelta(t, 0.0, pref.SeasonPercent["Spring"], 1e-9)
}

func TestCallingSeasons_Rounding(t *testing.T) {
	var observations []Observation
	// 2 summer + 4 winter gives 33.3% / 66.7%
	observations = append(observations,
		obs("A", "", "", 0, 0, date(2023, 1, 1)),
		obs("A", "", "", 0, 0, date(2023, 1, 2)),
	)
	for d := 1; d <= 4; d++ {
		observations = append(observations, obs("A", "", "", 0, 0, date(2023, 6, d)))
	}

	prefs := CallingSeasons(&Dataset{Observations: observations})
	require.Len(t, prefs, 1)
	assert.InDelta(t, 33.3, prefs[0].SeasonPercent["Summer"], 1e-9)
	assert.InDelta(t, 66.7, prefs[0].SeasonPercent["Winter"], 1e-9)
}

func TestGeographicRanges(t *testing.T) {
	ds := &Dataset{Observations: []Observation{
		obs("A", "Frog A", "Queensland", -27, 153, time.Time{}),
		obs("A", "Frog A", "New South Wales", -29, 151, time.Time{}),
		obs("B", "Frog B", "Victoria", -37, 145, time.Time{}),
	}}

	metrics := GeographicRanges(ds)
	require.Len(t, metrics, 2)

	a := metrics[0]
	assert.Equal(t, "A", a.ScientificName)
	assert.InDelta(t, 2.0, a.LatRange, 1e-9)
	assert.InDelta(t, 2.0, a.LonRange, 1e-9)
	assert.InDelta(t, 2*2*111*111, a.AreaKM2, 1e-6)
	assert.Equal(t, 2, a.NumStates)
	assert.Equal(t, 2, a.Records)

	b := metrics[1]
	assert.Zero(t, b.AreaKM2)
	assert.Equal(t, 1, b.Records)
}

func TestWidestAndRarest(t *testing.T) {
	metrics := []RangeMetrics{
		{ScientificName: "A", AreaKM2: 100, Records: 10},
		{ScientificName: "B", AreaKM2: 300, Records: 2},
		{ScientificName: "C", AreaKM2: 200, Records: 5},
	}

	widest := WidestRanges(metrics, 2)
	require.Len(t, widest, 2)
	assert.Equal(t, "B", widest[0].ScientificName)
	assert.Equal(t, "C", widest[1].ScientificName)

	rarest := RarestSpecies(metrics, 2)
	require.Len(t, rarest, 2)
	assert.Equal(t, "B", rarest[0].ScientificName)
	assert.Equal(t, "C", rarest[1].ScientificName)

	// input order is untouched
	assert.Equal(t, "A", metrics[0].ScientificName)
}

func TestWriteReports(t *testing.T) {
	ds := loadTestDataset(t)

	var buf bytes.Buffer
	WriteSummary(&buf, Summarize(ds))
	out := buf.String()
	assert.Contains(t, out, "FROG SPECIES SUMMARY")
	assert.Contains(t, out, "Total number of records: 8")
	assert.Contains(t, out, "Eastern Dwarf Tree Frog")

	buf.Reset()
	WriteEndemism(&buf, Endemism(ds))
	assert.Contains(t, buf.String(), "ENDEMISM ANALYSIS")
	assert.Contains(t, buf.String(), "Mahony's Toadlet")

	buf.Reset()
	WriteGeographicRanges(&buf, GeographicRanges(ds))
	assert.Contains(t, buf.String(), "GEOGRAPHIC RANGE ANALYSIS")
	assert.Contains(t, buf.String(), "RAREST species")
}
