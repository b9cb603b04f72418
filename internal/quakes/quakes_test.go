package quakes

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogCSV = `event_id,time,depth_km,duration_magnitude_md
1,2024-03-01T02:15:00Z,1.2,0.8
2,2024-03-01T02:45:00Z,2.5,1.1
3,2024-03-02T14:10:00Z,0.4,
4,2024-03-03T23:59:59Z,,0.3
5,not-a-time,1.0,1.0
`

func loadTestCatalog(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Load([]byte(testCatalogCSV))
	require.NoError(t, err)
	return ds
}

func TestLoad_ParsesTimestampsAndDerivedFields(t *testing.T) {
	ds := loadTestCatalog(t)

	assert.Equal(t, 5, ds.LoadedRecords)
	// the unparseable-timestamp row is dropped
	require.Len(t, ds.Events, 4)

	ev := ds.Events[0]
	assert.Equal(t, time.Date(2024, 3, 1, 2, 15, 0, 0, time.UTC), ev.Time)
	assert.Equal(t, 2024, ev.Year)
	assert.Equal(t, 3, ev.Month)
	assert.Equal(t, 1, ev.Day)
	assert.Equal(t, 2, ev.Hour)
	assert.Equal(t, "Friday", ev.Weekday)
}

func TestLoad_OptionalDepthAndMagnitude(t *testing.T) {
	ds := loadTestCatalog(t)

	assert.True(t, ds.Events[0].HasDepth)
	assert.True(t, ds.Events[0].HasMagnitude)
	assert.InDelta(t, 1.2, ds.Events[0].DepthKM, 1e-9)

	assert.True(t, ds.Events[2].HasDepth)
	assert.False(t, ds.Events[2].HasMagnitude)

	assert.False(t, ds.Events[3].HasDepth)
	assert.True(t, ds.Events[3].HasMagnitude)
}

func TestLoad_MissingTimeColumn(t *testing.T) {
	_, err := Load([]byte("event_id,depth_km\n1,2.0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"time"`)
}

func TestHourlyCounts(t *testing.T) {
	ds := loadTestCatalog(t)
	counts := ds.HourlyCounts()

	assert.Equal(t, 2, counts[2])
	assert.Equal(t, 1, counts[14])
	assert.Equal(t, 1, counts[23])
	assert.Equal(t, 0, counts[0])
}

func TestDateRange(t *testing.T) {
	ds := loadTestCatalog(t)
	first, last := ds.DateRange()
	assert.Equal(t, time.Date(2024, 3, 1, 2, 15, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 3, 3, 23, 59, 59, 0, time.UTC), last)
}

func TestRenderCharts(t *testing.T) {
	ds := loadTestCatalog(t)

	var buf bytes.Buffer
	require.NoError(t, RenderHourlyChart(ds, &buf))
	assert.Equal(t, "\x89PNG", buf.String()[:4])

	buf.Reset()
	require.NoError(t, RenderDepthMagnitudeChart(ds, &buf))
	assert.Equal(t, "\x89PNG", buf.String()[:4])
}

func TestRenderDepthMagnitudeChart_NoUsableEvents(t *testing.T) {
	ds := &Dataset{Events: []Event{{HasDepth: true}}}
	err := RenderDepthMagnitudeChart(ds, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestWriteSummary(t *testing.T) {
	ds := loadTestCatalog(t)

	var buf bytes.Buffer
	WriteSummary(&buf, ds)
	out := buf.String()
	assert.Contains(t, out, "Records loaded: 5")
	assert.Contains(t, out, "Events with timestamps: 4")
	assert.Contains(t, out, "Date range: 2024-03-01 to 2024-03-03")
	assert.Contains(t, out, "02:00  2")
}
