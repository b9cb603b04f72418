// Package quakes parses the Vesuvius seismic event catalog and renders the
// hourly distribution and depth/magnitude charts.
package quakes

import (
	"fmt"
	"time"

	"ttcli/internal/dataset"
)

// Event is one cataloged seismic event. Depth and magnitude are NaN-free:
// HasDepth/HasMagnitude flag whether the catalog row carried them.
type Event struct {
	Time    time.Time
	Year    int
	Month   int
	Day     int
	Hour    int
	Weekday string

	DepthKM      float64
	Magnitude    float64
	HasDepth     bool
	HasMagnitude bool
}

// Dataset holds the parsed event catalog
type Dataset struct {
	Events []Event

	// LoadedRecords is the catalog row count before dropping undated rows
	LoadedRecords int
}

// timeLayouts are tried in order for the time column
var timeLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z",
}

// Load parses the catalog CSV. Rows without a parseable timestamp are
// dropped; depth and magnitude stay optional per event.
func Load(csvData []byte) (*Dataset, error) {
	df, err := dataset.ReadFrame(csvData)
	if err != nil {
		return nil, fmt.Errorf("load event catalog: %w", err)
	}

	cols := make(map[string]int, len(df.Names()))
	for i, name := range df.Names() {
		cols[name] = i
	}
	timeIdx, ok := cols["time"]
	if !ok {
		return nil, fmt.Errorf("event catalog is missing column %q", "time")
	}

	ds := &Dataset{LoadedRecords: df.Nrow()}

	for row := 0; row < df.Nrow(); row++ {
		elem := df.Elem(row, timeIdx)
		if elem.IsNA() {
			continue
		}
		t, ok := parseEventTime(elem.String())
		if !ok {
			continue
		}

		ev := Event{
			Time:    t,
			Year:    t.Year(),
			Month:   int(t.Month()),
			Day:     t.Day(),
			Hour:    t.Hour(),
			Weekday: t.Weekday().String(),
		}

		if idx, ok := cols["depth_km"]; ok {
			if e := df.Elem(row, idx); !e.IsNA() {
				ev.DepthKM = e.Float()
				ev.HasDepth = true
			}
		}
		if idx, ok := cols["duration_magnitude_md"]; ok {
			if e := df.Elem(row, idx); !e.IsNA() {
				ev.Magnitude = e.Float()
				ev.HasMagnitude = true
			}
		}

		ds.Events = append(ds.Events, ev)
	}

	return ds, nil
}

func parseEventTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// HourlyCounts returns event counts indexed by hour of day
func (d *Dataset) HourlyCounts() [24]int {
	var counts [24]int
	for _, ev := range d.Events {
		counts[ev.Hour]++
	}
	return counts
}

// DateRange returns the earliest and latest event times
func (d *Dataset) DateRange() (first, last time.Time) {
	for _, ev := range d.Events {
		if first.IsZero() || ev.Time.Before(first) {
			first = ev.Time
		}
		if ev.Time.After(last) {
			last = ev.Time
		}
	}
	return first, last
}
