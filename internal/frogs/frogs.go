// Package frogs analyzes citizen-science frog call occurrence records:
// merging observations with the species name table, seasonal bucketing,
// endemism heuristics, geographic range metrics, and the occurrence maps.
package frogs

import (
	"fmt"
	"time"

	"ttcli/internal/dataset"
)

// Observation is one merged occurrence record with coordinates present
type Observation struct {
	ScientificName string
	CommonName     string
	Subfamily      string
	State          string
	Lat            float64
	Lon            float64
	EventDate      time.Time // zero when the record carries no parseable date
	Month          int       // 1..12, 0 when unknown
	Season         string
}

// Dataset holds the merged, cleaned occurrence table
type Dataset struct {
	Observations []Observation

	// LoadedRecords is the occurrence row count before cleaning
	LoadedRecords int
	// NameRecords is the species name table row count
	NameRecords int
}

// dateLayouts are tried in order for the eventDate column
var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05Z", "2006-01-02 15:04:05"}

// Load merges the occurrence and name CSVs on scientificName, drops rows with
// missing coordinates, and derives month and season per record.
func Load(obsCSV, namesCSV []byte) (*Dataset, error) {
	obsDF, err := dataset.ReadFrame(obsCSV)
	if err != nil {
		return nil, fmt.Errorf("load occurrences: %w", err)
	}
	namesDF, err := dataset.ReadFrame(namesCSV)
	if err != nil {
		return nil, fmt.Errorf("load species names: %w", err)
	}

	merged := obsDF.LeftJoin(namesDF, "scientificName")
	if merged.Err != nil {
		return nil, fmt.Errorf("merge on scientificName: %w", merged.Err)
	}

	cols := make(map[string]int, len(merged.Names()))
	for i, name := range merged.Names() {
		cols[name] = i
	}
	for _, required := range []string{"scientificName", "decimalLatitude", "decimalLongitude"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("merged table is missing column %q", required)
		}
	}

	ds := &Dataset{
		LoadedRecords: obsDF.Nrow(),
		NameRecords:   namesDF.Nrow(),
	}

	cell := func(row int, name string) (string, bool) {
		idx, ok := cols[name]
		if !ok {
			return "", false
		}
		elem := merged.Elem(row, idx)
		if elem.IsNA() {
			return "", false
		}
		return elem.String(), true
	}

	for row := 0; row < merged.Nrow(); row++ {
		latElem := merged.Elem(row, cols["decimalLatitude"])
		lonElem := merged.Elem(row, cols["decimalLongitude"])
		if latElem.IsNA() || lonElem.IsNA() {
			continue
		}

		obs := Observation{
			Lat: latElem.Float(),
			Lon: lonElem.Float(),
		}
		obs.ScientificName, _ = cell(row, "scientificName")
		if obs.ScientificName == "" {
			continue
		}
		obs.CommonName, _ = cell(row, "commonName")
		obs.Subfamily, _ = cell(row, "subfamily")
		obs.State, _ = cell(row, "stateProvince")

		if raw, ok := cell(row, "eventDate"); ok {
			if t, ok := parseEventDate(raw); ok {
				obs.EventDate = t
				obs.Month = int(t.Month())
			}
		}
		obs.Season = SeasonForMonth(obs.Month)

		ds.Observations = append(ds.Observations, obs)
	}

	return ds, nil
}

// parseEventDate parses the eventDate column, which mixes a few layouts
func parseEventDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SeasonForMonth maps a month to its Southern Hemisphere season.
// Total over 1..12; anything else maps to "Unknown".
func SeasonForMonth(month int) string {
	switch month {
	case 12, 1, 2:
		return "Summer"
	case 3, 4, 5:
		return "Autumn"
	case 6, 7, 8:
		return "Winter"
	case 9, 10, 11:
		return "Spring"
	default:
		return "Unknown"
	}
}

// Center returns the mean coordinate of all observations, used as map center
func (d *Dataset) Center() (lat, lon float64) {
	if len(d.Observations) == 0 {
		return 0, 0
	}
	for _, o := range d.Observations {
		lat += o.Lat
		lon += o.Lon
	}
	n := float64(len(d.Observations))
	return lat / n, lon / n
}

// BySpecies groups observations by scientific name
func (d *Dataset) BySpecies() map[string][]Observation {
	bySpecies := make(map[string][]Observation)
	for _, o := range d.Observations {
		bySpecies[o.ScientificName] = append(bySpecies[o.ScientificName], o)
	}
	return bySpecies
}

// commonNameOf returns the first non-empty common name in a species group,
// or "Unknown"
func commonNameOf(group []Observation) string {
	for _, o := range group {
		if o.CommonName != "" {
			return o.CommonName
		}
	}
	return "Unknown"
}
