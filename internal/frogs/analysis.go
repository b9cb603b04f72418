package frogs

import (
	"math"
	"sort"
	"time"
)

// endemicMinRecords is the record floor for calling a single-state species
// potentially endemic
const endemicMinRecords = 3

// seasonalMinRecords is the record floor for the calling-season analysis
const seasonalMinRecords = 5

// Seasons in display order
var Seasons = []string{"Summer", "Autumn", "Winter", "Spring"}

// SpeciesCount pairs a species with its record count
type SpeciesCount struct {
	ScientificName string
	CommonName     string
	Records        int
}

// StateCount pairs a state with its record count
type StateCount struct {
	State   string
	Records int
}

// Summary describes the cleaned dataset at a glance
type Summary struct {
	TotalRecords   int
	SpeciesCount   int
	SubfamilyCount int
	TopSpecies     []SpeciesCount
	TopStates      []StateCount
	FirstDate      time.Time
	LastDate       time.Time
}

// Summarize computes the console summary of the merged dataset
func Summarize(d *Dataset) Summary {
	s := Summary{TotalRecords: len(d.Observations)}

	species := make(map[string]int)
	subfamilies := make(map[string]bool)
	states := make(map[string]int)
	commonNames := make(map[string]string)

	for _, o := range d.Observations {
		species[o.ScientificName]++
		if o.Subfamily != "" {
			subfamilies[o.Subfamily] = true
		}
		if o.State != "" {
			states[o.State]++
		}
		if o.CommonName != "" && commonNames[o.ScientificName] == "" {
			commonNames[o.ScientificName] = o.CommonName
		}
		if !o.EventDate.IsZero() {
			if s.FirstDate.IsZero() || o.EventDate.Before(s.FirstDate) {
				s.FirstDate = o.EventDate
			}
			if o.EventDate.After(s.LastDate) {
				s.LastDate = o.EventDate
			}
		}
	}

	s.SpeciesCount = len(species)
	s.SubfamilyCount = len(subfamilies)

	for name, count := range species {
		common := commonNames[name]
		if common == "" {
			common = "Unknown"
		}
		s.TopSpecies = append(s.TopSpecies, SpeciesCount{ScientificName: name, CommonName: common, Records: count})
	}
	sort.Slice(s.TopSpecies, func(i, j int) bool {
		if s.TopSpecies[i].Records != s.TopSpecies[j].Records {
			return s.TopSpecies[i].Records > s.TopSpecies[j].Records
		}
		return s.TopSpecies[i].ScientificName < s.TopSpecies[j].ScientificName
	})
	if len(s.TopSpecies) > 10 {
		s.TopSpecies = s.TopSpecies[:10]
	}

	for state, count := range states {
		s.TopStates = append(s.TopStates, StateCount{State: state, Records: count})
	}
	sort.Slice(s.TopStates, func(i, j int) bool {
		if s.TopStates[i].Records != s.TopStates[j].Records {
			return s.TopStates[i].Records > s.TopStates[j].Records
		}
		return s.TopStates[i].State < s.TopStates[j].State
	})
	if len(s.TopStates) > 10 {
		s.TopStates = s.TopStates[:10]
	}

	return s
}

// EndemicSpecies is a single-state species from the endemism heuristic
type EndemicSpecies struct {
	ScientificName string
	CommonName     string
	Records        int
}

// Endemism finds species recorded in exactly one state with at least
// endemicMinRecords records, keyed by that state. Species lists are sorted by
// record count descending.
func Endemism(d *Dataset) map[string][]EndemicSpecies {
	type speciesStates struct {
		states  map[string]bool
		records int
		common  string
	}

	bySpecies := make(map[string]*speciesStates)
	for _, o := range d.Observations {
		ss := bySpecies[o.ScientificName]
		if ss == nil {
			ss = &speciesStates{states: make(map[string]bool)}
			bySpecies[o.ScientificName] = ss
		}
		ss.records++
		if o.State != "" {
			ss.states[o.State] = true
		}
		if ss.common == "" && o.CommonName != "" {
			ss.common = o.CommonName
		}
	}

	endemic := make(map[string][]EndemicSpecies)
	for name, ss := range bySpecies {
		if len(ss.states) != 1 || ss.records < endemicMinRecords {
			continue
		}
		var state string
		for s := range ss.states {
			state = s
		}
		common := ss.common
		if common == "" {
			common = "Unknown"
		}
		endemic[state] = append(endemic[state], EndemicSpecies{
			ScientificName: name,
			CommonName:     common,
			Records:        ss.records,
		})
	}

	for state := range endemic {
		list := endemic[state]
		sort.Slice(list, func(i, j int) bool {
			if list[i].Records != list[j].Records {
				return list[i].Records > list[j].Records
			}
			return list[i].ScientificName < list[j].ScientificName
		})
	}

	return endemic
}

// SeasonalPreference describes a species' calling season distribution
type SeasonalPreference struct {
	ScientificName string
	CommonName     string
	TotalRecords   int
	PeakSeason     string
	// SeasonPercent holds the share of dated records per season, rounded to
	// one decimal place
	SeasonPercent map[string]float64
}

// CallingSeasons computes seasonal preferences for species with at least
// seasonalMinRecords dated records, sorted by record count descending.
func CallingSeasons(d *Dataset) []SeasonalPreference {
	type seasonTally struct {
		counts map[string]int
		total  int
		common string
	}

	tallies := make(map[string]*seasonTally)
	for _, o := range d.Observations {
		if o.Month == 0 {
			continue
		}
		tally := tallies[o.ScientificName]
		if tally == nil {
			tally = &seasonTally{counts: make(map[string]int)}
			tallies[o.ScientificName] = tally
		}
		tally.counts[o.Season]++
		tally.total++
		if tally.common == "" && o.CommonName != "" {
			tally.common = o.CommonName
		}
	}

	var prefs []SeasonalPreference
	for name, tally := range tallies {
		if tally.total < seasonalMinRecords {
			continue
		}

		peak := ""
		peakCount := -1
		percent := make(map[string]float64, len(Seasons))
		for _, season := range Seasons {
			count := tally.counts[season]
			percent[season] = math.Round(float64(count)/float64(tally.total)*1000) / 10
			if count > peakCount {
				peak = season
				peakCount = count
			}
		}

		common := tally.common
		if common == "" {
			common = "Unknown"
		}
		prefs = append(prefs, SeasonalPreference{
			ScientificName: name,
			CommonName:     common,
			TotalRecords:   tally.total,
			PeakSeason:     peak,
			SeasonPercent:  percent,
		})
	}

	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].TotalRecords != prefs[j].TotalRecords {
			return prefs[i].TotalRecords > prefs[j].TotalRecords
		}
		return prefs[i].ScientificName < prefs[j].ScientificName
	})

	return prefs
}

// RangeMetrics describes a species' geographic footprint
type RangeMetrics struct {
	ScientificName string
	CommonName     string
	// AreaKM2 is a rough bounding-box estimate: Δlat × Δlon × 111² km²
	AreaKM2   float64
	LatRange  float64
	LonRange  float64
	Records   int
	NumStates int
}

// GeographicRanges computes range metrics for every species
func GeographicRanges(d *Dataset) []RangeMetrics {
	var metrics []RangeMetrics
	for name, group := range d.BySpecies() {
		minLat, maxLat := group[0].Lat, group[0].Lat
		minLon, maxLon := group[0].Lon, group[0].Lon
		states := make(map[string]bool)
		for _, o := range group {
			minLat = math.Min(minLat, o.Lat)
			maxLat = math.Max(maxLat, o.Lat)
			minLon = math.Min(minLon, o.Lon)
			maxLon = math.Max(maxLon, o.Lon)
			if o.State != "" {
				states[o.State] = true
			}
		}

		latRange := maxLat - minLat
		lonRange := maxLon - minLon
		metrics = append(metrics, RangeMetrics{
			ScientificName: name,
			CommonName:     commonNameOf(group),
			AreaKM2:        latRange * lonRange * 111 * 111,
			LatRange:       latRange,
			LonRange:       lonRange,
			Records:        len(group),
			NumStates:      len(states),
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].ScientificName < metrics[j].ScientificName
	})
	return metrics
}

// WidestRanges returns the n species with the largest bounding-box area
func WidestRanges(metrics []RangeMetrics, n int) []RangeMetrics {
	sorted := append([]RangeMetrics(nil), metrics...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].AreaKM2 != sorted[j].AreaKM2 {
			return sorted[i].AreaKM2 > sorted[j].AreaKM2
		}
		return sorted[i].ScientificName < sorted[j].ScientificName
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RarestSpecies returns the n species with the fewest records
func RarestSpecies(metrics []RangeMetrics, n int) []RangeMetrics {
	sorted := append([]RangeMetrics(nil), metrics...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Records != sorted[j].Records {
			return sorted[i].Records < sorted[j].Records
		}
		return sorted[i].ScientificName < sorted[j].ScientificName
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
