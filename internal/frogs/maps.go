package frogs

import (
	"fmt"
	"sort"

	"ttcli/internal/geomap"
)

// markerPalette cycles over species the way the original survey maps did
var markerPalette = []string{
	"red", "blue", "green", "purple", "orange", "darkred",
	"lightred", "beige", "darkblue", "darkgreen", "cadetblue",
	"darkpurple", "white", "pink", "lightblue", "lightgreen",
	"gray", "black", "lightgray",
}

// statePalette colors endemic-species pins per state
var statePalette = []string{"red", "blue", "green", "purple", "orange", "darkred", "lightred"}

// seasonColors maps peak calling season to circle color
var seasonColors = map[string]string{
	"Summer": "red",
	"Autumn": "orange",
	"Winter": "blue",
	"Spring": "green",
}

// rangeMapTop is how many widest/rarest species the comparison map shows
const rangeMapTop = 5

// orDefault substitutes "Unknown" for empty popup fields
func orDefault(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// dateLabel formats an event date for popups
func dateLabel(o Observation) string {
	if o.EventDate.IsZero() {
		return "Unknown"
	}
	return o.EventDate.Format("2006-01-02")
}

// SpeciesMap builds the clustered all-occurrences map with per-species colors
// and switchable tile layers.
func SpeciesMap(d *Dataset) *geomap.Map {
	lat, lon := d.Center()
	m := geomap.New("Frog Species Map", lat, lon, 6)
	m.AddTileLayer(geomap.TileLayer{
		Name:        "CartoDB Positron",
		URLTemplate: "https://basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://carto.com/attributions">CARTO</a>`,
	})
	m.EnableClustering()

	speciesColors := make(map[string]string)
	speciesSeen := 0
	for _, o := range d.Observations {
		color, ok := speciesColors[o.ScientificName]
		if !ok {
			color = markerPalette[speciesSeen%len(markerPalette)]
			speciesColors[o.ScientificName] = color
			speciesSeen++
		}

		popup := fmt.Sprintf(
			"<b>Scientific Name:</b> %s<br><b>Common Name:</b> %s<br><b>Subfamily:</b> %s<br><b>Date:</b> %s<br><b>State/Province:</b> %s<br><b>Coordinates:</b> %.4f, %.4f",
			o.ScientificName, orDefault(o.CommonName), orDefault(o.Subfamily),
			dateLabel(o), orDefault(o.State), o.Lat, o.Lon)

		m.AddMarker(geomap.Marker{
			Lat:     o.Lat,
			Lon:     o.Lon,
			Popup:   popup,
			Tooltip: fmt.Sprintf("%s (%s)", o.ScientificName, orDefault(o.CommonName)),
			Color:   color,
			Icon:    "info",
		})
	}

	m.SetLegend(geomap.NewLegend("Frog Species Map").
		AddText("Click on markers for details").
		AddText(fmt.Sprintf("Total species: %d", speciesSeen)).
		AddText(fmt.Sprintf("Total records: %d", len(d.Observations))).
		HTML())

	return m
}

// Heatmap builds the occurrence density heat layer
func Heatmap(d *Dataset) *geomap.Map {
	lat, lon := d.Center()
	m := geomap.New("Frog Species Heatmap", lat, lon, 6)

	points := make([]geomap.HeatPoint, 0, len(d.Observations))
	for _, o := range d.Observations {
		points = append(points, geomap.HeatPoint{Lat: o.Lat, Lon: o.Lon})
	}
	m.AddHeatPoints(points)
	return m
}

// EndemismMap builds the star-marker map of potentially endemic species,
// colored per state.
func EndemismMap(d *Dataset, endemic map[string][]EndemicSpecies) *geomap.Map {
	lat, lon := d.Center()
	m := geomap.New("Potentially Endemic Frog Species", lat, lon, 6)

	bySpecies := d.BySpecies()

	legend := geomap.NewLegend("Potentially Endemic Frog Species").
		AddText(fmt.Sprintf("Species found in only one state (>=%d records)", endemicMinRecords))

	colorIdx := 0
	for _, state := range sortedStates(endemic) {
		color := statePalette[colorIdx%len(statePalette)]
		colorIdx++
		legend.AddSwatch(color, fmt.Sprintf("%s: %d species", state, len(endemic[state])))

		for _, sp := range endemic[state] {
			for _, o := range bySpecies[sp.ScientificName] {
				popup := fmt.Sprintf(
					"<b>POTENTIALLY ENDEMIC SPECIES</b><br><b>State:</b> %s<br><b>Scientific Name:</b> %s<br><b>Common Name:</b> %s<br><b>Total Records in State:</b> %d<br><b>Date:</b> %s",
					state, sp.ScientificName, sp.CommonName, sp.Records, dateLabel(o))

				m.AddMarker(geomap.Marker{
					Lat:     o.Lat,
					Lon:     o.Lon,
					Popup:   popup,
					Tooltip: "Endemic: " + sp.ScientificName,
					Color:   color,
					Icon:    "star",
				})
			}
		}
	}

	m.SetLegend(legend.HTML())
	return m
}

// SeasonalMap builds the circle-marker map colored by peak calling season
func SeasonalMap(d *Dataset, prefs []SeasonalPreference) *geomap.Map {
	lat, lon := d.Center()
	m := geomap.New("Frog Calling Seasons", lat, lon, 6)

	bySpecies := d.BySpecies()
	for _, pref := range prefs {
		color := seasonColors[pref.PeakSeason]
		if color == "" {
			color = "gray"
		}

		for _, o := range bySpecies[pref.ScientificName] {
			if o.Month == 0 {
				continue
			}

			popup := fmt.Sprintf(
				"<b>Scientific Name:</b> %s<br><b>Common Name:</b> %s<br><b>Peak Calling Season:</b> %s<br><b>This Record:</b> %s<br><b>Date:</b> %s",
				pref.ScientificName, pref.CommonName, pref.PeakSeason, o.Season, dateLabel(o))
			for _, season := range Seasons {
				if pct := pref.SeasonPercent[season]; pct > 0 {
					popup += fmt.Sprintf("<br>%s: %.1f%%", season, pct)
				}
			}

			m.AddCircleMarker(geomap.CircleMarker{
				Lat:         o.Lat,
				Lon:         o.Lon,
				Radius:      5,
				Popup:       popup,
				Tooltip:     fmt.Sprintf("%s - Peak: %s", pref.ScientificName, pref.PeakSeason),
				Color:       color,
				FillOpacity: 0.7,
			})
		}
	}

	m.SetLegend(geomap.NewLegend("Frog Calling Seasons").
		AddText("Markers colored by peak calling season:").
		AddSwatch("red", "Summer (Dec-Feb)").
		AddSwatch("orange", "Autumn (Mar-May)").
		AddSwatch("blue", "Winter (Jun-Aug)").
		AddSwatch("green", "Spring (Sep-Nov)").
		HTML())

	return m
}

// RangeComparisonMap builds the widest-vs-rarest species map: the five widest
// ranges as green globes, species with at most five records as red warnings.
func RangeComparisonMap(d *Dataset, metrics []RangeMetrics) *geomap.Map {
	lat, lon := d.Center()
	m := geomap.New("Geographic Range Comparison", lat, lon, 6)

	bySpecies := d.BySpecies()

	for _, rm := range WidestRanges(metrics, rangeMapTop) {
		for _, o := range bySpecies[rm.ScientificName] {
			popup := fmt.Sprintf(
				"<b>WIDE RANGE SPECIES</b><br><b>Scientific Name:</b> %s<br><b>Common Name:</b> %s<br><b>Range Area:</b> %.0f km²<br><b>States:</b> %d<br><b>Total Records:</b> %d",
				rm.ScientificName, rm.CommonName, rm.AreaKM2, rm.NumStates, rm.Records)
			m.AddMarker(geomap.Marker{
				Lat:     o.Lat,
				Lon:     o.Lon,
				Popup:   popup,
				Tooltip: "Wide Range: " + rm.ScientificName,
				Color:   "green",
				Icon:    "globe",
			})
		}
	}

	for _, rm := range RarestSpecies(metrics, rangeMapTop) {
		if rm.Records > rangeMapTop {
			continue
		}
		for _, o := range bySpecies[rm.ScientificName] {
			popup := fmt.Sprintf(
				"<b>RARE SPECIES</b><br><b>Scientific Name:</b> %s<br><b>Common Name:</b> %s<br><b>Total Records:</b> %d<br><b>States:</b> %d",
				rm.ScientificName, rm.CommonName, rm.Records, rm.NumStates)
			m.AddMarker(geomap.Marker{
				Lat:     o.Lat,
				Lon:     o.Lon,
				Popup:   popup,
				Tooltip: "Rare: " + rm.ScientificName,
				Color:   "red",
				Icon:    "warning",
			})
		}
	}

	m.SetLegend(geomap.NewLegend("Geographic Range Comparison").
		AddSwatch("green", fmt.Sprintf("Widest Range Species (Top %d)", rangeMapTop)).
		AddSwatch("red", fmt.Sprintf("Rarest Species (<=%d records)", rangeMapTop)).
		HTML())

	return m
}

// sortedStates returns the endemic map's states in stable alphabetical order
func sortedStates(endemic map[string][]EndemicSpecies) []string {
	states := make([]string, 0, len(endemic))
	for state := range endemic {
		states = append(states, state)
	}
	sort.Strings(states)
	return states
}
