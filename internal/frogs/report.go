package frogs

import (
	"fmt"
	"io"
	"strings"
)

// banner writes a section header in the fixed console layout
func banner(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// WriteSummary prints the dataset summary
func WriteSummary(w io.Writer, s Summary) {
	banner(w, "FROG SPECIES SUMMARY")

	fmt.Fprintf(w, "Total number of records: %d\n", s.TotalRecords)
	fmt.Fprintf(w, "Total number of unique species: %d\n", s.SpeciesCount)
	fmt.Fprintf(w, "Total number of subfamilies: %d\n", s.SubfamilyCount)

	fmt.Fprintln(w, "\nTop 10 most recorded species:")
	for _, sp := range s.TopSpecies {
		fmt.Fprintf(w, "  %s (%s): %d records\n", sp.ScientificName, sp.CommonName, sp.Records)
	}

	fmt.Fprintln(w, "\nTop 10 states/provinces by number of records:")
	for _, st := range s.TopStates {
		fmt.Fprintf(w, "  %s: %d records\n", st.State, st.Records)
	}

	if !s.FirstDate.IsZero() {
		fmt.Fprintf(w, "\nDate range: %s to %s\n",
			s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02"))
	}
}

// WriteEndemism prints the per-state endemic species listing
func WriteEndemism(w io.Writer, endemic map[string][]EndemicSpecies) {
	banner(w, "ENDEMISM ANALYSIS")
	fmt.Fprintf(w, "Potentially endemic species (found in only one state with >=%d records):\n", endemicMinRecords)

	for _, state := range sortedStates(endemic) {
		list := endemic[state]
		fmt.Fprintf(w, "\n%s (%d potentially endemic species):\n", state, len(list))
		for _, sp := range list {
			fmt.Fprintf(w, "  - %s (%s) - %d records\n", sp.ScientificName, sp.CommonName, sp.Records)
		}
	}
}

// WriteCallingSeasons prints the seasonal preference listing, fifteen species
// at most, matching the survey report
func WriteCallingSeasons(w io.Writer, prefs []SeasonalPreference) {
	banner(w, "CALLING SEASON ANALYSIS")
	fmt.Fprintf(w, "Species with distinct calling seasons (>=%d records):\n", seasonalMinRecords)

	shown := prefs
	if len(shown) > 15 {
		shown = shown[:15]
	}
	for _, pref := range shown {
		fmt.Fprintf(w, "\n%s (%s) - %d records\n", pref.ScientificName, pref.CommonName, pref.TotalRecords)
		fmt.Fprintf(w, "  Peak season: %s\n", pref.PeakSeason)
		for _, season := range Seasons {
			if pct := pref.SeasonPercent[season]; pct > 0 {
				fmt.Fprintf(w, "  %s: %.1f%%\n", season, pct)
			}
		}
	}
}

// WriteGeographicRanges prints the widest and rarest species listings
func WriteGeographicRanges(w io.Writer, metrics []RangeMetrics) {
	banner(w, "GEOGRAPHIC RANGE ANALYSIS")

	fmt.Fprintln(w, "Species with WIDEST geographic ranges:")
	for i, rm := range WidestRanges(metrics, 10) {
		fmt.Fprintf(w, "%2d. %s (%s)\n", i+1, rm.ScientificName, rm.CommonName)
		fmt.Fprintf(w, "     Range: %.0f km² | States: %d | Records: %d\n", rm.AreaKM2, rm.NumStates, rm.Records)
	}

	fmt.Fprintln(w, "\nRAREST species (fewest records):")
	for i, rm := range RarestSpecies(metrics, 10) {
		if rm.Records > 5 {
			continue
		}
		fmt.Fprintf(w, "%2d. %s (%s)\n", i+1, rm.ScientificName, rm.CommonName)
		fmt.Fprintf(w, "     Records: %d | States: %d\n", rm.Records, rm.NumStates)
	}
}
