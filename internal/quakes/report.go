package quakes

import (
	"fmt"
	"io"
	"strings"
)

// WriteSummary prints the catalog overview and the per-hour counts
func WriteSummary(w io.Writer, d *Dataset) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "VESUVIUS SEISMIC EVENTS")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "Records loaded: %d\n", d.LoadedRecords)
	fmt.Fprintf(w, "Events with timestamps: %d\n", len(d.Events))

	if first, last := d.DateRange(); !first.IsZero() {
		fmt.Fprintf(w, "Date range: %s to %s\n",
			first.Format("2006-01-02"), last.Format("2006-01-02"))
	}

	fmt.Fprintln(w, "\nEvents by hour of day:")
	counts := d.HourlyCounts()
	for hour, count := range counts {
		fmt.Fprintf(w, "  %02d:00  %d\n", hour, count)
	}
}
