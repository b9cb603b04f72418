// Package prizes loads the British literary prizes table, lists the
// distinct prize names, and aggregates awards for the prizes dashboard.
package prizes

import (
	"fmt"
	"io"
	"sort"

	"ttcli/internal/dataset"
)

// Award is one prize award row. Year is 0 when the row carries no
// usable award year.
type Award struct {
	PrizeName string
	Year      int
}

// Dataset holds the parsed prize table
type Dataset struct {
	Awards []Award

	// LoadedRecords is the row count before dropping unnamed rows
	LoadedRecords int
}

// yearColumns are tried in order; the table has carried different year
// column names across releases
var yearColumns = []string{"year_award", "award_year", "year"}

// Load parses the prize CSV. Rows without a prize name are dropped.
func Load(csvData []byte) (*Dataset, error) {
	df, err := dataset.ReadFrame(csvData)
	if err != nil {
		return nil, fmt.Errorf("load prizes: %w", err)
	}

	cols := make(map[string]int, len(df.Names()))
	for i, name := range df.Names() {
		cols[name] = i
	}
	nameIdx, ok := cols["prize_name"]
	if !ok {
		return nil, fmt.Errorf("prize table is missing column %q", "prize_name")
	}

	yearIdx := -1
	for _, candidate := range yearColumns {
		if idx, ok := cols[candidate]; ok {
			yearIdx = idx
			break
		}
	}

	ds := &Dataset{LoadedRecords: df.Nrow()}
	for row := 0; row < df.Nrow(); row++ {
		nameElem := df.Elem(row, nameIdx)
		if nameElem.IsNA() || nameElem.String() == "" {
			continue
		}
		award := Award{PrizeName: nameElem.String()}
		if yearIdx >= 0 {
			if e := df.Elem(row, yearIdx); !e.IsNA() {
				award.Year = int(e.Float())
			}
		}
		ds.Awards = append(ds.Awards, award)
	}
	return ds, nil
}

// DistinctNames returns the sorted distinct prize names
func (d *Dataset) DistinctNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range d.Awards {
		if !seen[a.PrizeName] {
			seen[a.PrizeName] = true
			names = append(names, a.PrizeName)
		}
	}
	sort.Strings(names)
	return names
}

// WriteNames prints the distinct prize names one per line
func (d *Dataset) WriteNames(w io.Writer) {
	for _, name := range d.DistinctNames() {
		fmt.Fprintln(w, name)
	}
}

// DecadeCount pairs a decade with its award count
type DecadeCount struct {
	Decade int `json:"decade"`
	Count  int `json:"count"`
}

// AwardsByDecade counts awards per decade, optionally restricted to a prize
// selection. Awards without a year are excluded. An empty selection means
// all prizes.
func (d *Dataset) AwardsByDecade(selection []string) []DecadeCount {
	selected := make(map[string]bool, len(selection))
	for _, name := range selection {
		selected[name] = true
	}

	counts := make(map[int]int)
	for _, a := range d.Awards {
		if a.Year == 0 {
			continue
		}
		if len(selected) > 0 && !selected[a.PrizeName] {
			continue
		}
		counts[a.Year/10*10]++
	}

	var decades []DecadeCount
	for decade, count := range counts {
		decades = append(decades, DecadeCount{Decade: decade, Count: count})
	}
	sort.Slice(decades, func(i, j int) bool { return decades[i].Decade < decades[j].Decade })
	return decades
}

// PrizeCount pairs a prize with its award count
type PrizeCount struct {
	PrizeName string `json:"prize_name"`
	Count     int    `json:"count"`
}

// Ranking returns every prize with its award count, sorted by count
// descending then name.
func (d *Dataset) Ranking() []PrizeCount {
	counts := make(map[string]int)
	for _, a := range d.Awards {
		counts[a.PrizeName]++
	}

	var ranking []PrizeCount
	for name, count := range counts {
		ranking = append(ranking, PrizeCount{PrizeName: name, Count: count})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].PrizeName < ranking[j].PrizeName
	})
	return ranking
}
