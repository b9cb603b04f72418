// Package stations builds the historic UK weather station model: annual
// aggregates per station-year, region classification, and the analyses
// behind the dashboard panels.
package stations

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"ttcli/internal/dataset"
)

// AnnualRecord is one station-year with its aggregated metric values.
// Values holds mean tmax/tmin and summed rain/sun/af keyed by metric;
// a missing key means no month carried the reading that year.
type AnnualRecord struct {
	Station     string
	StationName string
	Year        int
	Lat         float64
	Lon         float64
	Region      string
	Values      map[string]float64
}

// MonthlyRecord is one station-month observation kept for pattern analysis
type MonthlyRecord struct {
	Station     string
	StationName string
	Year        int
	Month       int
	Region      string
	Values      map[string]float64
}

// StationInfo describes one station from the metadata table
type StationInfo struct {
	ID     string
	Name   string
	Lat    float64
	Lon    float64
	Region string
}

// Dataset is the merged station model the dashboard reads from
type Dataset struct {
	Annual   []AnnualRecord
	Monthly  []MonthlyRecord
	Stations []StationInfo
	Years    []int
	Regions  []string

	names map[string]string
}

// RegionForLatitude classifies a UK latitude into its reporting region
func RegionForLatitude(lat float64) string {
	switch {
	case lat >= 57:
		return "Scotland (North)"
	case lat >= 55:
		return "Scotland (South)"
	case lat >= 53:
		return "Northern England"
	case lat >= 51.5:
		return "Midlands"
	case lat >= 50:
		return "Southern England"
	default:
		return "Southwest England"
	}
}

type monthlyRow struct {
	station string
	year    int
	month   int
	values  map[string]float64
}

// Load parses the metadata and monthly observation CSVs and computes the
// annual aggregates: mean tmax/tmin and summed rain/sun/af per station-year.
func Load(metaCSV, monthlyCSV []byte) (*Dataset, error) {
	metaDF, err := dataset.ReadFrame(metaCSV)
	if err != nil {
		return nil, fmt.Errorf("load station metadata: %w", err)
	}
	monthlyDF, err := dataset.ReadFrame(monthlyCSV)
	if err != nil {
		return nil, fmt.Errorf("load monthly observations: %w", err)
	}

	meta, err := parseMeta(metaDF)
	if err != nil {
		return nil, err
	}
	rows, err := parseMonthly(monthlyDF)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{names: make(map[string]string, len(meta))}
	for _, info := range meta {
		ds.names[info.ID] = info.Name
	}

	lookup := make(map[string]StationInfo, len(meta))
	for _, info := range meta {
		lookup[info.ID] = info
	}

	type yearKey struct {
		station string
		year    int
	}
	type accum struct {
		sum   map[string]float64
		count map[string]int
	}

	byYear := make(map[yearKey]*accum)
	seenStations := make(map[string]bool)
	seenYears := make(map[int]bool)

	for _, row := range rows {
		info := lookup[row.station]

		ds.Monthly = append(ds.Monthly, MonthlyRecord{
			Station:     row.station,
			StationName: nameOr(ds.names, row.station),
			Year:        row.year,
			Month:       row.month,
			Region:      RegionForLatitude(info.Lat),
			Values:      row.values,
		})

		key := yearKey{row.station, row.year}
		acc := byYear[key]
		if acc == nil {
			acc = &accum{sum: make(map[string]float64), count: make(map[string]int)}
			byYear[key] = acc
		}
		for metric, v := range row.values {
			acc.sum[metric] += v
			acc.count[metric]++
		}
		seenStations[row.station] = true
		seenYears[row.year] = true
	}

	for key, acc := range byYear {
		info := lookup[key.station]
		rec := AnnualRecord{
			Station:     key.station,
			StationName: nameOr(ds.names, key.station),
			Year:        key.year,
			Lat:         info.Lat,
			Lon:         info.Lon,
			Region:      RegionForLatitude(info.Lat),
			Values:      make(map[string]float64, len(MetricKeys)),
		}
		for _, metric := range MetricKeys {
			count := acc.count[metric]
			switch metric {
			case "tmax", "tmin":
				if count > 0 {
					rec.Values[metric] = acc.sum[metric] / float64(count)
				}
			default:
				// sums are always present, zero when no month reported
				rec.Values[metric] = acc.sum[metric]
			}
		}
		ds.Annual = append(ds.Annual, rec)
	}
	sort.Slice(ds.Annual, func(i, j int) bool {
		if ds.Annual[i].Station != ds.Annual[j].Station {
			return ds.Annual[i].Station < ds.Annual[j].Station
		}
		return ds.Annual[i].Year < ds.Annual[j].Year
	})

	regions := make(map[string]bool)
	for id := range seenStations {
		info := lookup[id]
		ds.Stations = append(ds.Stations, StationInfo{
			ID:     id,
			Name:   nameOr(ds.names, id),
			Lat:    info.Lat,
			Lon:    info.Lon,
			Region: RegionForLatitude(info.Lat),
		})
		regions[RegionForLatitude(info.Lat)] = true
	}
	sort.Slice(ds.Stations, func(i, j int) bool { return ds.Stations[i].ID < ds.Stations[j].ID })

	for year := range seenYears {
		ds.Years = append(ds.Years, year)
	}
	sort.Ints(ds.Years)

	for region := range regions {
		ds.Regions = append(ds.Regions, region)
	}
	sort.Strings(ds.Regions)

	return ds, nil
}

func parseMeta(df dataframe.DataFrame) ([]StationInfo, error) {
	cols := columnIndex(df.Names())
	for _, required := range []string{"station", "lat", "lng"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("station metadata is missing column %q", required)
		}
	}

	var meta []StationInfo
	for row := 0; row < df.Nrow(); row++ {
		id := df.Elem(row, cols["station"])
		if id.IsNA() {
			continue
		}
		info := StationInfo{ID: id.String()}
		if idx, ok := cols["station_name"]; ok {
			if e := df.Elem(row, idx); !e.IsNA() {
				info.Name = e.String()
			}
		}
		if e := df.Elem(row, cols["lat"]); !e.IsNA() {
			info.Lat = e.Float()
		}
		if e := df.Elem(row, cols["lng"]); !e.IsNA() {
			info.Lon = e.Float()
		}
		info.Region = RegionForLatitude(info.Lat)
		meta = append(meta, info)
	}
	return meta, nil
}

func parseMonthly(df dataframe.DataFrame) ([]monthlyRow, error) {
	cols := columnIndex(df.Names())
	for _, required := range []string{"station", "year", "month"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("monthly observations are missing column %q", required)
		}
	}

	var rows []monthlyRow
	for row := 0; row < df.Nrow(); row++ {
		station := df.Elem(row, cols["station"])
		year := df.Elem(row, cols["year"])
		month := df.Elem(row, cols["month"])
		if station.IsNA() || year.IsNA() || month.IsNA() {
			continue
		}

		mr := monthlyRow{
			station: station.String(),
			year:    int(year.Float()),
			month:   int(month.Float()),
			values:  make(map[string]float64, len(MetricKeys)),
		}
		for _, metric := range MetricKeys {
			idx, ok := cols[metric]
			if !ok {
				continue
			}
			if e := df.Elem(row, idx); !e.IsNA() {
				mr.values[metric] = e.Float()
			}
		}
		rows = append(rows, mr)
	}
	return rows, nil
}

func columnIndex(names []string) map[string]int {
	cols := make(map[string]int, len(names))
	for i, name := range names {
		cols[name] = i
	}
	return cols
}

func nameOr(names map[string]string, id string) string {
	if name := names[id]; name != "" {
		return name
	}
	return id
}

// StationName resolves a station id to its display name
func (d *Dataset) StationName(id string) string {
	return nameOr(d.names, id)
}
