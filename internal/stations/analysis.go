package stations

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// MaxTimeSeriesStations caps the time-series station selection
const MaxTimeSeriesStations = 10

// MapPoint is one station's value for the map panel
type MapPoint struct {
	Station string  `json:"station"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Region  string  `json:"region"`
	Value   float64 `json:"value"`
}

// MapStats summarizes the mapped year
type MapStats struct {
	Average    float64 `json:"average"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	MinStation string  `json:"min_station"`
	MaxStation string  `json:"max_station"`
	Count      int     `json:"count"`
}

// MapData is the map panel payload
type MapData struct {
	Year   int        `json:"year"`
	Metric string     `json:"metric"`
	Points []MapPoint `json:"points"`
	Stats  MapStats   `json:"stats"`
}

// MapSnapshot returns every station's value for one year plus summary stats.
// Stations without the metric that year are dropped.
func (d *Dataset) MapSnapshot(year int, metric string) (MapData, error) {
	if !ValidMetric(metric) {
		return MapData{}, fmt.Errorf("unknown metric %q", metric)
	}

	md := MapData{Year: year, Metric: metric}
	for _, rec := range d.Annual {
		if rec.Year != year {
			continue
		}
		v, ok := rec.Values[metric]
		if !ok {
			continue
		}
		md.Points = append(md.Points, MapPoint{
			Station: rec.Station,
			Name:    rec.StationName,
			Lat:     rec.Lat,
			Lon:     rec.Lon,
			Region:  rec.Region,
			Value:   v,
		})
	}
	if len(md.Points) == 0 {
		return md, nil
	}

	st := &md.Stats
	st.Count = len(md.Points)
	st.Min, st.Max = md.Points[0].Value, md.Points[0].Value
	st.MinStation, st.MaxStation = md.Points[0].Name, md.Points[0].Name
	var sum float64
	for _, p := range md.Points {
		sum += p.Value
		if p.Value < st.Min {
			st.Min = p.Value
			st.MinStation = p.Name
		}
		if p.Value > st.Max {
			st.Max = p.Value
			st.MaxStation = p.Name
		}
	}
	st.Average = sum / float64(st.Count)
	return md, nil
}

// YearValue pairs a year with an aggregated value
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// RegionSeries is one region's yearly mean series
type RegionSeries struct {
	Region string      `json:"region"`
	Points []YearValue `json:"points"`
}

// RegionalTrends computes per-region yearly means over a year range
func (d *Dataset) RegionalTrends(metric string, fromYear, toYear int) ([]RegionSeries, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	type key struct {
		region string
		year   int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, rec := range d.Annual {
		if rec.Year < fromYear || rec.Year > toYear {
			continue
		}
		v, ok := rec.Values[metric]
		if !ok {
			continue
		}
		k := key{rec.Region, rec.Year}
		sums[k] += v
		counts[k]++
	}

	byRegion := make(map[string][]YearValue)
	for k, sum := range sums {
		byRegion[k.region] = append(byRegion[k.region], YearValue{
			Year:  k.year,
			Value: sum / float64(counts[k]),
		})
	}

	var series []RegionSeries
	for region, points := range byRegion {
		sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
		series = append(series, RegionSeries{Region: region, Points: points})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Region < series[j].Region })
	return series, nil
}

// RegionRank is one region's average for the ranking bars
type RegionRank struct {
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}

// RegionalRankings returns per-region averages sorted descending
func (d *Dataset) RegionalRankings(metric string, fromYear, toYear int) ([]RegionRank, error) {
	values, err := d.regionValues(metric, fromYear, toYear)
	if err != nil {
		return nil, err
	}

	var ranks []RegionRank
	for region, vals := range values {
		mean, err := stats.Mean(vals)
		if err != nil {
			continue
		}
		ranks = append(ranks, RegionRank{Region: region, Value: mean})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Value != ranks[j].Value {
			return ranks[i].Value > ranks[j].Value
		}
		return ranks[i].Region < ranks[j].Region
	})
	return ranks, nil
}

// RegionStats is one row of the regional statistics table, rounded to one
// decimal place
type RegionStats struct {
	Region string  `json:"region"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// RegionalStats computes mean, sample standard deviation, min, and max per
// region, sorted by mean descending.
func (d *Dataset) RegionalStats(metric string, fromYear, toYear int) ([]RegionStats, error) {
	values, err := d.regionValues(metric, fromYear, toYear)
	if err != nil {
		return nil, err
	}

	var rows []RegionStats
	for region, vals := range values {
		mean, err := stats.Mean(vals)
		if err != nil {
			continue
		}
		minV, _ := stats.Min(vals)
		maxV, _ := stats.Max(vals)
		row := RegionStats{
			Region: region,
			Mean:   round1(mean),
			Min:    round1(minV),
			Max:    round1(maxV),
		}
		if sd, err := stats.StandardDeviationSample(vals); err == nil {
			row.StdDev = round1(sd)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Mean != rows[j].Mean {
			return rows[i].Mean > rows[j].Mean
		}
		return rows[i].Region < rows[j].Region
	})
	return rows, nil
}

func (d *Dataset) regionValues(metric string, fromYear, toYear int) (map[string][]float64, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	values := make(map[string][]float64)
	for _, rec := range d.Annual {
		if rec.Year < fromYear || rec.Year > toYear {
			continue
		}
		if v, ok := rec.Values[metric]; ok {
			values[rec.Region] = append(values[rec.Region], v)
		}
	}
	return values, nil
}

// YearlyAverages computes the cross-station mean per year, sorted by year
func (d *Dataset) YearlyAverages(metric string) ([]YearValue, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, rec := range d.Annual {
		if v, ok := rec.Values[metric]; ok {
			sums[rec.Year] += v
			counts[rec.Year]++
		}
	}
	var yearly []YearValue
	for year, sum := range sums {
		yearly = append(yearly, YearValue{Year: year, Value: sum / float64(counts[year])})
	}
	sort.Slice(yearly, func(i, j int) bool { return yearly[i].Year < yearly[j].Year })
	return yearly, nil
}

// RegionYearValue is one region's mean in one extreme year
type RegionYearValue struct {
	Year   int     `json:"year"`
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}

// ExtremeYearsData is the historic-years panel payload
type ExtremeYearsData struct {
	Metric   string            `json:"metric"`
	All      []YearValue       `json:"all"`
	Highest  []YearValue       `json:"highest"`
	Lowest   []YearValue       `json:"lowest"`
	Regional []RegionYearValue `json:"regional"`
}

// ExtremeYears finds the topN highest and lowest years by cross-station mean
// and breaks the highest years down by region.
func (d *Dataset) ExtremeYears(metric string, topN int) (ExtremeYearsData, error) {
	yearly, err := d.YearlyAverages(metric)
	if err != nil {
		return ExtremeYearsData{}, err
	}
	if topN < 1 {
		return ExtremeYearsData{}, fmt.Errorf("topN must be positive, got %d", topN)
	}

	data := ExtremeYearsData{Metric: metric, All: yearly}

	byValue := append([]YearValue(nil), yearly...)
	sort.Slice(byValue, func(i, j int) bool { return byValue[i].Value > byValue[j].Value })
	data.Highest = topOf(byValue, topN)

	sort.Slice(byValue, func(i, j int) bool { return byValue[i].Value < byValue[j].Value })
	data.Lowest = topOf(byValue, topN)

	extreme := make(map[int]bool, len(data.Highest))
	for _, yv := range data.Highest {
		extreme[yv.Year] = true
	}
	series, err := d.RegionalTrends(metric, minYear(d.Years), maxYear(d.Years))
	if err != nil {
		return ExtremeYearsData{}, err
	}
	for _, rs := range series {
		for _, p := range rs.Points {
			if extreme[p.Year] {
				data.Regional = append(data.Regional, RegionYearValue{
					Year:   p.Year,
					Region: rs.Region,
					Value:  p.Value,
				})
			}
		}
	}
	sort.Slice(data.Regional, func(i, j int) bool {
		if data.Regional[i].Year != data.Regional[j].Year {
			return data.Regional[i].Year < data.Regional[j].Year
		}
		return data.Regional[i].Region < data.Regional[j].Region
	})
	return data, nil
}

func topOf(sorted []YearValue, n int) []YearValue {
	out := append([]YearValue(nil), sorted...)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func minYear(years []int) int {
	if len(years) == 0 {
		return 0
	}
	return years[0]
}

func maxYear(years []int) int {
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

// MonthValue pairs a month with a mean value
type MonthValue struct {
	Month int     `json:"month"`
	Value float64 `json:"value"`
}

// MonthlySeries is one year's month-by-month means over a station selection
type MonthlySeries struct {
	Year   int          `json:"year"`
	Points []MonthValue `json:"points"`
}

// MonthlyPattern averages the monthly observations of the selected stations
// for each requested year.
func (d *Dataset) MonthlyPattern(metric string, stationIDs []string, years []int) ([]MonthlySeries, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	if len(stationIDs) == 0 {
		return nil, fmt.Errorf("no stations selected")
	}
	selected := stringSet(stationIDs)
	wanted := make(map[int]bool, len(years))
	for _, y := range years {
		wanted[y] = true
	}

	type key struct {
		year  int
		month int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, rec := range d.Monthly {
		if !selected[rec.Station] || !wanted[rec.Year] {
			continue
		}
		if v, ok := rec.Values[metric]; ok {
			k := key{rec.Year, rec.Month}
			sums[k] += v
			counts[k]++
		}
	}

	byYear := make(map[int][]MonthValue)
	for k, sum := range sums {
		byYear[k.year] = append(byYear[k.year], MonthValue{Month: k.month, Value: sum / float64(counts[k])})
	}
	var series []MonthlySeries
	for year, points := range byYear {
		sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
		series = append(series, MonthlySeries{Year: year, Points: points})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series, nil
}

// MonthlyChangeGrid is the year-on-year change heatmap payload: one row per
// month, one column per year; nil cells mean no comparable pair of values.
type MonthlyChangeGrid struct {
	Metric  string       `json:"metric"`
	Years   []int        `json:"years"`
	Months  []int        `json:"months"`
	Changes [][]*float64 `json:"changes"`
}

// MonthlyChanges computes the change in each month's mean from the previous
// year, over the selected stations.
func (d *Dataset) MonthlyChanges(metric string, stationIDs []string) (MonthlyChangeGrid, error) {
	if !ValidMetric(metric) {
		return MonthlyChangeGrid{}, fmt.Errorf("unknown metric %q", metric)
	}
	if len(stationIDs) == 0 {
		return MonthlyChangeGrid{}, fmt.Errorf("no stations selected")
	}
	selected := stringSet(stationIDs)

	type key struct {
		year  int
		month int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	yearSet := make(map[int]bool)
	for _, rec := range d.Monthly {
		if !selected[rec.Station] {
			continue
		}
		if v, ok := rec.Values[metric]; ok {
			k := key{rec.Year, rec.Month}
			sums[k] += v
			counts[k]++
			yearSet[rec.Year] = true
		}
	}

	grid := MonthlyChangeGrid{Metric: metric}
	for year := range yearSet {
		grid.Years = append(grid.Years, year)
	}
	sort.Ints(grid.Years)
	for month := 1; month <= 12; month++ {
		grid.Months = append(grid.Months, month)
	}

	mean := func(year, month int) (float64, bool) {
		k := key{year, month}
		if counts[k] == 0 {
			return 0, false
		}
		return sums[k] / float64(counts[k]), true
	}

	grid.Changes = make([][]*float64, len(grid.Months))
	for mi, month := range grid.Months {
		row := make([]*float64, len(grid.Years))
		for yi := 1; yi < len(grid.Years); yi++ {
			cur, okCur := mean(grid.Years[yi], month)
			prev, okPrev := mean(grid.Years[yi-1], month)
			if okCur && okPrev {
				delta := cur - prev
				row[yi] = &delta
			}
		}
		grid.Changes[mi] = row
	}
	return grid, nil
}

// StationSeries is one station's annual series for the time-series panel
type StationSeries struct {
	Station string      `json:"station"`
	Name    string      `json:"name"`
	Points  []YearValue `json:"points"`
}

// TimeSeries returns each selected station's annual values, capped at
// MaxTimeSeriesStations stations.
func (d *Dataset) TimeSeries(metric string, stationIDs []string) ([]StationSeries, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	if len(stationIDs) == 0 {
		return nil, fmt.Errorf("no stations selected")
	}
	if len(stationIDs) > MaxTimeSeriesStations {
		return nil, fmt.Errorf("at most %d stations may be selected, got %d", MaxTimeSeriesStations, len(stationIDs))
	}

	byStation := make(map[string][]YearValue)
	for _, rec := range d.Annual {
		if v, ok := rec.Values[metric]; ok {
			byStation[rec.Station] = append(byStation[rec.Station], YearValue{Year: rec.Year, Value: v})
		}
	}

	var series []StationSeries
	for _, id := range stationIDs {
		points := byStation[id]
		if len(points) == 0 {
			continue
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
		series = append(series, StationSeries{Station: id, Name: d.StationName(id), Points: points})
	}
	return series, nil
}

// TrendData is the overall-trend panel payload
type TrendData struct {
	Metric      string      `json:"metric"`
	Aggregation string      `json:"aggregation"`
	Points      []YearValue `json:"points"`
	HasTrend    bool        `json:"has_trend"`
	Slope       float64     `json:"slope,omitempty"`
	Intercept   float64     `json:"intercept,omitempty"`
	TrendPoints []YearValue `json:"trend_points,omitempty"`
}

// Trend aggregates all stations per year by mean or median and optionally
// fits a least-squares line.
func (d *Dataset) Trend(metric, aggregation string, withTrendLine bool) (TrendData, error) {
	if !ValidMetric(metric) {
		return TrendData{}, fmt.Errorf("unknown metric %q", metric)
	}
	if aggregation != "mean" && aggregation != "median" {
		return TrendData{}, fmt.Errorf("unknown aggregation %q", aggregation)
	}

	values := make(map[int][]float64)
	for _, rec := range d.Annual {
		if v, ok := rec.Values[metric]; ok {
			values[rec.Year] = append(values[rec.Year], v)
		}
	}

	td := TrendData{Metric: metric, Aggregation: aggregation}
	for year, vals := range values {
		var agg float64
		var err error
		if aggregation == "mean" {
			agg, err = stats.Mean(vals)
		} else {
			agg, err = stats.Median(vals)
		}
		if err != nil {
			continue
		}
		td.Points = append(td.Points, YearValue{Year: year, Value: agg})
	}
	sort.Slice(td.Points, func(i, j int) bool { return td.Points[i].Year < td.Points[j].Year })

	if withTrendLine && len(td.Points) >= 2 {
		xs := make([]float64, len(td.Points))
		ys := make([]float64, len(td.Points))
		for i, p := range td.Points {
			xs[i] = float64(p.Year)
			ys[i] = p.Value
		}
		slope, intercept, err := leastSquares(xs, ys)
		if err == nil {
			td.HasTrend = true
			td.Slope = slope
			td.Intercept = intercept
			for _, p := range td.Points {
				td.TrendPoints = append(td.TrendPoints, YearValue{
					Year:  p.Year,
					Value: slope*float64(p.Year) + intercept,
				})
			}
		}
	}
	return td, nil
}

// leastSquares fits y = slope*x + intercept
func leastSquares(xs, ys []float64) (slope, intercept float64, err error) {
	cov, err := stats.Covariance(xs, ys)
	if err != nil {
		return 0, 0, err
	}
	varX, err := stats.SampleVariance(xs)
	if err != nil {
		return 0, 0, err
	}
	if varX == 0 {
		return 0, 0, fmt.Errorf("least squares: x values are constant")
	}
	slope = cov / varX
	meanX, _ := stats.Mean(xs)
	meanY, _ := stats.Mean(ys)
	intercept = meanY - slope*meanX
	return slope, intercept, nil
}

// DecadeBox is one decade's distribution summary
type DecadeBox struct {
	Decade int     `json:"decade"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// DecadeDistribution computes box statistics per decade across all
// station-year values.
func (d *Dataset) DecadeDistribution(metric string) ([]DecadeBox, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	byDecade := make(map[int][]float64)
	for _, rec := range d.Annual {
		if v, ok := rec.Values[metric]; ok {
			decade := rec.Year / 10 * 10
			byDecade[decade] = append(byDecade[decade], v)
		}
	}

	var boxes []DecadeBox
	for decade, vals := range byDecade {
		box := DecadeBox{Decade: decade, Count: len(vals)}
		box.Min, _ = stats.Min(vals)
		box.Max, _ = stats.Max(vals)
		box.Mean, _ = stats.Mean(vals)
		box.Median, _ = stats.Median(vals)
		if q, err := stats.Quartile(vals); err == nil {
			box.Q1, box.Q3 = q.Q1, q.Q3
		} else {
			box.Q1, box.Q3 = box.Median, box.Median
		}
		if sd, err := stats.StandardDeviationSample(vals); err == nil {
			box.StdDev = sd
		}
		boxes = append(boxes, box)
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].Decade < boxes[j].Decade })
	return boxes, nil
}

// RandomStations picks up to n distinct station ids using the supplied
// random source index function.
func (d *Dataset) RandomStations(n int, intn func(int) int) []string {
	ids := make([]string, len(d.Stations))
	for i, s := range d.Stations {
		ids[i] = s.ID
	}
	if n > len(ids) {
		n = len(ids)
	}
	for i := 0; i < n; i++ {
		j := i + intn(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids[:n]
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
