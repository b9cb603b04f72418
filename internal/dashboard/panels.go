package dashboard

import (
	"fmt"

	"ttcli/internal/prizes"
	"ttcli/internal/stations"
)

// StationOverview is the static header panel of the stations dashboard
type StationOverview struct {
	StationCount int               `json:"station_count"`
	FirstYear    int               `json:"first_year"`
	LastYear     int               `json:"last_year"`
	Regions      []string          `json:"regions"`
	Metrics      []stations.Metric `json:"metrics"`
}

// StationDefaults returns the initial control state for the stations
// dashboard.
func StationDefaults(ds *stations.Dataset) Inputs {
	lastYear, firstYear := 0, 0
	if len(ds.Years) > 0 {
		firstYear = ds.Years[0]
		lastYear = ds.Years[len(ds.Years)-1]
	}

	var firstStation []string
	var tsStations []string
	for i, s := range ds.Stations {
		if i == 0 {
			firstStation = []string{s.ID}
		}
		if i < 5 {
			tsStations = append(tsStations, s.ID)
		}
	}

	return Inputs{
		"map_year":           lastYear,
		"map_metric":         "tmax",
		"regional_metric":    "rain",
		"regional_year_from": firstYear,
		"regional_year_to":   lastYear,
		"historic_metric":    "rain",
		"top_n_years":        5,
		"monthly_metric":     "tmax",
		"monthly_stations":   firstStation,
		"compare_year_a":     firstYear,
		"compare_year_b":     lastYear,
		"ts_metric":          "tmax",
		"ts_stations":        tsStations,
		"trend_metric":       "tmax",
		"trend_aggregation":  "mean",
		"show_trend_line":    true,
	}
}

// StationRegistry wires the six dashboard tabs as reactive outputs over
// the loaded station model.
func StationRegistry(ds *stations.Dataset) *Registry {
	r := NewRegistry()

	r.MustRegister("overview", nil, func(Inputs) (interface{}, error) {
		overview := StationOverview{
			StationCount: len(ds.Stations),
			Regions:      ds.Regions,
		}
		if len(ds.Years) > 0 {
			overview.FirstYear = ds.Years[0]
			overview.LastYear = ds.Years[len(ds.Years)-1]
		}
		for _, key := range stations.MetricKeys {
			overview.Metrics = append(overview.Metrics, stations.Metrics[key])
		}
		return overview, nil
	})

	r.MustRegister("weather_map", []string{"map_year", "map_metric"}, func(in Inputs) (interface{}, error) {
		year, metric, err := yearAndMetric(in, "map_year", "map_metric")
		if err != nil {
			return nil, err
		}
		return ds.MapSnapshot(year, metric)
	})

	r.MustRegister("map_stats", []string{"map_year", "map_metric"}, func(in Inputs) (interface{}, error) {
		year, metric, err := yearAndMetric(in, "map_year", "map_metric")
		if err != nil {
			return nil, err
		}
		md, err := ds.MapSnapshot(year, metric)
		if err != nil {
			return nil, err
		}
		return md.Stats, nil
	})

	r.MustRegister("regional_trends", []string{"regional_metric", "regional_year_from", "regional_year_to"},
		func(in Inputs) (interface{}, error) {
			metric, from, to, err := regionalControls(in)
			if err != nil {
				return nil, err
			}
			return ds.RegionalTrends(metric, from, to)
		})

	r.MustRegister("regional_rankings", []string{"regional_metric", "regional_year_from", "regional_year_to"},
		func(in Inputs) (interface{}, error) {
			metric, from, to, err := regionalControls(in)
			if err != nil {
				return nil, err
			}
			return ds.RegionalRankings(metric, from, to)
		})

	r.MustRegister("regional_stats", []string{"regional_metric", "regional_year_from", "regional_year_to"},
		func(in Inputs) (interface{}, error) {
			metric, from, to, err := regionalControls(in)
			if err != nil {
				return nil, err
			}
			return ds.RegionalStats(metric, from, to)
		})

	r.MustRegister("extreme_years", []string{"historic_metric", "top_n_years"}, func(in Inputs) (interface{}, error) {
		metric, ok := in.String("historic_metric")
		if !ok {
			return nil, fmt.Errorf("missing input historic_metric")
		}
		topN, ok := in.Int("top_n_years")
		if !ok {
			return nil, fmt.Errorf("missing input top_n_years")
		}
		return ds.ExtremeYears(metric, topN)
	})

	r.MustRegister("monthly_pattern", []string{"monthly_metric", "monthly_stations", "compare_year_a", "compare_year_b"},
		func(in Inputs) (interface{}, error) {
			metric, ok := in.String("monthly_metric")
			if !ok {
				return nil, fmt.Errorf("missing input monthly_metric")
			}
			selection, ok := in.Strings("monthly_stations")
			if !ok {
				return nil, fmt.Errorf("missing input monthly_stations")
			}
			yearA, okA := in.Int("compare_year_a")
			yearB, okB := in.Int("compare_year_b")
			if !okA || !okB {
				return nil, fmt.Errorf("missing comparison years")
			}
			return ds.MonthlyPattern(metric, selection, []int{yearA, yearB})
		})

	r.MustRegister("monthly_changes", []string{"monthly_metric", "monthly_stations"},
		func(in Inputs) (interface{}, error) {
			metric, ok := in.String("monthly_metric")
			if !ok {
				return nil, fmt.Errorf("missing input monthly_metric")
			}
			selection, ok := in.Strings("monthly_stations")
			if !ok {
				return nil, fmt.Errorf("missing input monthly_stations")
			}
			return ds.MonthlyChanges(metric, selection)
		})

	r.MustRegister("timeseries", []string{"ts_metric", "ts_stations"}, func(in Inputs) (interface{}, error) {
		metric, ok := in.String("ts_metric")
		if !ok {
			return nil, fmt.Errorf("missing input ts_metric")
		}
		selection, ok := in.Strings("ts_stations")
		if !ok {
			return nil, fmt.Errorf("missing input ts_stations")
		}
		return ds.TimeSeries(metric, selection)
	})

	r.MustRegister("trend", []string{"trend_metric", "trend_aggregation", "show_trend_line"},
		func(in Inputs) (interface{}, error) {
			metric, ok := in.String("trend_metric")
			if !ok {
				return nil, fmt.Errorf("missing input trend_metric")
			}
			aggregation, ok := in.String("trend_aggregation")
			if !ok {
				return nil, fmt.Errorf("missing input trend_aggregation")
			}
			showTrend, ok := in.Bool("show_trend_line")
			if !ok {
				showTrend = true
			}
			return ds.Trend(metric, aggregation, showTrend)
		})

	r.MustRegister("decade_distribution", []string{"trend_metric"}, func(in Inputs) (interface{}, error) {
		metric, ok := in.String("trend_metric")
		if !ok {
			return nil, fmt.Errorf("missing input trend_metric")
		}
		return ds.DecadeDistribution(metric)
	})

	return r
}

func yearAndMetric(in Inputs, yearInput, metricInput string) (int, string, error) {
	year, ok := in.Int(yearInput)
	if !ok {
		return 0, "", fmt.Errorf("missing input %s", yearInput)
	}
	metric, ok := in.String(metricInput)
	if !ok {
		return 0, "", fmt.Errorf("missing input %s", metricInput)
	}
	return year, metric, nil
}

func regionalControls(in Inputs) (string, int, int, error) {
	metric, ok := in.String("regional_metric")
	if !ok {
		return "", 0, 0, fmt.Errorf("missing input regional_metric")
	}
	from, okFrom := in.Int("regional_year_from")
	to, okTo := in.Int("regional_year_to")
	if !okFrom || !okTo {
		return "", 0, 0, fmt.Errorf("missing regional year range")
	}
	return metric, from, to, nil
}

// PrizeDefaults returns the initial control state for the prizes dashboard.
// An empty selection means all prizes.
func PrizeDefaults() Inputs {
	return Inputs{"prize_selection": []string{}}
}

// PrizeRegistry wires the prizes dashboard panels
func PrizeRegistry(ds *prizes.Dataset) *Registry {
	r := NewRegistry()

	r.MustRegister("distinct_names", nil, func(Inputs) (interface{}, error) {
		return ds.DistinctNames(), nil
	})

	r.MustRegister("awards_by_decade", []string{"prize_selection"}, func(in Inputs) (interface{}, error) {
		selection, ok := in.Strings("prize_selection")
		if !ok {
			return nil, fmt.Errorf("missing input prize_selection")
		}
		return ds.AwardsByDecade(selection), nil
	})

	r.MustRegister("prize_ranking", nil, func(Inputs) (interface{}, error) {
		return ds.Ranking(), nil
	})

	return r
}
