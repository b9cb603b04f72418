package quakes

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// scatterDot matches the translucent blue the survey plots use
var scatterDot = drawing.Color{R: 31, G: 119, B: 180, A: 153}

// RenderHourlyChart writes the events-by-hour bar chart as a PNG
func RenderHourlyChart(d *Dataset, w io.Writer) error {
	counts := d.HourlyCounts()

	bars := make([]chart.Value, 0, len(counts))
	for hour, count := range counts {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%d", hour),
			Value: float64(count),
		})
	}

	graph := chart.BarChart{
		Title:      "Earthquakes near Vesuvius by Hour of Day",
		Width:      1000,
		Height:     500,
		BarWidth:   28,
		BarSpacing: 8,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.Style{TextRotationDegrees: 0},
		YAxis: chart.YAxis{
			Name: "Count",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render hourly chart: %w", err)
	}
	return nil
}

// RenderDepthMagnitudeChart writes the depth vs duration-magnitude scatter
// as a PNG. Events missing either value are skipped.
func RenderDepthMagnitudeChart(d *Dataset, w io.Writer) error {
	var xs, ys []float64
	for _, ev := range d.Events {
		if !ev.HasDepth || !ev.HasMagnitude {
			continue
		}
		xs = append(xs, ev.DepthKM)
		ys = append(ys, ev.Magnitude)
	}
	if len(xs) == 0 {
		return fmt.Errorf("render depth chart: no events carry both depth and magnitude")
	}

	graph := chart.Chart{
		Title:  "Earthquake Depth vs. Magnitude",
		Width:  800,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{Name: "Depth (km)"},
		YAxis: chart.YAxis{Name: "Duration Magnitude (Md)"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
					DotColor:    scatterDot,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render depth chart: %w", err)
	}
	return nil
}
