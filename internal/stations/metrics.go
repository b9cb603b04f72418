package stations

// Metric describes one dashboard metric and its display palette
type Metric struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Unit    string   `json:"unit"`
	Palette []string `json:"palette"`
}

// MetricKeys in registry order
var MetricKeys = []string{"tmax", "tmin", "rain", "sun", "af"}

// Metrics is the dashboard metric registry
var Metrics = map[string]Metric{
	"tmax": {
		Key:     "tmax",
		Name:    "Max Temperature",
		Unit:    "°C",
		Palette: []string{"#313695", "#74add1", "#ffffbf", "#f46d43", "#a50026"},
	},
	"tmin": {
		Key:     "tmin",
		Name:    "Min Temperature",
		Unit:    "°C",
		Palette: []string{"#313695", "#74add1", "#ffffbf", "#f46d43", "#a50026"},
	},
	"rain": {
		Key:     "rain",
		Name:    "Total Rainfall",
		Unit:    "mm",
		Palette: []string{"#f7fbff", "#c6dbef", "#6baed6", "#2171b5", "#08306b"},
	},
	"sun": {
		Key:     "sun",
		Name:    "Total Sunshine",
		Unit:    "hours",
		Palette: []string{"#ffffcc", "#fed976", "#fd8d3c", "#e31a1c", "#800026"},
	},
	"af": {
		Key:     "af",
		Name:    "Air Frost Days",
		Unit:    "days",
		Palette: []string{"#fcfbfd", "#dadaeb", "#9e9ac8", "#6a51a3", "#3f007d"},
	},
}

// ValidMetric reports whether key names a registered metric
func ValidMetric(key string) bool {
	_, ok := Metrics[key]
	return ok
}
