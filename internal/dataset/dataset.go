package dataset

// Spec identifies one file of a published weekly dataset. Files live in the
// data tree as <base>/<year>/<week>/<file>.
type Spec struct {
	Year string
	Week string
	File string
}

// The weekly datasets this toolkit knows about.
var (
	Vesuvius = Spec{Year: "2025", Week: "2025-05-13", File: "vesuvius.csv"}

	FrogObservations = Spec{Year: "2025", Week: "2025-09-02", File: "frogID_data.csv"}
	FrogNames        = Spec{Year: "2025", Week: "2025-09-02", File: "frog_names.csv"}

	StationMeta    = Spec{Year: "2025", Week: "2025-10-21", File: "station_meta.csv"}
	StationMonthly = Spec{Year: "2025", Week: "2025-10-21", File: "historic_station_met.csv"}

	Prizes = Spec{Year: "2025", Week: "2025-10-28", File: "prizes.csv"}
)

// CacheName returns the filename used for the on-disk cache copy
func (s Spec) CacheName() string {
	return s.Week + "_" + s.File
}

// Path returns the URL path below the data tree root
func (s Spec) Path() string {
	return s.Year + "/" + s.Week + "/" + s.File
}
