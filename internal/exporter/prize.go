package exporter

import (
	"log/slog"
	"strconv"

	"ttcli/internal/config"
	"ttcli/internal/prizes"
)

// PrizeExporter writes the prize report artifacts
type PrizeExporter struct {
	paths *config.Paths
	csv   *CSVWriter
}

// NewPrizeExporter creates a prize exporter
func NewPrizeExporter(paths *config.Paths, logger *slog.Logger) *PrizeExporter {
	return &PrizeExporter{paths: paths, csv: NewCSVWriter(logger)}
}

// ExportNamesCSV writes the distinct prize names with their award counts
func (e *PrizeExporter) ExportNamesCSV(ds *prizes.Dataset) error {
	ranking := ds.Ranking()
	records := make([][]string, 0, len(ranking))
	for _, pc := range ranking {
		records = append(records, []string{pc.PrizeName, strconv.Itoa(pc.Count)})
	}
	return e.csv.WriteCSV(e.paths.PrizeNamesCSV, WriteOptions{
		Headers: []string{"prize_name", "awards"},
		Records: records,
	})
}
