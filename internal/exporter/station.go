package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"ttcli/internal/config"
	"ttcli/internal/stations"
)

// StationExporter writes station report artifacts under Paths.ReportsDir
type StationExporter struct {
	paths  *config.Paths
	csv    *CSVWriter
	logger *slog.Logger
}

// NewStationExporter creates a station exporter
func NewStationExporter(paths *config.Paths, logger *slog.Logger) *StationExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &StationExporter{
		paths:  paths,
		csv:    NewCSVWriter(logger),
		logger: logger,
	}
}

var annualHeaders = []string{"station", "station_name", "year", "region", "tmax", "tmin", "rain", "sun", "af"}

// ExportAnnualCSV writes the annual aggregates table
func (e *StationExporter) ExportAnnualCSV(ds *stations.Dataset) error {
	records := make([][]string, 0, len(ds.Annual))
	for _, rec := range ds.Annual {
		row := []string{
			rec.Station,
			rec.StationName,
			strconv.Itoa(rec.Year),
			rec.Region,
		}
		for _, metric := range stations.MetricKeys {
			if v, ok := rec.Values[metric]; ok {
				row = append(row, strconv.FormatFloat(v, 'f', 1, 64))
			} else {
				row = append(row, "")
			}
		}
		records = append(records, row)
	}

	return e.csv.WriteCSV(e.paths.StationAnnualCSV, WriteOptions{
		Headers:   annualHeaders,
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportSummaryXLSX writes the station summary workbook: a station sheet,
// the annual aggregates, and per-metric regional statistics over the full
// year range.
func (e *StationExporter) ExportSummaryXLSX(ds *stations.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	const stationSheet = "Stations"
	f.SetSheetName("Sheet1", stationSheet)

	setRow := func(sheet string, row int, values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := setRow(stationSheet, 1, []interface{}{"station", "station_name", "lat", "lng", "region"}); err != nil {
		return fmt.Errorf("write station headers: %w", err)
	}
	for i, s := range ds.Stations {
		values := []interface{}{s.ID, s.Name, s.Lat, s.Lon, s.Region}
		if err := setRow(stationSheet, i+2, values); err != nil {
			return fmt.Errorf("write station row: %w", err)
		}
	}

	const annualSheet = "Annual"
	if _, err := f.NewSheet(annualSheet); err != nil {
		return fmt.Errorf("create annual sheet: %w", err)
	}
	headers := make([]interface{}, len(annualHeaders))
	for i, h := range annualHeaders {
		headers[i] = h
	}
	if err := setRow(annualSheet, 1, headers); err != nil {
		return fmt.Errorf("write annual headers: %w", err)
	}
	for i, rec := range ds.Annual {
		values := []interface{}{rec.Station, rec.StationName, rec.Year, rec.Region}
		for _, metric := range stations.MetricKeys {
			if v, ok := rec.Values[metric]; ok {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}
		if err := setRow(annualSheet, i+2, values); err != nil {
			return fmt.Errorf("write annual row: %w", err)
		}
	}

	const regionalSheet = "Regional"
	if _, err := f.NewSheet(regionalSheet); err != nil {
		return fmt.Errorf("create regional sheet: %w", err)
	}
	if err := setRow(regionalSheet, 1, []interface{}{"metric", "region", "mean", "std_dev", "min", "max"}); err != nil {
		return fmt.Errorf("write regional headers: %w", err)
	}
	row := 2
	for _, metric := range stations.MetricKeys {
		regionStats, err := ds.RegionalStats(metric, minOf(ds.Years), maxOf(ds.Years))
		if err != nil {
			return fmt.Errorf("regional stats for %s: %w", metric, err)
		}
		for _, rs := range regionStats {
			values := []interface{}{metric, rs.Region, rs.Mean, rs.StdDev, rs.Min, rs.Max}
			if err := setRow(regionalSheet, row, values); err != nil {
				return fmt.Errorf("write regional row: %w", err)
			}
			row++
		}
	}

	e.logger.Info("writing station summary workbook",
		slog.String("path", e.paths.StationSummaryXLSX),
		slog.Int("stations", len(ds.Stations)),
		slog.Int("annual_rows", len(ds.Annual)))

	if err := f.SaveAs(e.paths.StationSummaryXLSX); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func minOf(years []int) int {
	if len(years) == 0 {
		return 0
	}
	return years[0]
}

func maxOf(years []int) int {
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}
