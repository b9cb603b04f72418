package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"ttcli/internal/app"
	"ttcli/internal/exporter"
)

func main() {
	exportReports := flag.Bool("export-reports", false, "write the station CSV and XLSX reports instead of serving")
	flag.Parse()

	application, err := app.NewApplication(context.Background())
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if *exportReports {
		ex := exporter.NewStationExporter(application.Paths, application.Logger)
		if err := ex.ExportAnnualCSV(application.Datasets.Stations); err != nil {
			application.Logger.Error("Failed to export annual CSV", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := ex.ExportSummaryXLSX(application.Datasets.Stations); err != nil {
			application.Logger.Error("Failed to export summary workbook", slog.String("error", err.Error()))
			os.Exit(1)
		}
		application.Logger.Info("Reports written",
			slog.String("annual_csv", application.Paths.StationAnnualCSV),
			slog.String("summary_xlsx", application.Paths.StationSummaryXLSX))
		return
	}

	if err := application.Run(); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
