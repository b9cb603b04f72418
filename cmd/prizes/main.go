package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"ttcli/internal/config"
	"ttcli/internal/dataset"
	"ttcli/internal/exporter"
	"ttcli/internal/infrastructure"
	"ttcli/internal/prizes"
)

func main() {
	dir := flag.String("dir", "", "base directory for data and logs (defaults to the executable directory)")
	noCache := flag.Bool("no-cache", false, "bypass the on-disk dataset cache")
	export := flag.Bool("export", false, "also write the prize ranking CSV report")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *noCache {
		cfg.Fetch.NoCache = true
	}

	paths, err := resolvePaths(cfg, *dir)
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath("prizes.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := context.Background()
	client := dataset.NewClient(cfg.Fetch, paths, logger)

	raw, err := client.Fetch(ctx, dataset.Prizes)
	if err != nil {
		logger.Error("Failed to fetch prize data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ds, err := prizes.Load(raw)
	if err != nil {
		logger.Error("Failed to parse prize data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ds.WriteNames(os.Stdout)

	if *export {
		if err := exporter.NewPrizeExporter(paths, logger).ExportNamesCSV(ds); err != nil {
			logger.Error("Failed to export prize ranking", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Report written", slog.String("path", paths.PrizeNamesCSV))
	}
}

func resolvePaths(cfg *config.Config, dir string) (*config.Paths, error) {
	if dir != "" {
		return config.PathsFrom(dir, cfg.Paths), nil
	}
	paths, err := config.GetPaths()
	if err != nil {
		return nil, err
	}
	return config.PathsFrom(paths.ExecutableDir, cfg.Paths), nil
}
