package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"ttcli/internal/config"
	"ttcli/internal/dataset"
	"ttcli/internal/frogs"
	"ttcli/internal/geomap"
	"ttcli/internal/infrastructure"
)

func main() {
	dir := flag.String("dir", "", "base directory for data and logs (defaults to the executable directory)")
	noCache := flag.Bool("no-cache", false, "bypass the on-disk dataset cache")
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

	cfg.Logging.FilePath = paths.GetLogPath("frogmap.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := context.Background()
	client := dataset.NewClient(cfg.Fetch, paths, logger)

	var obsCSV, namesCSV []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		obsCSV, err = client.Fetch(gctx, dataset.FrogObservations)
		return err
	})
	g.Go(func() (err error) {
		namesCSV, err = client.Fetch(gctx, dataset.FrogNames)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to fetch occurrence data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ds, err := frogs.Load(obsCSV, namesCSV)
	if err != nil {
		logger.Error("Failed to load occurrence data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summary := frogs.Summarize(ds)
	endemic := frogs.Endemism(ds)
	seasons := frogs.CallingSeasons(ds)
	ranges := frogs.GeographicRanges(ds)

	frogs.WriteSummary(os.Stdout, summary)
	frogs.WriteEndemism(os.Stdout, endemic)
	frogs.WriteCallingSeasons(os.Stdout, seasons)
	frogs.WriteGeographicRanges(os.Stdout, ranges)

	maps := []struct {
		path string
		m    *geomap.Map
	}{
		{paths.FrogSpeciesMapHTML, frogs.SpeciesMap(ds)},
		{paths.FrogHeatmapHTML, frogs.Heatmap(ds)},
		{paths.FrogEndemismHTML, frogs.EndemismMap(ds, endemic)},
		{paths.FrogSeasonalHTML, frogs.SeasonalMap(ds, seasons)},
		{paths.FrogRangeHTML, frogs.RangeComparisonMap(ds, ranges)},
	}
	for _, entry := range maps {
		if err := entry.m.Save(entry.path); err != nil {
			logger.Error("Failed to write map",
				slog.String("path", entry.path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Map written", slog.String("path", entry.path))
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
