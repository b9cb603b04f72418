package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"

	"ttcli/internal/config"
	"ttcli/internal/dataset"
	"ttcli/internal/infrastructure"
	"ttcli/internal/quakes"
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

	cfg.Logging.FilePath = paths.GetLogPath("vesuvius.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := context.Background()
	client := dataset.NewClient(cfg.Fetch, paths, logger)

	raw, err := client.Fetch(ctx, dataset.Vesuvius)
	if err != nil {
		logger.Error("Failed to fetch seismic catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalog, err := quakes.Load(raw)
	if err != nil {
		logger.Error("Failed to parse seismic catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	quakes.WriteSummary(os.Stdout, catalog)

	charts := []struct {
		path   string
		render func(*quakes.Dataset, io.Writer) error
	}{
		{paths.QuakeHourlyPNG, quakes.RenderHourlyChart},
		{paths.QuakeDepthPNG, quakes.RenderDepthMagnitudeChart},
	}
	for _, c := range charts {
		if err := writeChart(c.path, catalog, c.render); err != nil {
			logger.Error("Failed to render chart",
				slog.String("path", c.path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Chart written", slog.String("path", c.path))
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

func writeChart(path string, catalog *quakes.Dataset, render func(*quakes.Dataset, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(catalog, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
