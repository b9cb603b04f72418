package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: downloaded dataset
// cache, rendered artifacts, exported reports, and logs.
type Paths struct {
	ExecutableDir string
	DataDir       string
	CacheDir      string
	OutputDir     string
	ReportsDir    string
	LogsDir       string
	WebDir        string
	StaticDir     string

	// Well-known rendered artifacts (written into OutputDir)
	FrogSpeciesMapHTML string
	FrogHeatmapHTML    string
	FrogEndemismHTML   string
	FrogSeasonalHTML   string
	FrogRangeHTML      string
	QuakeHourlyPNG     string
	QuakeDepthPNG      string

	// Well-known report files (written into ReportsDir)
	StationSummaryXLSX string
	StationAnnualCSV   string
	PrizeNamesCSV      string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are relative to the executable directory, never the working
// directory, so commands behave the same wherever they are invoked from.
//
// Layout:
//
//	<exe dir>/
//	  ├── config.yaml
//	  ├── data/
//	  │   ├── cache/      (downloaded dataset CSVs)
//	  │   ├── output/     (rendered maps and charts)
//	  │   └── reports/    (exported CSV/JSON/XLSX reports)
//	  ├── logs/
//	  └── web/            (dashboard frontend assets)
func GetPaths() (*Paths, error) {
	exeDir, err := executableDir()
	if err != nil {
		return nil, err
	}
	return pathsUnder(exeDir), nil
}

// PathsFrom builds a path set rooted at an explicit base directory, applying
// any overrides from the config. Used by tests and by commands that accept a
// -dir flag.
func PathsFrom(baseDir string, overrides PathsConfig) *Paths {
	p := pathsUnder(baseDir)
	if overrides.DataDir != "" {
		p.DataDir = overrides.DataDir
		p.CacheDir = filepath.Join(overrides.DataDir, "cache")
		p.OutputDir = filepath.Join(overrides.DataDir, "output")
		p.ReportsDir = filepath.Join(overrides.DataDir, "reports")
		p.rebindFiles()
	}
	if overrides.OutputDir != "" {
		p.OutputDir = overrides.OutputDir
		p.rebindFiles()
	}
	if overrides.LogsDir != "" {
		p.LogsDir = overrides.LogsDir
	}
	if overrides.WebDir != "" {
		p.WebDir = overrides.WebDir
		p.StaticDir = filepath.Join(overrides.WebDir, "static")
	}
	return p
}

func pathsUnder(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	p := &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		CacheDir:      filepath.Join(dataDir, "cache"),
		OutputDir:     filepath.Join(dataDir, "output"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(baseDir, "logs"),
		WebDir:        filepath.Join(baseDir, "web"),
		StaticDir:     filepath.Join(baseDir, "web", "static"),
	}
	p.rebindFiles()
	return p
}

// rebindFiles recomputes the well-known artifact paths after a directory change
func (p *Paths) rebindFiles() {
	p.FrogSpeciesMapHTML = filepath.Join(p.OutputDir, "frog_species_map.html")
	p.FrogHeatmapHTML = filepath.Join(p.OutputDir, "frog_species_heatmap.html")
	p.FrogEndemismHTML = filepath.Join(p.OutputDir, "frog_endemism_map.html")
	p.FrogSeasonalHTML = filepath.Join(p.OutputDir, "frog_seasonal_map.html")
	p.FrogRangeHTML = filepath.Join(p.OutputDir, "frog_range_comparison_map.html")
	p.QuakeHourlyPNG = filepath.Join(p.OutputDir, "vesuvius_hourly.png")
	p.QuakeDepthPNG = filepath.Join(p.OutputDir, "vesuvius_depth_magnitude.png")

	p.StationSummaryXLSX = filepath.Join(p.ReportsDir, "station_summary.xlsx")
	p.StationAnnualCSV = filepath.Join(p.ReportsDir, "station_annual.csv")
	p.PrizeNamesCSV = filepath.Join(p.ReportsDir, "prize_names.csv")
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.CacheDir, p.OutputDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetCachePath returns the full path for a cached dataset file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// GetOutputPath returns the full path for a rendered artifact
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetReportPath returns the full path for an exported report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// executableDir resolves the directory containing the running executable,
// following symlinks.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}
