package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"ttcli/internal/config"
	"ttcli/internal/infrastructure"
)

// Client downloads weekly dataset CSVs over HTTP with an on-disk cache.
// Downloads are rate limited to stay polite to the upstream host.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	paths      *config.Paths
	noCache    bool
	cacheTTL   time.Duration
	logger     *slog.Logger
	metrics    *infrastructure.DashboardMetrics
}

// NewClient creates a dataset client from the fetch configuration
func NewClient(cfg config.FetchConfig, paths *config.Paths, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		paths:      paths,
		noCache:    cfg.NoCache,
		cacheTTL:   cfg.CacheTTL,
		logger:     logger.With(slog.String("component", "dataset.client")),
	}
}

// SetMetrics attaches the dashboard instruments so fetches and fetch
// failures are counted. A nil receiver value leaves the client unmetered.
func (c *Client) SetMetrics(m *infrastructure.DashboardMetrics) {
	c.metrics = m
}

// countFetch records one served dataset file and where it came from
func (c *Client) countFetch(ctx context.Context, spec Spec, source string) {
	if c.metrics == nil {
		return
	}
	c.metrics.DatasetFetchesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("file", spec.File),
		attribute.String("source", source)))
}

// Fetch returns the raw CSV bytes for a dataset file, serving from the cache
// directory when a fresh copy exists.
func (c *Client) Fetch(ctx context.Context, spec Spec) ([]byte, error) {
	cachePath := c.paths.GetCachePath(spec.CacheName())

	if !c.noCache {
		if data, ok := c.readCache(cachePath); ok {
			c.logger.DebugContext(ctx, "cache hit",
				slog.String("file", spec.File),
				slog.String("cache_path", cachePath))
			c.countFetch(ctx, spec, "cache")
			return data, nil
		}
	}

	data, err := c.download(ctx, spec)
	if err != nil {
		if c.metrics != nil {
			c.metrics.DatasetFetchErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String("file", spec.File)))
		}
		return nil, err
	}
	c.countFetch(ctx, spec, "download")

	if !c.noCache {
		if err := c.writeCache(cachePath, data); err != nil {
			// A failed cache write is not fatal; the data is already in hand.
			c.logger.WarnContext(ctx, "failed to cache dataset",
				slog.String("cache_path", cachePath),
				slog.String("error", err.Error()))
		}
	}

	return data, nil
}

// download performs the HTTP GET for a dataset file
func (c *Client) download(ctx context.Context, spec Spec) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := c.baseURL + "/" + spec.Path()
	c.logger.InfoContext(ctx, "downloading dataset",
		slog.String("file", spec.File),
		slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", spec.File, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download %s: status %d: %s", spec.File, resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", spec.File, err)
	}

	c.logger.InfoContext(ctx, "dataset downloaded",
		slog.String("file", spec.File),
		slog.Int("bytes", len(data)))

	return data, nil
}

// readCache returns the cached bytes if present and within the TTL
func (c *Client) readCache(path string) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.cacheTTL > 0 && time.Since(info.ModTime()) > c.cacheTTL {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// writeCache stores a downloaded file in the cache directory
func (c *Client) writeCache(path string, data []byte) error {
	if err := os.MkdirAll(c.paths.CacheDir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
