package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"ttcli/internal/config"
	"ttcli/internal/dashboard"
	"ttcli/internal/dataset"
	"ttcli/internal/infrastructure"
	customMiddleware "ttcli/internal/middleware"
	"ttcli/internal/prizes"
	"ttcli/internal/stations"
	handlers "ttcli/internal/transport/http"
	ws "ttcli/internal/websocket"
)

const (
	AppName = "TidyTuesday Explorer"
	Version = infrastructure.ServiceVersion
)

// randomSelectionSize is how many stations the select_random action picks
// for the time series tab.
const randomSelectionSize = 5

// Datasets holds the weekly datasets the dashboard boards are built from.
// Both are loaded once at startup; boards share them read-only.
type Datasets struct {
	Stations *stations.Dataset
	Prizes   *prizes.Dataset
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Hub           *ws.Hub
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	Datasets      *Datasets

	dashboardHandler *handlers.DashboardHandler
	healthHandler    *handlers.HealthHandler
}

// NewApplication creates a new application instance: it loads configuration,
// initializes logging and telemetry, downloads the weekly datasets, builds
// the reactive boards, and assembles the router and server.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	paths = config.PathsFrom(paths.ExecutableDir, cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	var metrics *infrastructure.DashboardMetrics
	if providers.Meter != nil {
		metrics, err = infrastructure.CreateDashboardMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Hub:           ws.NewHub(logger),
	}
	a.Hub.SetMetrics(metrics)

	if err := a.loadDatasets(ctx); err != nil {
		return nil, err
	}

	a.buildHandlers()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// loadDatasets fetches the station and prize datasets concurrently and
// parses them into the in-memory form the boards compute from.
func (a *Application) loadDatasets(ctx context.Context) error {
	client := dataset.NewClient(a.Config.Fetch, a.Paths, a.Logger)
	client.SetMetrics(a.Metrics)

	var metaCSV, monthlyCSV, prizeCSV []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		metaCSV, err = client.Fetch(gctx, dataset.StationMeta)
		return err
	})
	g.Go(func() (err error) {
		monthlyCSV, err = client.Fetch(gctx, dataset.StationMonthly)
		return err
	})
	g.Go(func() (err error) {
		prizeCSV, err = client.Fetch(gctx, dataset.Prizes)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to fetch datasets: %w", err)
	}

	stationDS, err := stations.Load(metaCSV, monthlyCSV)
	if err != nil {
		return fmt.Errorf("failed to load station dataset: %w", err)
	}
	prizeDS, err := prizes.Load(prizeCSV)
	if err != nil {
		return fmt.Errorf("failed to load prize dataset: %w", err)
	}

	a.Datasets = &Datasets{Stations: stationDS, Prizes: prizeDS}
	a.Logger.InfoContext(ctx, "datasets loaded",
		slog.Int("stations", len(stationDS.Stations)),
		slog.Int("station_years", len(stationDS.Years)),
		slog.Int("prize_awards", len(prizeDS.Awards)))
	return nil
}

// buildHandlers assembles the reactive boards and their HTTP handlers
func (a *Application) buildHandlers() {
	boards := Boards(a.Datasets)
	names := make([]string, 0, len(boards))
	for _, b := range boards {
		names = append(names, b.Name)
	}

	a.dashboardHandler = handlers.NewDashboardHandler(a.Config.WebSocket, a.Hub, a.Metrics, a.Logger, boards...)
	a.healthHandler = handlers.NewHealthHandler(Version, names)
}

// Boards builds the reactive boards served by the dashboard from the loaded
// datasets. The station board carries the two selection actions its time
// series tab exposes.
func Boards(ds *Datasets) []*handlers.Board {
	stationBoard := &handlers.Board{
		Name:     "stations",
		Registry: dashboard.StationRegistry(ds.Stations),
		Defaults: dashboard.StationDefaults(ds.Stations),
		Actions: map[string]ws.ActionFunc{
			"select_random": func(s *dashboard.Session) []dashboard.Update {
				picked := ds.Stations.RandomStations(randomSelectionSize, rand.Intn)
				return s.Set("ts_stations", picked)
			},
			"clear_selection": func(s *dashboard.Session) []dashboard.Update {
				return s.Set("ts_stations", []string{})
			},
		},
	}

	prizeBoard := &handlers.Board{
		Name:     "prizes",
		Registry: dashboard.PrizeRegistry(ds.Prizes),
		Defaults: dashboard.PrizeDefaults(),
	}

	return []*handlers.Board{stationBoard, prizeBoard}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware ahead of the websocket route: nothing here may
	// wrap the ResponseWriter or the upgrade fails.
	r.Use(customMiddleware.RequestID)

	r.HandleFunc("/ws/{board}", a.dashboardHandler.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		if a.Metrics != nil {
			r.Use(customMiddleware.Metrics(a.Metrics))
		}
		if a.Config.Server.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Server.RateLimit.RPS,
				a.Config.Server.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupStaticRoutes(r)
	})

	// Prometheus scrape endpoint stays outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", a.healthHandler.HealthCheck)
		r.Get("/version", a.healthHandler.Version)

		r.Mount("/dashboard", a.dashboardHandler.Routes())
	})
}

// setupStaticRoutes serves the dashboard frontend from the web directory
func (a *Application) setupStaticRoutes(r chi.Router) {
	r.Route("/static", func(r chi.Router) {
		r.Use(chimiddleware.Compress(5))
		r.Handle("/*", http.StripPrefix("/static", http.FileServer(http.Dir(a.Paths.StaticDir))))
	})

	index := filepath.Join(a.Paths.WebDir, "index.html")
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, index)
	})
}

// createServer builds the HTTP server around the router
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the websocket hub and the HTTP server. A server error
// cancels the supplied context so Run can begin shutdown.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.Logger.InfoContext(ctx, "Application paths",
		slog.String("executable_dir", a.Paths.ExecutableDir),
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("web_dir", a.Paths.WebDir),
		slog.String("logs_dir", a.Paths.LogsDir))

	a.Hub.Start()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
