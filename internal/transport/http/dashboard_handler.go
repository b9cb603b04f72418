package http

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	gorilla "github.com/gorilla/websocket"

	"ttcli/internal/config"
	"ttcli/internal/dashboard"
	apierrors "ttcli/internal/errors"
	"ttcli/internal/infrastructure"
	ws "ttcli/internal/websocket"
)

// defaultBufferSize backs the upgrader when the config leaves the
// websocket buffer sizes unset
const defaultBufferSize = 1024

// Board bundles one dashboard's registry, default input state, and its
// named actions.
type Board struct {
	Name     string
	Registry *dashboard.Registry
	Defaults dashboard.Inputs
	Actions  map[string]ws.ActionFunc
}

// DashboardHandler serves the reactive boards over REST and websocket
type DashboardHandler struct {
	boards   map[string]*Board
	order    []string
	hub      *ws.Hub
	cfg      config.WebSocketConfig
	metrics  *infrastructure.DashboardMetrics
	upgrader gorilla.Upgrader
	logger   *slog.Logger
}

// NewDashboardHandler creates a dashboard handler for the given boards.
// The websocket config sizes the upgrader buffers and sets the
// per-connection ping timing; metrics may be nil.
func NewDashboardHandler(cfg config.WebSocketConfig, hub *ws.Hub, metrics *infrastructure.DashboardMetrics, logger *slog.Logger, boards ...*Board) *DashboardHandler {
	readBuf := cfg.ReadBufferSize
	if readBuf <= 0 {
		readBuf = defaultBufferSize
	}
	writeBuf := cfg.WriteBufferSize
	if writeBuf <= 0 {
		writeBuf = defaultBufferSize
	}

	h := &DashboardHandler{
		boards:  make(map[string]*Board, len(boards)),
		hub:     hub,
		cfg:     cfg,
		metrics: metrics,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
		},
		logger: logger.With(slog.String("component", "dashboard_handler")),
	}
	for _, b := range boards {
		h.boards[b.Name] = b
		h.order = append(h.order, b.Name)
	}
	return h
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListBoards)
	r.Route("/{board}", func(r chi.Router) {
		r.Use(h.BoardCtx)
		r.Get("/meta", h.Meta)
		r.Post("/compute", h.Compute)
	})
	return r
}

// BoardCtx validates the board URL parameter
func (h *DashboardHandler) BoardCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "board")
		if _, ok := h.boards[name]; !ok {
			render.Render(w, r, apierrors.NotFoundError("board"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListBoards handles GET /api/dashboard
func (h *DashboardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"boards": h.order})
}

type boardMeta struct {
	Board    string           `json:"board"`
	Outputs  []string         `json:"outputs"`
	Inputs   []string         `json:"inputs"`
	Defaults dashboard.Inputs `json:"defaults"`
	Actions  []string         `json:"actions"`
}

// Meta handles GET /api/dashboard/{board}/meta
func (h *DashboardHandler) Meta(w http.ResponseWriter, r *http.Request) {
	board := h.boards[chi.URLParam(r, "board")]

	meta := boardMeta{
		Board:    board.Name,
		Outputs:  board.Registry.Outputs(),
		Inputs:   board.Registry.Inputs(),
		Defaults: board.Defaults,
	}
	for name := range board.Actions {
		meta.Actions = append(meta.Actions, name)
	}
	sort.Strings(meta.Actions)
	render.JSON(w, r, meta)
}

type computeRequest struct {
	Changes map[string]interface{} `json:"changes"`
}

type computeResponse struct {
	Board   string             `json:"board"`
	Updates []dashboard.Update `json:"updates"`
}

// Compute handles POST /api/dashboard/{board}/compute. With changes it
// returns only the affected panels; without, the full initial render.
func (h *DashboardHandler) Compute(w http.ResponseWriter, r *http.Request) {
	board := h.boards[chi.URLParam(r, "board")]

	var req computeRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Render(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}

	session := dashboard.NewSession(board.Registry, board.Defaults)
	start := time.Now()
	var updates []dashboard.Update
	if len(req.Changes) > 0 {
		updates = session.SetAll(dashboard.Inputs(req.Changes))
	} else {
		updates = session.ComputeAll()
	}
	if h.metrics != nil {
		h.metrics.PanelRecomputes.Add(r.Context(), int64(len(updates)))
		h.metrics.PanelComputeSeconds.Record(r.Context(), time.Since(start).Seconds())
	}

	render.JSON(w, r, computeResponse{Board: board.Name, Updates: updates})
}

// ServeWS handles GET /ws/{board}: upgrades the connection and starts a
// client with a fresh session.
func (h *DashboardHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "board")
	board, ok := h.boards[name]
	if !ok {
		render.Render(w, r, apierrors.NotFoundError("board"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.String("board", name),
			slog.String("error", err.Error()))
		return
	}

	session := dashboard.NewSession(board.Registry, board.Defaults)
	ws.ServeWS(h.cfg, h.hub, conn, session, board.Actions, h.logger)
}
