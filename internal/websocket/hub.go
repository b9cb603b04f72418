package websocket

import (
	"context"
	"log/slog"
	"sync"

	"ttcli/internal/infrastructure"
)

// Server message types
const (
	TypeUpdates = "updates"
	TypeError   = "error"
)

// Client message types
const (
	TypeInit      = "init"
	TypeSet       = "set"
	TypeSetAll    = "set_all"
	TypeAction    = "action"
	TypeHeartbeat = "heartbeat"
)

// Hub maintains the set of active dashboard clients. Each client carries
// its own reactive session; the hub handles registration and the rare
// broadcast (dataset reload notices, shutdown).
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics
	running bool
	quit    chan struct{}

	totalConnections  int64
	activeConnections int64
	messagesSent      int64
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("component", "websocket.hub"))

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// SetMetrics attaches the dashboard instruments so the connection gauge
// tracks registrations. Call before Start.
func (h *Hub) SetMetrics(m *infrastructure.DashboardMetrics) {
	h.mu.Lock()
	h.metrics = m
	h.mu.Unlock()
}

// connectionsDelta moves the active connection gauge
func (h *Hub) connectionsDelta(delta int64) {
	if h.metrics != nil {
		h.metrics.ActiveConnections.Add(context.Background(), delta)
	}
}

// Start starts the hub's main loop
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Run processes register, unregister, and broadcast events
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("hub shutting down")
			h.mu.Lock()
			dropped := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.connectionsDelta(int64(-dropped))
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			h.activeConnections = int64(len(h.clients))
			count := len(h.clients)
			h.mu.Unlock()
			h.connectionsDelta(1)

			h.logger.Info("client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

		case client := <-h.unregister:
			h.mu.Lock()
			dropped := false
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				dropped = true
			}
			h.activeConnections = int64(len(h.clients))
			count := len(h.clients)
			h.mu.Unlock()
			if dropped {
				h.connectionsDelta(-1)
			}

			h.logger.Info("client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent++
				default:
					// slow consumer, drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts the hub down
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.running = false
	close(h.quit)
}

// Broadcast sends a message to every connected client
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
