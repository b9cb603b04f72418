package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ttcli/internal/config"
	"ttcli/internal/dashboard"
	"ttcli/internal/infrastructure"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer, used
	// when the config leaves it unset
	defaultPongWait = 60 * time.Second

	// Maximum message size allowed from peer; input payloads carry
	// station selections, so this is roomier than a ping frame
	maxMessageSize = 8192
)

// ActionFunc runs a named dashboard action against the client's session
// and returns the resulting panel updates.
type ActionFunc func(session *dashboard.Session) []dashboard.Update

// Client is a middleman between one websocket connection and its
// dashboard session. All session access happens on the read pump
// goroutine.
type Client struct {
	hub     *Hub
	conn    Connection
	session *dashboard.Session
	actions map[string]ActionFunc

	send chan []byte

	pongWait   time.Duration
	pingPeriod time.Duration

	id          string
	remoteAddr  string
	connectedAt time.Time

	logger *slog.Logger

	messagesSent     int64
	messagesReceived int64
}

// NewClient creates a client for a live connection
func NewClient(cfg config.WebSocketConfig, hub *Hub, conn *websocket.Conn, session *dashboard.Session, actions map[string]ActionFunc, logger *slog.Logger) *Client {
	return newClient(cfg, hub, NewConnectionWrapper(conn), session, actions, logger)
}

// NewClientWithConnection creates a client with a custom connection, for tests
func NewClientWithConnection(cfg config.WebSocketConfig, hub *Hub, conn Connection, session *dashboard.Session, actions map[string]ActionFunc, logger *slog.Logger) *Client {
	return newClient(cfg, hub, conn, session, actions, logger)
}

func newClient(cfg config.WebSocketConfig, hub *Hub, conn Connection, session *dashboard.Session, actions map[string]ActionFunc, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)

	pongWait := cfg.PongWait
	if pongWait <= 0 {
		pongWait = defaultPongWait
	}
	pingPeriod := cfg.PingPeriod
	if pingPeriod <= 0 || pingPeriod >= pongWait {
		// pings must arrive before the pong deadline passes
		pingPeriod = pongWait * 9 / 10
	}

	return &Client{
		hub:         hub,
		conn:        conn,
		session:     session,
		actions:     actions,
		send:        make(chan []byte, 256),
		pongWait:    pongWait,
		pingPeriod:  pingPeriod,
		id:          id,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger:      logger,
	}
}

type clientMessage struct {
	Type    string                 `json:"type"`
	Input   string                 `json:"input,omitempty"`
	Value   interface{}            `json:"value,omitempty"`
	Changes map[string]interface{} `json:"changes,omitempty"`
	Name    string                 `json:"name,omitempty"`
}

type serverMessage struct {
	Type    string             `json:"type"`
	Updates []dashboard.Update `json:"updates,omitempty"`
	Message string             `json:"message,omitempty"`
}

// Handle processes one decoded client message and returns the reply, or
// nil when no reply is due.
func (c *Client) Handle(msg clientMessage) *serverMessage {
	switch msg.Type {
	case TypeHeartbeat:
		return nil

	case TypeInit:
		return c.updatesReply(c.session.ComputeAll)

	case TypeSet:
		if msg.Input == "" {
			return &serverMessage{Type: TypeError, Message: "set requires an input name"}
		}
		return c.updatesReply(func() []dashboard.Update {
			return c.session.Set(msg.Input, msg.Value)
		})

	case TypeSetAll:
		if len(msg.Changes) == 0 {
			return &serverMessage{Type: TypeError, Message: "set_all requires changes"}
		}
		return c.updatesReply(func() []dashboard.Update {
			return c.session.SetAll(dashboard.Inputs(msg.Changes))
		})

	case TypeAction:
		action, ok := c.actions[msg.Name]
		if !ok {
			return &serverMessage{Type: TypeError, Message: fmt.Sprintf("unknown action %q", msg.Name)}
		}
		return c.updatesReply(func() []dashboard.Update {
			return action(c.session)
		})

	default:
		return &serverMessage{Type: TypeError, Message: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
}

// updatesReply runs a session recompute, counting the recomputed panels
// and the compute time against the hub's instruments.
func (c *Client) updatesReply(compute func() []dashboard.Update) *serverMessage {
	start := time.Now()
	updates := compute()
	if c.hub != nil && c.hub.metrics != nil {
		ctx := context.Background()
		c.hub.metrics.PanelRecomputes.Add(ctx, int64(len(updates)))
		c.hub.metrics.PanelComputeSeconds.Record(ctx, time.Since(start).Seconds())
	}
	return &serverMessage{Type: TypeUpdates, Updates: updates}
}

// ReadPump pumps messages from the websocket connection into the session
func (c *Client) ReadPump() {
	defer func() {
		c.logger.Info("websocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived))
		// a stopped hub no longer drains unregister
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(c.pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("unexpected websocket close", slog.String("error", err.Error()))
			}
			break
		}
		c.messagesReceived++

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(&serverMessage{Type: TypeError, Message: "malformed message"})
			continue
		}

		if reply := c.Handle(msg); reply != nil {
			c.reply(reply)
		}
	}
}

func (c *Client) reply(msg *serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal server message", slog.String("error", err.Error()))
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message")
	}
}

// WritePump pumps messages from the send channel to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.Info("websocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent))
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("write message", slog.String("error", err.Error()))
				return
			}
			c.messagesSent++

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// ServeWS registers a new client and starts its pumps
func ServeWS(cfg config.WebSocketConfig, hub *Hub, conn *websocket.Conn, session *dashboard.Session, actions map[string]ActionFunc, logger *slog.Logger) {
	client := NewClient(cfg, hub, conn, session, actions, logger)
	select {
	case client.hub.register <- client:
	case <-client.hub.quit:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
