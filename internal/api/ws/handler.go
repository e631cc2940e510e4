package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/events"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// subscriberBuffer absorbs bursts of pointer-driven window events
	subscriberBuffer = 256
)

// Message is a frame sent by the browser
type Message struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// Handler manages WebSocket connections
type Handler struct {
	bus      *events.Bus
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. An empty origins list or "*"
// accepts any origin.
func NewHandler(bus *events.Bus, sessions *session.Manager, metrics *monitoring.Metrics, logger *logging.Logger, origins []string) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		bus:      bus,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger.Component("ws"),
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(origins)},
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

// conn serializes writes; gorilla allows one concurrent writer
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// HandleConnection upgrades the request and streams events. With
// ?session=<id> only that session's window events and global events are
// forwarded, and pointer frames drive that session's window manager.
func (h *Handler) HandleConnection(c *gin.Context) {
	var sess *session.Session
	if raw := c.Query("session"); raw != "" {
		if !id.IsSessionID(raw) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
		s, ok := h.sessions.Get(id.SessionID(raw))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		sess = s
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	ws.SetReadLimit(utils.MaxMessageSize)

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	cn := &conn{ws: ws}
	subID, feed, cancel := h.bus.Subscribe(subscriberBuffer)
	done := make(chan struct{})

	logger := h.logger.With(zap.String("subscriber", subID))
	if sess != nil {
		logger = logger.With(zap.String("session_id", sess.ID.String()))
	}
	logger.Debug("WebSocket connected")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.pump(cn, sess, feed, done)
	}()

	defer func() {
		cancel()
		close(done)
		wg.Wait()
		ws.Close()
		logger.Debug("WebSocket disconnected")
	}()

	h.reply(cn, map[string]interface{}{
		"type":    "system",
		"message": "Connected to DeskOS",
	})

	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.metrics.RecordWSMessage("in", metricType(msg.Type))
		h.handle(cn, sess, msg)
	}
}

func (h *Handler) handle(cn *conn, sess *session.Session, msg Message) {
	switch msg.Type {
	case "ping":
		h.reply(cn, map[string]interface{}{"type": "pong"})
	case "pointer_move":
		if sess == nil {
			h.sendError(cn, "pointer events need a session")
			return
		}
		// the resulting window.changed event reaches the client via the bus
		sess.Windows.PointerMove(msg.X, msg.Y)
	case "pointer_up":
		if sess == nil {
			h.sendError(cn, "pointer events need a session")
			return
		}
		sess.Windows.PointerUp()
	default:
		h.sendError(cn, "unknown message type")
	}
}

// metricType bounds the label values clients can create
func metricType(t string) string {
	switch t {
	case "ping", "pointer_move", "pointer_up":
		return t
	default:
		return "unknown"
	}
}

// pump forwards bus events and keeps the connection alive
func (h *Handler) pump(cn *conn, sess *session.Session, feed <-chan events.Event, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-feed:
			if !ok {
				return
			}
			if !forSession(ev, sess) {
				continue
			}
			if err := cn.send(ev); err != nil {
				return
			}
			h.metrics.RecordWSMessage("out", string(ev.Type))
		case <-ticker.C:
			if err := cn.ping(); err != nil {
				return
			}
		}
	}
}

// forSession keeps global events and those of the connection's session
func forSession(ev events.Event, sess *session.Session) bool {
	if sess == nil || ev.SessionID == "" {
		return true
	}
	return ev.SessionID == sess.ID.String()
}

func (h *Handler) reply(cn *conn, data map[string]interface{}) {
	if err := cn.send(data); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
		return
	}
	if t, ok := data["type"].(string); ok {
		h.metrics.RecordWSMessage("out", t)
	}
}

func (h *Handler) sendError(cn *conn, msg string) {
	h.reply(cn, map[string]interface{}{
		"type":    "error",
		"message": msg,
	})
}
