package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ivplatonov/stackd/internal/device"
	"github.com/ivplatonov/stackd/internal/logging"
	"github.com/ivplatonov/stackd/internal/monitoring"
	"github.com/ivplatonov/stackd/internal/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket connections
type Handler struct {
	dev     *device.Device
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(dev *device.Device, log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		dev:     dev,
		log:     log,
		metrics: metrics,
	}
}

// HandleConnection handles WebSocket upgrade and messages. Each connection
// receives presence events as they happen and may poll state on request.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	// Send welcome message
	h.send(conn, map[string]interface{}{
		"type":    "system",
		"message": "Connected to stackd",
		"state":   h.dev.State(),
	})

	subID, events := h.dev.Subscribe()
	defer h.dev.Unsubscribe(subID)

	// The websocket package allows at most one concurrent reader, so client
	// messages are funneled through a channel and handled in the same loop
	// that forwards presence events.
	incoming := make(chan types.WSMessage)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg types.WSMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case incoming <- msg:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := h.send(conn, map[string]interface{}{
				"type":  "presence",
				"event": evt,
			}); err != nil {
				return
			}
		case msg := <-incoming:
			if err := h.handleMessage(conn, msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) handleMessage(conn *websocket.Conn, msg types.WSMessage) error {
	switch msg.Type {
	case "ping":
		return h.send(conn, map[string]interface{}{"type": "pong"})
	case "state":
		return h.send(conn, map[string]interface{}{
			"type":    "state",
			"present": h.dev.Present(),
			"state":   h.dev.State(),
		})
	case "stats":
		s, err := h.dev.Stats()
		if err != nil {
			return h.sendError(conn, "device not present")
		}
		return h.send(conn, map[string]interface{}{
			"type":  "stats",
			"stats": s,
		})
	default:
		return h.sendError(conn, "unknown message type")
	}
}

func (h *Handler) send(conn *websocket.Conn, data map[string]interface{}) error {
	return conn.WriteJSON(data)
}

func (h *Handler) sendError(conn *websocket.Conn, message string) error {
	return h.send(conn, map[string]interface{}{
		"type":  "error",
		"error": message,
	})
}
