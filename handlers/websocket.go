package handlers

import (
	"context"
	"net/http"
	"time"

	"ecowattch-server/logger"
	"ecowattch-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Snapshotter produces the current standings message.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

// WSHandler streams dorm standings to websocket subscribers.
type WSHandler struct {
	mgr       *ws.Manager
	standings Snapshotter
	log       *logger.Logger
}

func NewWSHandler(mgr *ws.Manager, standings Snapshotter, log *logger.Logger) *WSHandler {
	return &WSHandler{mgr: mgr, standings: standings, log: log}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleStandingsWS upgrades to websocket, sends the current standings and
// keeps the subscriber registered until it disconnects.
// GET /ws/standings
func (h *WSHandler) HandleStandingsWS(c *gin.Context) {
	if !websocket.IsWebSocketUpgrade(c.Request) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "websocket upgrade required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	id := h.mgr.Register(conn)
	h.log.Info("standings subscriber connected", "subscriber", id)

	defer func() {
		h.mgr.Unregister(id)
		h.log.Info("standings subscriber disconnected", "subscriber", id)
	}()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	snapshot, err := h.standings.Snapshot(ctx)
	cancel()
	if err != nil {
		h.log.Error("failed to load standings", "subscriber", id, "error", err)
		return
	}
	if err := h.mgr.Send(id, snapshot); err != nil {
		h.log.Warn("failed to send standings", "subscriber", id, "error", err)
		return
	}

	// Subscribers only listen; reading drives ping/close handling.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("read error", "subscriber", id, "error", err)
			}
			return
		}
	}
}

// GetSubscribers GET /ws/standings/subscribers
func (h *WSHandler) GetSubscribers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "count": h.mgr.Count()})
}
