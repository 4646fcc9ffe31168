package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vladimiradmaev/calorie-tracker/internal/changes"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

const (
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Changes streams change notifications over a websocket. The optional
// "entities" query lists the tables to watch, comma separated.
func (h *Handler) Changes(c *gin.Context) {
	if h.hub == nil {
		c.AbortWithStatusJSON(http.StatusNotImplemented, errorResponse{Error: "change stream is not configured"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(parseEntities(c.Query("entities"))...)
	defer sub.Close()

	// The read loop only detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-sub.C():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func parseEntities(raw string) []changes.Entity {
	var out []changes.Entity
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, changes.Entity(part))
		}
	}
	return out
}
