package notification

import (
	"io"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

const heartbeatInterval = 25 * time.Second

type StreamHandler struct {
	hub *Hub
}

func NewStreamHandler(hub *Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

func (h *StreamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications/stream", h.Stream)
}

// Stream holds the connection open and relays hub events as named SSE
// events. The transport owns retry: on drop the browser EventSource (or the
// relay client) reconnects on its own, so no state is kept server-side
// beyond the subscription.
func (h *StreamHandler) Stream(c *gin.Context) {
	userID := c.GetInt64("user_id")

	sub := h.hub.Subscribe(userID)
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	// Connection ack, then relay until the client goes away.
	c.SSEvent(EventHeartbeat, gin.H{"status": "connected"})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			_ = sse.Encode(w, ev)
			return true
		case t := <-heartbeat.C:
			_ = sse.Encode(w, sse.Event{
				Event: EventHeartbeat,
				Data:  gin.H{"ts": t.Unix()},
			})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
