package httpgin

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/eventhub/internal/domain"
)

// @Summary   Live event changes (Server-Sent Events)
// @Tags      events
// @Produce   text/event-stream
// @Success   200  {object}  domain.EventChanged  "event: event_changed"
// @Failure   503  {object}  ErrorResponse
// @Router    /events/stream [get]
func (h *handlers) stream(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "live updates are disabled"})
		return
	}

	client := h.Hub.Register()
	defer h.Hub.Unregister(client)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(h.StreamHeartbeat)
	defer heartbeat.Stop()

	c.SSEvent("ready", gin.H{"ts_unix": time.Now().Unix()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, ok := <-client.C:
			if !ok {
				return false
			}
			c.SSEvent(domain.EventChangedType, msg)
			return true
		case t := <-heartbeat.C:
			c.SSEvent("ping", t.Unix())
			return true
		}
	})
}
