package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamMetrics pushes the realtime snapshot on a fixed cadence until the
// client goes away. Fetch failures are sent as error frames so the client
// can distinguish a degraded device from a dead socket.
func (s *Server) streamMetrics(c *gin.Context) {
	s.stream(c, func() (any, error) {
		return s.service.Realtime(c.Request.Context())
	})
}

// streamCPU pushes per-core frequency records on the same cadence.
func (s *Server) streamCPU(c *gin.Context) {
	s.stream(c, func() (any, error) {
		return s.service.Frequency(c.Request.Context())
	})
}

func (s *Server) stream(c *gin.Context, fetch func() (any, error)) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("Websocket upgrade failed", "path", c.FullPath(), "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.streamInterval)
	defer ticker.Stop()

	for {
		payload, fetchErr := fetch()
		var writeErr error
		if fetchErr != nil {
			writeErr = conn.WriteJSON(gin.H{"error": fetchErr.Error()})
		} else {
			writeErr = conn.WriteJSON(payload)
		}
		if writeErr != nil {
			s.logger.Debug("Websocket client gone", "path", c.FullPath(), "error", writeErr, "expected", true)
			return
		}

		select {
		case <-ticker.C:
		case <-c.Request.Context().Done():
			return
		}
	}
}
