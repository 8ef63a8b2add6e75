package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"assetpulse/internal/stream"
	"assetpulse/pkg/logger"
)

// StreamHandler upgrades websocket connections onto the stream hub
type StreamHandler struct {
	hub      *stream.Hub
	upgrader websocket.Upgrader
}

// NewStreamHandler creates stream handler
func NewStreamHandler(hub *stream.Hub) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboards connect from arbitrary origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades the request and attaches the client to the hub
// GET /v1/stream
func (h *StreamHandler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WarnCtx(c.Request.Context(), "websocket upgrade failed: %v", err)
		return
	}

	client := stream.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
