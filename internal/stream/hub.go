package stream

import (
	"encoding/json"
	"sync"

	"assetpulse/internal/model"
	"assetpulse/pkg/logger"
	"assetpulse/pkg/metrics"
)

// Hub maintains the set of connected stream clients and fans out
// health updates to all of them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a stream hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes register, unregister and broadcast events until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.StreamClientsGauge.Inc()
			logger.Debugf("Stream client connected: %s", client.conn.RemoteAddr())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.StreamClientsGauge.Dec()
				logger.Debugf("Stream client disconnected: %s", client.conn.RemoteAddr())
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client cannot keep up, drop it
					delete(h.clients, client)
					close(client.send)
					metrics.StreamClientsGauge.Dec()
					logger.Warnf("Stream client %s send buffer full, removing", client.conn.RemoteAddr())
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
				metrics.StreamClientsGauge.Dec()
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and disconnects all clients
func (h *Hub) Stop() {
	close(h.done)
}

// Register adds a client to the hub. A no-op once the hub has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastHealthUpdate pushes a health update to all connected clients
func (h *Hub) BroadcastHealthUpdate(update *model.HealthUpdate) {
	message, err := json.Marshal(map[string]interface{}{
		"type":    "health_update",
		"payload": update,
	})
	if err != nil {
		logger.Errorf("Failed to marshal health update: %v", err)
		return
	}

	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// BroadcastAlert pushes a newly raised alert to all connected clients
func (h *Hub) BroadcastAlert(macAddress string, alert model.Alert) {
	message, err := json.Marshal(map[string]interface{}{
		"type": "alert",
		"payload": map[string]interface{}{
			"mac_address": macAddress,
			"alert":       alert,
		},
	})
	if err != nil {
		logger.Errorf("Failed to marshal alert broadcast: %v", err)
		return
	}

	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}
