// Package network is the presentation boundary: a WebSocket hub pushing
// simulation events to viewers, and an HTTP API answering ledger queries.
// Everything here reads the ledgers at its own cadence; nothing here runs
// on the simulation's tick path.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/davortega/CargoRutas/server/internal/engine"
	"github.com/davortega/CargoRutas/server/internal/events"
	"github.com/davortega/CargoRutas/server/internal/platform/logger"
	"github.com/davortega/CargoRutas/server/internal/platform/metrics"
	"github.com/davortega/CargoRutas/server/internal/platform/tuning"
)

// Hub maintains the set of active viewer clients and broadcasts simulation
// events to them.
type Hub struct {
	engine     *engine.Engine
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	tun        *tuning.Config
}

// NewHub initializes a new WebSocket hub.
func NewHub(eng *engine.Engine, log *logger.Logger, tun *tuning.Config) *Hub {
	if tun == nil {
		tun = tuning.DefaultConfig()
	}
	return &Hub{
		engine:     eng,
		broadcast:  make(chan []byte, tun.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		tun:        tun,
	}
}

// Run starts the hub's main loop to handle client connections and
// broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.WSClients.Inc()
			h.logger.Info("New viewer client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				metrics.WSClients.Dec()
				h.logger.Info("Viewer client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.trySend(message) {
					metrics.WSMessagesOut.Inc()
				} else {
					client.closeSend()
					delete(h.clients, client)
					metrics.WSClients.Dec()
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastEvent serializes a simulation event and sends it to every
// connected viewer.
func (h *Hub) BroadcastEvent(event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to serialize event for broadcast: " + err.Error())
		return
	}
	h.broadcast <- payload
}

// StartEventPoller spawns a goroutine that polls the event log and pushes
// new events to the hub. The poll cadence is deliberately far slower than
// the simulation tick: the hub is the low-frequency reader of the shared
// state.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog, pollInterval time.Duration) {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		lastProcessedEvent := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				allEvents := eventLog.Replay()
				if len(allEvents) <= lastProcessedEvent {
					continue
				}
				for _, event := range allEvents[lastProcessedEvent:] {
					h.BroadcastEvent(event)
				}
				lastProcessedEvent = len(allEvents)
			}
		}
	}()
}
