package network

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// ViewerCommand represents an incoming request from a connected viewer.
type ViewerCommand struct {
	Type     string `json:"type"`      // "TOTALS" or "REPORT"
	EntityID string `json:"entity_id"` // Which tracked entity to query
}

// Client holds one viewer connection and its outbound queue. Both the hub
// and the client's own read pump enqueue on send, so the channel close is
// guarded: trySend and closeSend are the only two operations allowed on it.
type Client struct {
	hub             *Hub
	conn            *websocket.Conn
	send            chan []byte
	sendMu          sync.Mutex
	sendClosed      bool
	lastCommandTime time.Time
}

// NewClient creates a new WebSocket viewer client.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.tun.ClientSendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// trySend enqueues a message for the write pump without blocking. It reports
// false when the queue is full or already closed.
func (c *Client) trySend(message []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend shuts the outbound queue exactly once. Safe to call from the hub
// while the read pump is still running.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		var cmd ViewerCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Error("Failed to parse ViewerCommand from WebSocket. err: " + err.Error())
			continue
		}

		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd ViewerCommand) {
	// Viewer queries are cheap but not free; cap the per-client rate.
	minInterval := time.Second / time.Duration(c.hub.tun.MaxCommandsPerSecond)
	if time.Since(c.lastCommandTime) < minInterval {
		c.hub.logger.Warn("Rate limit exceeded for viewer command on entity " + cmd.EntityID)
		return
	}
	c.lastCommandTime = time.Now()

	switch cmd.Type {
	case "TOTALS":
		c.handleTotals(cmd.EntityID)
	case "REPORT":
		c.handleReport(cmd.EntityID)
	default:
		c.hub.logger.Warn("Unknown ViewerCommand type: " + cmd.Type)
	}
}

func (c *Client) handleTotals(entityID string) {
	totals := c.hub.engine.GetResolver().CategoryTotals(context.Background(), entityID)

	payload, err := json.Marshal(map[string]interface{}{
		"type":      "TOTALS",
		"entity_id": entityID,
		"totals":    totals,
	})
	if err != nil {
		c.hub.logger.Error("Failed to marshal totals response: " + err.Error())
		return
	}
	if !c.trySend(payload) {
		c.hub.logger.Warn("Dropped totals response for slow viewer on entity " + entityID)
	}
}

func (c *Client) handleReport(entityID string) {
	v := c.hub.engine.GetResolver().Vehicle(entityID)
	if v == nil {
		c.hub.logger.Warn("Viewer requested report for unknown entity: " + entityID)
		return
	}

	var buf bytes.Buffer
	v.Ledger.WriteReport(&buf, v.Name)
	if !c.trySend(buf.Bytes()) {
		c.hub.logger.Warn("Dropped ledger report for slow viewer on entity " + entityID)
		return
	}
	c.hub.logger.Event("VIEWER_REPORT", entityID, "Ledger report pushed to viewer")
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests from the dev frontend
	},
}

// ServeWs handles websocket requests from a viewer.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	if hub.ClientCount() >= hub.tun.MaxViewerClients {
		http.Error(w, "viewer limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("Failed to upgrade websocket connection")
		return
	}

	client := NewClient(hub, conn)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
