package realtime

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/marketplace/internal/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsMessage is the frame pushed to connected clients.
type wsMessage struct {
	Type  string `json:"type"` // INSERT or UPDATE
	Order any    `json:"order"`
}

// Hub upgrades websocket connections and streams each user's order
// updates from the bridge. Buyers see their purchases, sellers their
// sales.
type Hub struct {
	bridge *Bridge
}

func NewHub(bridge *Bridge) *Hub {
	return &Hub{bridge: bridge}
}

// ServeWS upgrades the request and streams updates until the client
// disconnects. The caller has already authenticated the user.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string, role auth.Role) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Realtime] websocket upgrade failed: %v", err)
		return
	}

	filter := Filter{BuyerID: userID}
	if role == auth.RoleSeller {
		filter = Filter{SellerID: userID}
	}

	updates, unsubscribe := h.bridge.Subscribe(filter)
	client := &client{conn: conn, updates: updates, unsubscribe: unsubscribe}
	go client.writePump()
	go client.readPump()
}

type client struct {
	conn        *websocket.Conn
	updates     <-chan Update
	unsubscribe func()
}

// readPump discards inbound frames; the stream is one-way. It exists to
// process control frames and detect disconnects.
func (c *client) readPump() {
	defer func() {
		c.unsubscribe()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case u, ok := <-c.updates:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			msg := wsMessage{Type: string(u.Op), Order: u.Order}
			if err := c.conn.WriteJSON(msg); err != nil {
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

// Serve is a convenience that runs the bridge loop; callers usually run
// it in a goroutine next to the HTTP server.
func (h *Hub) Serve(ctx context.Context) {
	h.bridge.Run(ctx)
}
