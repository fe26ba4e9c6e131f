package wsrouter

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn serializes writes to a websocket connection. gorilla/websocket allows
// one concurrent writer only.
type Conn struct {
	*websocket.Conn
	mu sync.Mutex
}

func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{Conn: conn}
}

func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.Conn.WriteJSON(v)
}

func (c *Conn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.Conn.WriteMessage(messageType, data)
}

func (c *Conn) CloseWithCode(code int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}
