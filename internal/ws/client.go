package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// clientConn serialises writes to one websocket connection. The read side
// is owned exclusively by the connection's own handler loop.
type clientConn struct {
	rawConn *websocket.Conn
	mu      sync.Mutex

	// sendHook replaces the websocket write in tests.
	sendHook func(v any) error
}

func (c *clientConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendHook != nil {
		return c.sendHook(v)
	}
	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(v)
}

// reject closes the connection with a distinguishable close frame, e.g.
// policy violation "Room not found" for a join against an unknown room.
func (c *clientConn) reject(closeCode int, reason string) {
	msg := websocket.FormatCloseMessage(closeCode, reason)
	_ = c.rawConn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = c.rawConn.Close()
}

func (c *clientConn) close() {
	if c.rawConn != nil {
		_ = c.rawConn.Close()
	}
}
