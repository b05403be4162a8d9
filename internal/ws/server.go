package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WsServer struct {
	hub      *Hub
	store    RoomStore
	upgrader websocket.Upgrader
}

func NewWsServer(h *Hub, store RoomStore) *WsServer {
	return &WsServer{
		hub:   h,
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true }, // dev‑only
		},
	}
}

// ActiveRooms is surfaced on the HTTP status endpoint.
func (s *WsServer) ActiveRooms() int { return s.hub.ActiveRooms() }

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

// Handle runs one connection's full lifecycle on GET /ws/:room_id:
// accept, room existence check, join + initial sync, then the blocking
// receive loop until the client disconnects.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	roomID := ginCtx.Param("room_id")

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	conn := &clientConn{rawConn: rawConn}

	// Unknown rooms are rejected at the handshake with a distinguishable
	// close reason; no session is ever created as a side effect.
	ok, err := s.store.RoomExists(ginCtx.Request.Context(), roomID)
	if err != nil {
		zap.L().Warn("ws.room_lookup", zap.String("room_id", roomID), zap.Error(err))
	}
	if err != nil || !ok {
		conn.reject(websocket.ClosePolicyViolation, "Room not found")
		return
	}

	sess, err := s.hub.Join(ginCtx.Request.Context(), roomID, conn)
	if err != nil {
		// The room vanished between the existence check and hydration.
		conn.reject(websocket.ClosePolicyViolation, "Room not found")
		return
	}

	// One-time initial sync so a late joiner matches the shared state
	// before any of its own edits are read.
	snap := sess.snapshot()
	if err := conn.writeJSON(SyncMessage{Type: typeInitialCode, Code: snap.Code, Language: snap.Language}); err != nil {
		s.hub.Leave(roomID, conn)
		conn.close()
		return
	}

	go s.pinger(conn)
	s.reader(roomID, sess, conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

// reader is the per-connection receive loop. The deferred leave runs on
// every exit path, so no stale membership survives the connection.
func (s *WsServer) reader(roomID string, sess *session, conn *clientConn) {
	defer func() {
		s.hub.Leave(roomID, conn)
		conn.close()
	}()

	for {
		_, data, err := conn.rawConn.ReadMessage()
		if err != nil {
			return // client closed or errored
		}

		var msg EditMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// Malformed frames are dropped without disconnecting the
			// sender; the next well-formed frame is processed normally.
			continue
		}

		applied := sess.applyEdit(msg.Code, msg.Language)
		sess.broadcast(conn, SyncMessage{
			Type:     typeCodeUpdate,
			Code:     applied.Code,
			Language: applied.Language,
		})
	}
}

// pinger keeps the connection alive and closes it when the peer stops
// responding, which unblocks the reader and triggers cleanup.
func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		err := conn.rawConn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		if err != nil {
			conn.close()
			return
		}
	}
}
