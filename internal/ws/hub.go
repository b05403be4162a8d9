package ws

import (
	"context"
	"sync"
)

// Hub is the process-wide registry of active room sessions. Sessions are
// created on first join and evicted as soon as their last connection
// leaves, so memory stays bounded by the set of rooms currently in use.
type Hub struct {
	store  RoomStore
	writes SnapshotWriter

	mu       sync.Mutex
	sessions map[string]*session
}

func NewHub(store RoomStore, writes SnapshotWriter) *Hub {
	return &Hub{
		store:    store,
		writes:   writes,
		sessions: make(map[string]*session),
	}
}

// Join adds the connection to the room's session, creating and hydrating
// the session if this is the first member. On a hydration failure the
// connection is backed out so no registry entry is left behind for an
// unknown room.
func (h *Hub) Join(ctx context.Context, roomID string, c *clientConn) (*session, error) {
	h.mu.Lock()
	s, ok := h.sessions[roomID]
	if !ok {
		s = newSession(roomID, h.store, h.writes)
		h.sessions[roomID] = s
	}
	s.add(c)
	h.mu.Unlock()

	// Outside the registry lock: the store read must not block unrelated
	// rooms. sync.Once inside the session keeps it to one read even when
	// N connections join concurrently.
	if err := s.hydrate(ctx); err != nil {
		h.Leave(roomID, c)
		return nil, err
	}
	return s, nil
}

// Leave removes the connection and evicts the session once empty.
// Idempotent: leaving a connection that is not a member is a no-op.
func (h *Hub) Leave(roomID string, c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[roomID]
	if !ok {
		return
	}
	if s.remove(c) == 0 {
		delete(h.sessions, roomID)
	}
}

// ActiveRooms reports how many rooms currently have live connections.
func (h *Hub) ActiveRooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
