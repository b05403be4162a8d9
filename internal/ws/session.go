package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// session is the in-memory runtime of one room: its live connections plus
// the authoritative {code, language} snapshot. It exists only while the
// room has at least one connection; the Hub evicts it the moment the set
// empties, so the next join re-hydrates from the store.
type session struct {
	roomID string
	store  RoomStore
	writes SnapshotWriter

	mu       sync.RWMutex
	conns    map[*clientConn]struct{}
	code     string
	language string

	hydrateOnce sync.Once
	hydrateErr  error
}

func newSession(roomID string, store RoomStore, writes SnapshotWriter) *session {
	return &session{
		roomID: roomID,
		store:  store,
		writes: writes,
		conns:  map[*clientConn]struct{}{},
	}
}

func (s *session) add(c *clientConn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

// remove reports how many connections are left.
func (s *session) remove(c *clientConn) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
	return len(s.conns)
}

// hydrate loads the durable snapshot exactly once per activation, no matter
// how many connections join concurrently. Later joiners see the live
// in-memory state, which leads (or equals) the durable one.
func (s *session) hydrate(ctx context.Context) error {
	s.hydrateOnce.Do(func() {
		dto, err := s.store.GetRoom(ctx, s.roomID)
		if err != nil {
			s.hydrateErr = err
			return
		}
		s.mu.Lock()
		s.code, s.language = dto.Code, dto.Language
		s.mu.Unlock()
	})
	return s.hydrateErr
}

func (s *session) snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Code: s.code, Language: s.language}
}

// applyEdit overwrites the snapshot unconditionally (last write wins, full
// buffer replacement, no merge) and schedules a durable write. The edit
// counts as applied once the cache is updated; persistence is best effort.
func (s *session) applyEdit(code, language string) Snapshot {
	if language == "" {
		language = defaultLanguage
	}

	s.mu.Lock()
	s.code, s.language = code, language
	s.mu.Unlock()

	s.writes.Enqueue(s.roomID, code, language)
	return Snapshot{Code: code, Language: language}
}

// broadcast delivers a payload to every connection except the sender. The
// membership is snapshotted under the lock and the I/O happens outside it,
// so one slow peer cannot stall joins or edits. Per-connection delivery
// failures are swallowed: a broken peer is reaped by its own read loop.
func (s *session) broadcast(sender *clientConn, v any) {
	s.mu.RLock()
	conns := make([]*clientConn, 0, len(s.conns))
	for c := range s.conns {
		if c != sender {
			conns = append(conns, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(v); err != nil {
			zap.L().Debug("ws.broadcast_skip", zap.String("room_id", s.roomID), zap.Error(err))
		}
	}
}
