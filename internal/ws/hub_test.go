package ws

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"codepairgo/internal/services/room"
)

// fakeStore is an in-memory RoomStore that counts durable reads.
type fakeStore struct {
	mu    sync.Mutex
	rooms map[string]room.RoomDTO
	gets  atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{rooms: map[string]room.RoomDTO{}}
}

func (f *fakeStore) put(id, code, lang string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[id] = room.RoomDTO{RoomID: id, Code: code, Language: lang}
}

func (f *fakeStore) GetRoom(_ context.Context, id string) (*room.RoomDTO, error) {
	f.gets.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	dto, ok := f.rooms[id]
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	out := dto
	return &out, nil
}

func (f *fakeStore) RoomExists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rooms[id]
	return ok, nil
}

// fakeWriter records enqueued write jobs in order.
type fakeWriter struct {
	mu   sync.Mutex
	jobs [][3]string
}

func (w *fakeWriter) Enqueue(roomID, code, language string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.jobs = append(w.jobs, [3]string{roomID, code, language})
}

func (w *fakeWriter) list() [][3]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][3]string, len(w.jobs))
	copy(out, w.jobs)
	return out
}

// capture collects frames written to a fake connection.
type capture struct {
	mu  sync.Mutex
	got []SyncMessage
}

func (c *capture) conn() *clientConn {
	return &clientConn{sendHook: func(v any) error {
		msg, ok := v.(SyncMessage)
		if !ok {
			return errors.New("unexpected frame type")
		}
		c.mu.Lock()
		c.got = append(c.got, msg)
		c.mu.Unlock()
		return nil
	}}
}

func (c *capture) list() []SyncMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SyncMessage, len(c.got))
	copy(out, c.got)
	return out
}

func TestJoinHydratesFromStore(t *testing.T) {
	store := newFakeStore()
	store.put("r1", "x", "go")
	hub := NewHub(store, &fakeWriter{})

	sess, err := hub.Join(context.Background(), "r1", (&capture{}).conn())
	require.NoError(t, err)
	require.Equal(t, Snapshot{Code: "x", Language: "go"}, sess.snapshot())
	require.Equal(t, 1, hub.ActiveRooms())
}

func TestJoinUnknownRoomLeavesNoEntry(t *testing.T) {
	store := newFakeStore()
	hub := NewHub(store, &fakeWriter{})

	_, err := hub.Join(context.Background(), "missing", (&capture{}).conn())
	require.ErrorIs(t, err, room.ErrRoomNotFound)
	require.Equal(t, 0, hub.ActiveRooms())
}

func TestBroadcastSkipsSender(t *testing.T) {
	store := newFakeStore()
	store.put("r1", "", "python")
	hub := NewHub(store, &fakeWriter{})

	a, b, c := &capture{}, &capture{}, &capture{}
	aConn := a.conn()
	sess, err := hub.Join(context.Background(), "r1", aConn)
	require.NoError(t, err)
	_, err = hub.Join(context.Background(), "r1", b.conn())
	require.NoError(t, err)
	_, err = hub.Join(context.Background(), "r1", c.conn())
	require.NoError(t, err)

	msg := SyncMessage{Type: typeCodeUpdate, Code: "hi", Language: "python"}
	sess.broadcast(aConn, msg)

	require.Empty(t, a.list())
	require.Equal(t, []SyncMessage{msg}, b.list())
	require.Equal(t, []SyncMessage{msg}, c.list())
}

func TestBroadcastSurvivesBrokenConnection(t *testing.T) {
	store := newFakeStore()
	store.put("r1", "", "python")
	hub := NewHub(store, &fakeWriter{})

	a, b := &capture{}, &capture{}
	aConn := a.conn()
	sess, err := hub.Join(context.Background(), "r1", aConn)
	require.NoError(t, err)

	broken := &clientConn{sendHook: func(any) error { return errors.New("broken pipe") }}
	_, err = hub.Join(context.Background(), "r1", broken)
	require.NoError(t, err)
	_, err = hub.Join(context.Background(), "r1", b.conn())
	require.NoError(t, err)

	msg := SyncMessage{Type: typeCodeUpdate, Code: "hi", Language: "python"}
	sess.broadcast(aConn, msg)

	// The healthy sibling still gets the frame and the broken one stays a
	// member until its own read loop reaps it.
	require.Equal(t, []SyncMessage{msg}, b.list())
	require.Equal(t, 1, hub.ActiveRooms())
}

func TestApplyEditLastWriteWins(t *testing.T) {
	store := newFakeStore()
	store.put("r1", "", "python")
	writer := &fakeWriter{}
	hub := NewHub(store, writer)

	sess, err := hub.Join(context.Background(), "r1", (&capture{}).conn())
	require.NoError(t, err)

	sess.applyEdit("first", "python")
	sess.applyEdit("second", "go")

	require.Equal(t, Snapshot{Code: "second", Language: "go"}, sess.snapshot())
	require.Equal(t, [][3]string{
		{"r1", "first", "python"},
		{"r1", "second", "go"},
	}, writer.list())
}

func TestApplyEditDefaultsLanguage(t *testing.T) {
	store := newFakeStore()
	store.put("r1", "", "python")
	hub := NewHub(store, &fakeWriter{})

	sess, err := hub.Join(context.Background(), "r1", (&capture{}).conn())
	require.NoError(t, err)

	applied := sess.applyEdit("x", "")
	require.Equal(t, Snapshot{Code: "x", Language: "python"}, applied)
}

func TestEmptyRoomEvictionRehydrates(t *testing.T) {
	store := newFakeStore()
	store.put("r1", "v1", "python")
	hub := NewHub(store, &fakeWriter{})

	c1 := (&capture{}).conn()
	sess, err := hub.Join(context.Background(), "r1", c1)
	require.NoError(t, err)

	// An edit that never reaches the durable store must not survive
	// eviction.
	sess.applyEdit("local only", "python")
	hub.Leave("r1", c1)
	require.Equal(t, 0, hub.ActiveRooms())

	store.put("r1", "v2", "go")
	sess2, err := hub.Join(context.Background(), "r1", (&capture{}).conn())
	require.NoError(t, err)
	require.Equal(t, Snapshot{Code: "v2", Language: "go"}, sess2.snapshot())
}

func TestLeaveIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.put("r1", "", "python")
	hub := NewHub(store, &fakeWriter{})

	a, b := &capture{}, &capture{}
	aConn := a.conn()
	sess, err := hub.Join(context.Background(), "r1", aConn)
	require.NoError(t, err)
	_, err = hub.Join(context.Background(), "r1", b.conn())
	require.NoError(t, err)

	// Racing disconnect-detection paths may call leave twice.
	hub.Leave("r1", aConn)
	hub.Leave("r1", aConn)
	require.Equal(t, 1, hub.ActiveRooms())

	// The unrelated connection is still a member.
	msg := SyncMessage{Type: typeCodeUpdate, Code: "still here", Language: "python"}
	sess.broadcast(aConn, msg)
	require.Equal(t, []SyncMessage{msg}, b.list())

	// Leaving a room that no longer exists is a no-op too.
	hub.Leave("gone", aConn)
}

func TestConcurrentJoinsHydrateOnce(t *testing.T) {
	store := newFakeStore()
	store.put("r1", "x", "go")
	hub := NewHub(store, &fakeWriter{})

	const n = 16
	snaps := make([]Snapshot, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := hub.Join(context.Background(), "r1", (&capture{}).conn())
			require.NoError(t, err)
			snaps[i] = sess.snapshot()
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, store.gets.Load())
	for _, snap := range snaps {
		require.Equal(t, Snapshot{Code: "x", Language: "go"}, snap)
	}
}
