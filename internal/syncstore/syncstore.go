package syncstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"codepairgo/internal/services/room"
)

const writeTimeout = 1500 * time.Millisecond

// Job is one durable write of a room's full buffer.
type Job struct {
	RoomID   string
	Code     string
	Language string
}

// Writer drains applied edits into the room store off the broadcast hot
// path. Durability is best effort: failed or dropped writes are logged and
// the in-memory session state stays the interim source of truth.
type Writer struct {
	svc  room.IRoomService
	jobs chan Job
}

func New(svc room.IRoomService, queueSize int) *Writer {
	return &Writer{
		svc:  svc,
		jobs: make(chan Job, queueSize),
	}
}

// Run starts the drain loop. Must be started once at service boot.
func (w *Writer) Run(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case j := <-w.jobs:
				w.persist(j)
			}
		}
	}()
}

// Enqueue schedules a write without blocking the caller. When the queue is
// full the job is dropped; losing an interim write is acceptable because a
// later edit supersedes it anyway.
func (w *Writer) Enqueue(roomID, code, language string) {
	select {
	case w.jobs <- Job{RoomID: roomID, Code: code, Language: language}:
	default:
		zap.L().Warn("syncstore.queue_full", zap.String("room_id", roomID))
	}
}

func (w *Writer) persist(j Job) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := w.svc.UpdateRoomCode(ctx, j.RoomID, j.Code, j.Language); err != nil {
		zap.L().Warn("syncstore.write", zap.String("room_id", j.RoomID), zap.Error(err))
	}
}
