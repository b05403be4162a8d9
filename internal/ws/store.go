package ws

import (
	"context"

	"codepairgo/internal/services/room"
)

// RoomStore is the slice of the room service this package needs: existence
// checks before a join and one durable read per session activation.
// room.IRoomService satisfies it.
type RoomStore interface {
	GetRoom(ctx context.Context, roomID string) (*room.RoomDTO, error)
	RoomExists(ctx context.Context, roomID string) (bool, error)
}

// SnapshotWriter receives fire-and-forget durable-write jobs for applied
// edits. Enqueue must never block the caller.
type SnapshotWriter interface {
	Enqueue(roomID, code, language string)
}
