package room

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RoomDTO struct {
	RoomID   string `json:"room_id"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

const (
	DefaultLanguage = "python"

	redisRoomKeyPrefix = "room:"
)

var ErrRoomNotFound = errors.New("room not found")

type IRoomService interface {
	CreateRoom(ctx context.Context) (*RoomDTO, error)
	GetRoom(ctx context.Context, roomID string) (*RoomDTO, error)
	RoomExists(ctx context.Context, roomID string) (bool, error)
	UpdateRoomCode(ctx context.Context, roomID, code, language string) error
}

type roomService struct {
	rdc      *redis.Client
	db       *sql.DB
	cacheTTL time.Duration
}

func NewRoomService(rdc *redis.Client, db *sql.DB, cacheTTL time.Duration) IRoomService {
	return &roomService{
		rdc:      rdc,
		db:       db,
		cacheTTL: cacheTTL,
	}
}

// CreateRoom inserts an empty room with a fresh identifier. Rooms always
// start with the default language; creators cannot pick one.
func (svc *roomService) CreateRoom(ctx context.Context) (*RoomDTO, error) {
	dto := &RoomDTO{
		RoomID:   uuid.NewString(),
		Code:     "",
		Language: DefaultLanguage,
	}

	const ins = `INSERT INTO rooms (room_id, code, language) VALUES ($1, $2, $3)`
	if _, err := svc.db.ExecContext(ctx, ins, dto.RoomID, dto.Code, dto.Language); err != nil {
		return nil, err
	}

	svc.cacheWrite(ctx, dto)
	return dto, nil
}

func (svc *roomService) GetRoom(ctx context.Context, roomID string) (*RoomDTO, error) {
	// 1. Fast path ‑ serve directly from the Redis snapshot cache.
	if snap, _ := svc.rdc.HGetAll(ctx, redisRoomKeyPrefix+roomID).Result(); len(snap) != 0 {
		return &RoomDTO{
			RoomID:   roomID,
			Code:     snap["code"],
			Language: snap["lang"],
		}, nil
	}

	// 2. Otherwise go to Postgres and backfill the cache.
	const q = `SELECT room_id, code, language FROM rooms WHERE room_id = $1`
	dto := &RoomDTO{}
	err := svc.db.QueryRowContext(ctx, q, roomID).Scan(&dto.RoomID, &dto.Code, &dto.Language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	svc.cacheWrite(ctx, dto)
	return dto, nil
}

func (svc *roomService) RoomExists(ctx context.Context, roomID string) (bool, error) {
	if n, err := svc.rdc.Exists(ctx, redisRoomKeyPrefix+roomID).Result(); err == nil && n > 0 {
		return true, nil
	}

	var exists bool
	const q = `SELECT EXISTS (SELECT 1 FROM rooms WHERE room_id = $1)`
	if err := svc.db.QueryRowContext(ctx, q, roomID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateRoomCode persists a full-buffer replacement. Called by the async
// write worker, never by the websocket hot path directly.
func (svc *roomService) UpdateRoomCode(ctx context.Context, roomID, code, language string) error {
	if language == "" {
		language = DefaultLanguage
	}

	const upd = `UPDATE rooms SET code = $2, language = $3, updated_at = now() WHERE room_id = $1`
	res, err := svc.db.ExecContext(ctx, upd, roomID, code, language)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRoomNotFound
	}

	svc.cacheWrite(ctx, &RoomDTO{RoomID: roomID, Code: code, Language: language})
	return nil
}

// cacheWrite mirrors a snapshot into Redis. Best effort: the cache is a
// read accelerator, Postgres stays the source of truth.
func (svc *roomService) cacheWrite(ctx context.Context, dto *RoomDTO) {
	key := redisRoomKeyPrefix + dto.RoomID
	if err := svc.rdc.HSet(ctx, key, "code", dto.Code, "lang", dto.Language).Err(); err != nil {
		zap.L().Warn("room.cache_write", zap.String("room_id", dto.RoomID), zap.Error(err))
		return
	}
	if err := svc.rdc.Expire(ctx, key, svc.cacheTTL).Err(); err != nil {
		zap.L().Warn("room.cache_expire", zap.String("room_id", dto.RoomID), zap.Error(err))
	}
}
