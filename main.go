package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"codepairgo/internal/config"
	"codepairgo/internal/database/db_client"
	"codepairgo/internal/http/http_server"
	"codepairgo/internal/redis/redis_client"
	"codepairgo/internal/services/room"
	"codepairgo/internal/syncstore"
	"codepairgo/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	var err error
	var cfg *config.Config
	var redisClient *redis.Client
	var roomService room.IRoomService

	// 1. Load configuration
	cfg, err = config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis snapshot cache
	redisClient, err = redis_client.NewRedisClient(cfg.RedisRoomsHost, int(cfg.RedisRoomsPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// 4. Postgres db client + schema
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()
	if err := db_client.EnsureSchema(ctx, pgDb); err != nil {
		Log.Fatal("pg-schema", zap.Error(err))
	}

	// 5. Room service (durable store + cache fast path)
	roomService = room.NewRoomService(redisClient, pgDb,
		time.Duration(cfg.RoomCacheTTLSeconds)*time.Second)

	// 6. Background: async snapshot writer drains edits into Postgres
	writer := syncstore.New(roomService, int(cfg.WriteQueueSize))
	writer.Run(ctx)

	// 7. WebSockets hub (room registry) + WS server
	hub := ws.NewHub(roomService, writer)
	wsSrv := ws.NewWsServer(hub, roomService)

	// 8. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, roomService)

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Start() }()

	select {
	case <-ctx.Done():
		if err := httpServer.Dispose(); err != nil {
			Log.Error("Failed to stop HTTP server", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			Log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}
}
