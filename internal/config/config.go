package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"pair_programming"`

	RedisRoomsHost string `env:"REDIS_ROOMS_HOST" envDefault:"localhost"`
	RedisRoomsPort uint16 `env:"REDIS_ROOMS_PORT" envDefault:"6379"   validate:"min=1000,max=65535"`

	// RoomCacheTTLSeconds bounds how long a room snapshot stays in the
	// Redis fast path without being refreshed from Postgres.
	RoomCacheTTLSeconds uint32 `env:"ROOM_CACHE_TTL_SECONDS" envDefault:"1800" validate:"min=1"`

	// WriteQueueSize is the capacity of the async snapshot write queue.
	// Edits past a full queue are dropped (best-effort durability).
	WriteQueueSize uint16 `env:"WRITE_QUEUE_SIZE" envDefault:"256" validate:"min=1"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8000" validate:"min=1000,max=65535"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
