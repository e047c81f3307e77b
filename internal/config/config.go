package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Snapshot SnapshotConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type APIConfig struct {
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	// ResyncDelay is the settling pause between a cart mutation and the
	// follow-up resync.
	ResyncDelay time.Duration `env:"CART_RESYNC_DELAY" envDefault:"350ms"`
}

type SnapshotConfig struct {
	// Backend selects where the client snapshot lives: "file" for a
	// single terminal, "redis" for shared point-of-sale terminals.
	Backend  string `env:"SNAPSHOT_BACKEND" envDefault:"file"`
	Path     string `env:"SNAPSHOT_PATH" envDefault:"data/state.json"`
	Terminal string `env:"POS_TERMINAL_ID" envDefault:""`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Snapshot.Backend != "file" && cfg.Snapshot.Backend != "redis" {
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
	return cfg, nil
}
