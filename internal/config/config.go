package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/playperu/cyberfront/internal/cyberfront"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/cyberfront.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	// RedisURL enables the cross-instance event relay when set.
	RedisURL string `env:"REDIS_URL"`

	TurnDuration      time.Duration `env:"TURN_DURATION" envDefault:"10m"`
	TickInterval      time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	RoundsPerPeriod   int           `env:"ROUNDS_PER_PERIOD" envDefault:"2"`
	GovernmentStipend int           `env:"GOVERNMENT_STIPEND" envDefault:"3"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.TurnDuration < time.Second {
		return nil, fmt.Errorf("TURN_DURATION must be at least 1s, got %s", cfg.TurnDuration)
	}
	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	if cfg.RoundsPerPeriod < 1 {
		return nil, fmt.Errorf("ROUNDS_PER_PERIOD must be at least 1, got %d", cfg.RoundsPerPeriod)
	}
	return &cfg, nil
}

// Rules applies the configured overrides to the default rules.
func (c *Config) Rules() cyberfront.Rules {
	r := cyberfront.DefaultRules()
	r.TurnDuration = c.TurnDuration
	r.RoundsPerPeriod = c.RoundsPerPeriod
	r.GovernmentStipend = c.GovernmentStipend
	return r
}
