package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TurnDuration != 10*time.Minute || cfg.TickInterval != time.Second {
		t.Errorf("durations = %s, %s", cfg.TurnDuration, cfg.TickInterval)
	}
	if r := cfg.Rules(); r.TurnSeconds() != 600 || r.RoundsPerPeriod != 2 || r.GovernmentStipend != 3 {
		t.Errorf("rules = %+v", r)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TURN_DURATION", "90s")
	t.Setenv("ROUNDS_PER_PERIOD", "3")
	t.Setenv("GOVERNMENT_STIPEND", "5")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := cfg.Rules()
	if r.TurnSeconds() != 90 || r.RoundsPerPeriod != 3 || r.GovernmentStipend != 5 {
		t.Errorf("rules = %+v", r)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %s", cfg.LogLevel)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TURN_DURATION", "10ms"},
		{"TICK_INTERVAL", "0s"},
		{"ROUNDS_PER_PERIOD", "0"},
		{"ROUNDS_PER_PERIOD", "two"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
