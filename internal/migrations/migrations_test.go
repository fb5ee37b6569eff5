package migrations_test

import (
	"context"
	"testing"

	"github.com/playperu/cyberfront/internal/database"
	"github.com/playperu/cyberfront/internal/migrations"
)

const latest = 2

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	version, err := migrations.Run(ctx, db)
	if err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	if version != latest {
		t.Errorf("version = %d, want %d", version, latest)
	}

	want := []string{"users", "sessions", "games", "teams", "players", "assets", "event_cards", "records"}
	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	version, err := migrations.Run(ctx, db)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if version != latest {
		t.Errorf("version after second run = %d, want %d", version, latest)
	}
}
