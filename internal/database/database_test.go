package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/playperu/cyberfront/internal/database"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxConns int
		journal  string
	}{
		{"memory", database.Memory, 1, "memory"},
		{"file", filepath.Join(t.TempDir(), "cyberfront.db"), 0, "wal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db, err := database.Open(ctx, tt.path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer db.Close()

			if got := db.Stats().MaxOpenConnections; got != tt.maxConns {
				t.Errorf("max open connections = %d, want %d", got, tt.maxConns)
			}

			var fk int
			if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
				t.Fatalf("reading foreign_keys: %v", err)
			}
			if fk != 1 {
				t.Errorf("foreign_keys = %d, want 1", fk)
			}

			var journal string
			if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journal); err != nil {
				t.Fatalf("reading journal_mode: %v", err)
			}
			if journal != tt.journal {
				t.Errorf("journal_mode = %q, want %q", journal, tt.journal)
			}
		})
	}
}
