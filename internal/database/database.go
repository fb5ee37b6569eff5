// Package database opens the libSQL file behind the record store.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// settings are applied to every database. A file database also switches
// to WAL so readers never wait on the turn writer.
var settings = []string{
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// Open opens the database at path. An in-memory database is pinned to a
// single connection so every query sees the same data.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := settings
	if path == Memory {
		db.SetMaxOpenConns(1)
	} else {
		pragmas = append([]string{"PRAGMA journal_mode=WAL"}, settings...)
	}
	for _, p := range pragmas {
		if err := pragma(ctx, db, p); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// pragma runs p through QueryContext: libSQL rejects Exec for PRAGMAs that
// return rows.
func pragma(ctx context.Context, db *sql.DB, p string) error {
	rows, err := db.QueryContext(ctx, p)
	if err != nil {
		return fmt.Errorf("executing %s: %w", p, err)
	}
	return rows.Close()
}
