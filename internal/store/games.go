package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/cyberfront/internal/cyberfront"
)

// CreateState inserts a new game with all of its records.
func (s *Store) CreateState(ctx context.Context, st *cyberfront.State) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	data, err := json.Marshal(st.Game)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, owner_id, status, data) VALUES (?, ?, ?, jsonb(?))`,
		st.Game.ID, st.Game.OwnerID, string(st.Game.Status), string(data),
	)
	if isUnique(err) {
		return fmt.Errorf("game %s: %w", st.Game.ID, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}

	if err := putRecords(ctx, tx, st); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadState reads every record of a game.
func (s *Store) LoadState(ctx context.Context, gameID string) (*cyberfront.State, error) {
	return loadState(ctx, s.db, gameID)
}

// SaveState writes every record of an existing game.
func (s *Store) SaveState(ctx context.Context, st *cyberfront.State) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveState(ctx, tx, st); err != nil {
		return err
	}
	return tx.Commit()
}

// ModifyState loads a game, applies fn, and saves it in one transaction.
// Nothing is written when fn fails.
func (s *Store) ModifyState(ctx context.Context, gameID string, fn func(*cyberfront.State) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	st, err := loadState(ctx, tx, gameID)
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	if err := saveState(ctx, tx, st); err != nil {
		return err
	}
	return tx.Commit()
}

// ListGames returns the games owned by userID or in which it holds a seat,
// newest first.
func (s *Store) ListGames(ctx context.Context, userID string) ([]*cyberfront.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM games
		 WHERE owner_id = ? OR id IN (SELECT game_id FROM players WHERE user_id = ?)
		 ORDER BY json_extract(data, '$.createdAt') DESC, id`,
		userID, userID,
	)
	if err != nil {
		return nil, err
	}
	return scanAll[cyberfront.Game](rows)
}

// GamesByStatus lists every game currently in status.
func (s *Store) GamesByStatus(ctx context.Context, status cyberfront.GameStatus) ([]*cyberfront.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM games WHERE status = ? ORDER BY id`, string(status),
	)
	if err != nil {
		return nil, err
	}
	return scanAll[cyberfront.Game](rows)
}

func loadState(ctx context.Context, q querier, gameID string) (*cyberfront.State, error) {
	st := &cyberfront.State{
		Game:    new(cyberfront.Game),
		Teams:   make(map[cyberfront.Side]*cyberfront.Team, len(cyberfront.Sides)),
		Players: make(map[cyberfront.Seat]*cyberfront.Player),
	}
	if err := get(ctx, q, "games", gameID, st.Game); err != nil {
		return nil, err
	}

	teams, err := children[cyberfront.Team](ctx, q, "teams", gameID)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}
	for _, t := range teams {
		st.Teams[t.Side] = t
	}

	players, err := children[cyberfront.Player](ctx, q, "players", gameID)
	if err != nil {
		return nil, fmt.Errorf("loading players: %w", err)
	}
	for _, p := range players {
		st.Players[p.Seat] = p
	}

	if len(st.Teams) != len(cyberfront.Sides) || len(st.Players) != len(cyberfront.AllSeats()) {
		return nil, fmt.Errorf("game %s has %d teams and %d players", gameID, len(st.Teams), len(st.Players))
	}

	if st.Assets, err = children[cyberfront.Asset](ctx, q, "assets", gameID); err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	if st.Cards, err = children[cyberfront.EventCard](ctx, q, "event_cards", gameID); err != nil {
		return nil, fmt.Errorf("loading event cards: %w", err)
	}
	if st.Records, err = children[cyberfront.Record](ctx, q, "records", gameID); err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return st, nil
}

// children loads the records of a game in insertion order.
func children[T any](ctx context.Context, q querier, table, gameID string) ([]*T, error) {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf(`SELECT json(data) FROM %s WHERE game_id = ? ORDER BY rowid`, table), gameID,
	)
	if err != nil {
		return nil, err
	}
	return scanAll[T](rows)
}

func saveState(ctx context.Context, q querier, st *cyberfront.State) error {
	data, err := json.Marshal(st.Game)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		`UPDATE games SET owner_id = ?, status = ?, data = jsonb(?) WHERE id = ?`,
		st.Game.OwnerID, string(st.Game.Status), string(data), st.Game.ID,
	)
	if err != nil {
		return fmt.Errorf("updating game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return putRecords(ctx, q, st)
}

// putRecords upserts the teams, players, assets and cards of st and
// appends its new records.
func putRecords(ctx context.Context, q querier, st *cyberfront.State) error {
	for _, side := range cyberfront.Sides {
		t := st.Team(side)
		if err := put(ctx, q,
			`INSERT INTO teams (id, game_id, side, data) VALUES (?, ?, ?, jsonb(?))
			 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
			t, t.ID, t.GameID, string(t.Side),
		); err != nil {
			return fmt.Errorf("saving team %s: %w", side, err)
		}
	}
	for _, seat := range cyberfront.AllSeats() {
		p := st.Player(seat)
		if err := put(ctx, q,
			`INSERT INTO players (id, game_id, user_id, seat, data) VALUES (?, ?, ?, ?, jsonb(?))
			 ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, data = excluded.data`,
			p, p.ID, p.GameID, p.UserID, seat.String(),
		); err != nil {
			return fmt.Errorf("saving player %s: %w", seat, err)
		}
	}
	for _, a := range st.Assets {
		if err := put(ctx, q,
			`INSERT INTO assets (id, game_id, status, data) VALUES (?, ?, ?, jsonb(?))
			 ON CONFLICT(id) DO UPDATE SET status = excluded.status, data = excluded.data`,
			a, a.ID, a.GameID, string(a.Status),
		); err != nil {
			return fmt.Errorf("saving asset %s: %w", a.Name, err)
		}
	}
	for _, c := range st.Cards {
		if err := put(ctx, q,
			`INSERT INTO event_cards (id, game_id, status, data) VALUES (?, ?, ?, jsonb(?))
			 ON CONFLICT(id) DO UPDATE SET status = excluded.status, data = excluded.data`,
			c, c.ID, c.GameID, string(c.Status),
		); err != nil {
			return fmt.Errorf("saving event card %s: %w", c.Name, err)
		}
	}
	// Records are append-only.
	for _, r := range st.Records {
		if err := put(ctx, q,
			`INSERT INTO records (id, game_id, kind, data) VALUES (?, ?, ?, jsonb(?))
			 ON CONFLICT(id) DO NOTHING`,
			r, r.ID, r.GameID, string(r.Kind),
		); err != nil {
			return fmt.Errorf("saving record %s: %w", r.ID, err)
		}
	}
	return nil
}

// put marshals doc and runs query with args followed by the document.
func put(ctx context.Context, q querier, query string, doc any, args ...any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, query, append(args, string(data))...)
	if isUnique(err) {
		return errors.Join(ErrConflict, err)
	}
	return err
}
