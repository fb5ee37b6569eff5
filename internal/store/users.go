package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateUser registers a user. The username must be unused.
func (s *Store) CreateUser(ctx context.Context, username, displayName, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, data) VALUES (?, ?, jsonb(?))`,
		u.ID, u.Username, string(data),
	)
	if isUnique(err) {
		return nil, fmt.Errorf("username %q: %w", username, ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) User(ctx context.Context, id string) (*User, error) {
	var u User
	if err := get(ctx, s.db, "users", id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM users WHERE username = ?`, username,
	)
	if err != nil {
		return nil, err
	}
	users, err := scanAll[User](rows)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

// DisplayName returns the name shown for userID, or the id itself when the
// user cannot be read.
func (s *Store) DisplayName(ctx context.Context, userID string) string {
	u, err := s.User(ctx, userID)
	if err != nil || u.DisplayName == "" {
		return userID
	}
	return u.DisplayName
}

// CreateSession opens a session for userID that lasts ttl.
func (s *Store) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        newToken(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, data) VALUES (?, ?, ?, jsonb(?))`,
		sess.ID, sess.UserID, sess.ExpiresAt.Format(time.RFC3339), string(data),
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Session returns an unexpired session. Expired sessions are removed and
// reported as ErrNotFound.
func (s *Store) Session(ctx context.Context, id string) (*Session, error) {
	var sess Session
	if err := get(ctx, s.db, "sessions", id, &sess); err != nil {
		return nil, err
	}
	if !time.Now().Before(sess.ExpiresAt) {
		if err := s.DeleteSession(ctx, id); err != nil {
			return nil, errors.Join(ErrNotFound, err)
		}
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes every session past its expiry and reports
// how many were dropped.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func newToken() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
