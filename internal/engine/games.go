package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/notify"
	"github.com/playperu/cyberfront/internal/turn"
)

// NewGame describes a game to create. Every seat needs a user.
type NewGame struct {
	Description string                     `json:"description"`
	TeamNames   map[cyberfront.Side]string `json:"teamNames"`
	Users       map[cyberfront.Seat]string `json:"-"`
}

// CreateGame sets up a not-started game owned by ownerID.
func (s *Service) CreateGame(ctx context.Context, ownerID string, req NewGame) (*cyberfront.State, error) {
	st, err := s.machine.NewGame(turn.Setup{
		GameID:      uuid.NewString(),
		OwnerID:     ownerID,
		Description: req.Description,
		TeamNames:   req.TeamNames,
		Users:       req.Users,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateState(ctx, st); err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	s.logger.Info("game created", "game_id", st.Game.ID, "owner", s.store.DisplayName(ctx, ownerID),
		"opening_card", st.Game.DrawnCard)
	return st, nil
}

// Game loads a game. A running countdown overrides the stored remaining
// seconds.
func (s *Service) Game(ctx context.Context, gameID string) (*cyberfront.State, error) {
	st, err := s.store.LoadState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if st.Game.Status == cyberfront.StatusInProgress {
		if left, ok := s.timers.Remaining(gameID); ok {
			st.Game.RemainingSeconds = left
		}
	}
	return st, nil
}

func (s *Service) ListGames(ctx context.Context, userID string) ([]*cyberfront.Game, error) {
	return s.store.ListGames(ctx, userID)
}

// Start opens play and starts the first countdown.
func (s *Service) Start(ctx context.Context, userID, gameID string) (*cyberfront.State, error) {
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if err := owns(st, userID); err != nil {
			return err
		}
		return s.machine.Start(st)
	}, s.moveTimer)
	if err != nil {
		return nil, err
	}

	g := st.Game
	s.pub.Publish(g.ID, notify.Event{Type: notify.EventState, Turn: g.Turn})
	s.logger.Info("game started", "game_id", g.ID, "by", s.store.DisplayName(ctx, userID))
	return st, nil
}

// Pause stops the countdown and keeps what was left of it. A running game
// without a countdown has run out of time; its expiry is waiting for the
// lock and will be ignored, so the turn resumes with nothing left.
func (s *Service) Pause(ctx context.Context, userID, gameID string) (*cyberfront.State, error) {
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if err := owns(st, userID); err != nil {
			return err
		}
		if st.Game.Status != cyberfront.StatusInProgress {
			return cyberfront.ErrNotInProgress
		}
		left, _ := s.timers.Remaining(gameID)
		return s.machine.Pause(st, left)
	}, func(st *cyberfront.State) {
		s.timers.Pause(st.Game.ID)
	})
	if err != nil {
		return nil, err
	}

	g := st.Game
	left := g.RemainingSeconds
	s.pub.Publish(g.ID, notify.Event{Type: notify.EventPaused, Turn: g.Turn, Remaining: &left})
	s.logger.Info("game paused", "game_id", g.ID, "remaining", left)
	return st, nil
}

// Resume restarts the countdown from where Pause left it.
func (s *Service) Resume(ctx context.Context, userID, gameID string) (*cyberfront.State, error) {
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if err := owns(st, userID); err != nil {
			return err
		}
		return s.machine.Resume(st)
	}, s.moveTimer)
	if err != nil {
		return nil, err
	}

	g := st.Game
	left := g.RemainingSeconds
	s.pub.Publish(g.ID, notify.Event{Type: notify.EventResumed, Turn: g.Turn, Remaining: &left})
	s.logger.Info("game resumed", "game_id", g.ID, "remaining", left)
	return st, nil
}

// RestoreTimers restarts the countdowns of games left in progress by a
// previous process. It returns how many were restarted.
func (s *Service) RestoreTimers(ctx context.Context) (int, error) {
	games, err := s.store.GamesByStatus(ctx, cyberfront.StatusInProgress)
	if err != nil {
		return 0, fmt.Errorf("listing running games: %w", err)
	}
	restored := 0
	for _, g := range games {
		ok, err := s.restore(ctx, g.ID)
		if err != nil {
			return restored, fmt.Errorf("restoring game %s: %w", g.ID, err)
		}
		if ok {
			restored++
		}
	}
	return restored, nil
}

func (s *Service) restore(ctx context.Context, gameID string) (bool, error) {
	release, err := s.lock(ctx, gameID)
	if err != nil {
		return false, err
	}
	defer release()

	st, err := s.store.LoadState(ctx, gameID)
	if err != nil {
		return false, err
	}
	if st.Game.Status != cyberfront.StatusInProgress {
		return false, nil
	}
	s.moveTimer(st)
	return true, nil
}

// Records returns the record-keeping sheet of a game, oldest line first.
func (s *Service) Records(ctx context.Context, gameID string) ([]*cyberfront.Record, error) {
	st, err := s.store.LoadState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return st.Records, nil
}
