// Package engine is the single writer of game state. Every mutating
// operation holds the game's lock while it loads the records, runs the
// rules, saves them and moves the turn timer. Subscribers are notified
// once the lock is released.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/notify"
	"github.com/playperu/cyberfront/internal/turn"
)

// ErrForbidden is returned when a user tries to manage a game it does not own.
var ErrForbidden = errors.New("forbidden")

// errStale aborts a modification that no longer applies. It is never
// returned to callers.
var errStale = errors.New("stale request")

// Store persists game state. ModifyState must roll back when fn fails.
type Store interface {
	CreateState(ctx context.Context, st *cyberfront.State) error
	LoadState(ctx context.Context, gameID string) (*cyberfront.State, error)
	ModifyState(ctx context.Context, gameID string, fn func(*cyberfront.State) error) error
	ListGames(ctx context.Context, userID string) ([]*cyberfront.Game, error)
	GamesByStatus(ctx context.Context, status cyberfront.GameStatus) ([]*cyberfront.Game, error)
	DisplayName(ctx context.Context, userID string) string
}

// Timers runs the turn countdowns.
type Timers interface {
	Start(gameID string, turn int64, seconds int)
	Pause(gameID string) (int, bool)
	Stop(gameID string)
	Remaining(gameID string) (int, bool)
}

type gameLock struct {
	sem *semaphore.Weighted
	// refs counts the holders and waiters of sem.
	refs int
}

type Service struct {
	store   Store
	machine *turn.Machine
	timers  Timers
	pub     notify.Publisher
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*gameLock
}

func New(store Store, machine *turn.Machine, timers Timers, pub notify.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		machine: machine,
		timers:  timers,
		pub:     pub,
		logger:  logger,
		locks:   make(map[string]*gameLock),
	}
}

// lock serialises writers of one game. The returned func releases it.
// A lock nobody holds or waits for is dropped from the map.
func (s *Service) lock(ctx context.Context, gameID string) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &gameLock{sem: semaphore.NewWeighted(1)}
		s.locks[gameID] = l
	}
	l.refs++
	s.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		s.unref(gameID, l)
		return nil, err
	}
	return func() {
		l.sem.Release(1)
		s.unref(gameID, l)
	}, nil
}

func (s *Service) unref(gameID string, l *gameLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, gameID)
	}
}

// update applies fn to the game under its lock and returns the saved
// state. commit, when not nil, runs after the save and before the lock is
// released: timer changes go there so no other writer can slip in between.
// Records appended by fn are published afterwards.
func (s *Service) update(ctx context.Context, gameID string, fn func(*cyberfront.State) error, commit func(*cyberfront.State)) (*cyberfront.State, error) {
	saved, fresh, err := s.modify(ctx, gameID, fn, commit)
	if err != nil {
		return nil, err
	}
	for _, r := range fresh {
		s.pub.Publish(gameID, notify.Event{Type: notify.EventRecord, Turn: r.Turn, Data: r})
	}
	return saved, nil
}

func (s *Service) modify(ctx context.Context, gameID string, fn func(*cyberfront.State) error, commit func(*cyberfront.State)) (*cyberfront.State, []*cyberfront.Record, error) {
	release, err := s.lock(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	var saved *cyberfront.State
	logged := 0
	err = s.store.ModifyState(ctx, gameID, func(st *cyberfront.State) error {
		logged = len(st.Records)
		if err := fn(st); err != nil {
			return err
		}
		saved = st
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if commit != nil {
		commit(saved)
	}
	return saved, saved.Records[logged:], nil
}

// moveTimer points the countdown at the current turn of a running game
// and disposes of it once the game is finished. Callers hold the lock.
func (s *Service) moveTimer(st *cyberfront.State) {
	g := st.Game
	switch g.Status {
	case cyberfront.StatusInProgress:
		s.timers.Start(g.ID, g.Turn, g.RemainingSeconds)
	case cyberfront.StatusFinished:
		s.timers.Stop(g.ID)
	}
}

// afterAdvance announces a turn advance or the end of the game.
func (s *Service) afterAdvance(st *cyberfront.State, rep turn.Report) {
	g := st.Game
	if rep.Finished || g.Status == cyberfront.StatusFinished {
		s.pub.Publish(g.ID, notify.Event{Type: notify.EventFinished, Turn: g.Turn, Data: rep})
		s.logger.Info("game finished", "game_id", g.ID, "outcome", g.Outcome,
			"blue_points", st.VictoryPoints(cyberfront.Blue), "red_points", st.VictoryPoints(cyberfront.Red))
		return
	}
	s.pub.Publish(g.ID, notify.Event{Type: notify.EventAdvance, Turn: g.Turn, Data: rep})
	s.logger.Info("turn advanced", "game_id", g.ID, "turn", g.Turn,
		"side", g.ActiveSide, "period", g.ActivePeriod.String(), "month_closed", rep.MonthClosed)
}

func owns(st *cyberfront.State, userID string) error {
	if st.Game.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

// controls checks that userID plays the entity at seat.
func controls(st *cyberfront.State, userID string, seat cyberfront.Seat) error {
	if !seat.Valid() {
		return cyberfront.Reject("unknown entity %s", seat)
	}
	if st.Player(seat).UserID != userID {
		return cyberfront.ErrNotSeated
	}
	return nil
}

// playsFor checks that userID holds at least one seat of side.
func playsFor(st *cyberfront.State, userID string, side cyberfront.Side) error {
	if !side.Valid() {
		return cyberfront.Reject("unknown side %q", side)
	}
	for _, seat := range st.SeatsOf(userID) {
		if seat.Side == side {
			return nil
		}
	}
	return cyberfront.ErrNotSeated
}
