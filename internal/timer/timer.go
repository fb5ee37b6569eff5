// Package timer runs one turn countdown per game.
package timer

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// TickFunc receives the seconds left after every tick.
type TickFunc func(gameID string, remaining int)

// ExpireFunc is called once a countdown reaches zero. turn is the value
// the countdown was started with, so late expiries can be told apart.
type ExpireFunc func(ctx context.Context, gameID string, turn int64)

type countdown struct {
	turn      int64
	remaining atomic.Int64
	cancel    context.CancelFunc
}

// Registry supervises the countdowns. A panic in one countdown is logged
// and ends only that countdown.
type Registry struct {
	ctx      context.Context
	logger   *slog.Logger
	tick     time.Duration
	onTick   TickFunc
	onExpire ExpireFunc

	mu     sync.Mutex
	timers map[string]*countdown
	wg     sync.WaitGroup
}

// NewRegistry returns a registry whose countdowns lose one second every
// tick and stop when ctx is cancelled.
func NewRegistry(ctx context.Context, logger *slog.Logger, tick time.Duration, onTick TickFunc, onExpire ExpireFunc) *Registry {
	return &Registry{
		ctx:      ctx,
		logger:   logger,
		tick:     tick,
		onTick:   onTick,
		onExpire: onExpire,
		timers:   make(map[string]*countdown),
	}
}

// Start runs a countdown of seconds for gameID, replacing any running one.
func (r *Registry) Start(gameID string, turn int64, seconds int) {
	if r.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithCancel(r.ctx)
	c := &countdown{turn: turn, cancel: cancel}
	c.remaining.Store(int64(seconds))

	r.mu.Lock()
	if old, ok := r.timers[gameID]; ok {
		old.cancel()
	}
	r.timers[gameID] = c
	r.wg.Add(1)
	r.mu.Unlock()

	r.logger.Debug("countdown started", "game_id", gameID, "turn", turn, "seconds", seconds)
	go r.run(ctx, gameID, c)
}

// Pause cancels the countdown of gameID and returns the seconds it had
// left. ok is false when none was running.
func (r *Registry) Pause(gameID string) (remaining int, ok bool) {
	r.mu.Lock()
	c, ok := r.timers[gameID]
	if ok {
		c.cancel()
		delete(r.timers, gameID)
	}
	r.mu.Unlock()
	if !ok {
		return 0, false
	}
	return int(max(c.remaining.Load(), 0)), true
}

// Stop disposes of the countdown of a finished game.
func (r *Registry) Stop(gameID string) {
	r.Pause(gameID)
}

// Remaining reports the seconds left for gameID.
func (r *Registry) Remaining(gameID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.timers[gameID]
	if !ok {
		return 0, false
	}
	return int(max(c.remaining.Load(), 0)), true
}

// Active lists the games with a running countdown.
func (r *Registry) Active() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.timers))
	for id := range r.timers {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	slices.Sort(ids)
	return ids
}

// Close cancels every countdown and waits for them to return.
func (r *Registry) Close() {
	r.mu.Lock()
	for id, c := range r.timers {
		c.cancel()
		delete(r.timers, id)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Registry) run(ctx context.Context, gameID string, c *countdown) {
	defer r.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("countdown panicked", "game_id", gameID, "turn", c.turn, "panic", p)
			r.remove(gameID, c)
		}
	}()

	t := time.NewTicker(r.tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		left := max(c.remaining.Add(-1), 0)
		if r.onTick != nil {
			r.onTick(gameID, int(left))
		}
		if left > 0 {
			continue
		}

		if !r.remove(gameID, c) {
			return
		}
		r.logger.Info("countdown expired", "game_id", gameID, "turn", c.turn)
		if r.onExpire != nil {
			r.onExpire(r.ctx, gameID, c.turn)
		}
		return
	}
}

// remove drops c from the registry if it is still the countdown of gameID.
func (r *Registry) remove(gameID string, c *countdown) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timers[gameID] != c {
		return false
	}
	c.cancel()
	delete(r.timers, gameID)
	return true
}
