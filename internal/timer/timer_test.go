package timer

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"
)

type expiry struct {
	gameID string
	turn   int64
}

func newRegistry(t *testing.T, onTick TickFunc) (*Registry, chan expiry) {
	t.Helper()
	expired := make(chan expiry, 8)
	r := NewRegistry(context.Background(), slog.Default(), time.Millisecond, onTick,
		func(_ context.Context, gameID string, turn int64) {
			expired <- expiry{gameID, turn}
		})
	t.Cleanup(r.Close)
	return r, expired
}

func waitExpiry(t *testing.T, ch chan expiry) expiry {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never expired")
		return expiry{}
	}
}

func TestCountdownExpires(t *testing.T) {
	var (
		mu    sync.Mutex
		ticks []int
	)
	r, expired := newRegistry(t, func(gameID string, remaining int) {
		mu.Lock()
		ticks = append(ticks, remaining)
		mu.Unlock()
	})

	r.Start("g1", 7, 3)
	e := waitExpiry(t, expired)
	if e.gameID != "g1" || e.turn != 7 {
		t.Errorf("expiry = %+v, want g1 turn 7", e)
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(ticks, []int{2, 1, 0}) {
		t.Errorf("ticks = %v, want [2 1 0]", ticks)
	}
	if got := r.Active(); len(got) != 0 {
		t.Errorf("active after expiry = %v", got)
	}
}

func TestRestartReplaces(t *testing.T) {
	r, expired := newRegistry(t, nil)

	r.Start("g1", 1, 10_000)
	r.Start("g1", 2, 2)

	if e := waitExpiry(t, expired); e.turn != 2 {
		t.Errorf("expired turn = %d, want 2", e.turn)
	}
	select {
	case e := <-expired:
		t.Errorf("replaced countdown expired: %+v", e)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestPause(t *testing.T) {
	r, expired := newRegistry(t, nil)
	r.Start("g1", 1, 10_000)

	left, ok := r.Pause("g1")
	if !ok || left <= 0 || left > 10_000 {
		t.Errorf("Pause = %d, %v", left, ok)
	}
	if _, ok := r.Remaining("g1"); ok {
		t.Error("paused countdown still registered")
	}
	if _, ok := r.Pause("g1"); ok {
		t.Error("second pause reported a countdown")
	}
	select {
	case e := <-expired:
		t.Errorf("paused countdown expired: %+v", e)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestActiveAndStop(t *testing.T) {
	r, _ := newRegistry(t, nil)
	r.Start("b", 1, 10_000)
	r.Start("a", 1, 10_000)

	if got := r.Active(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Active = %v", got)
	}
	r.Stop("a")
	if got := r.Active(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Active after stop = %v", got)
	}
}

func TestPanicIsolated(t *testing.T) {
	r, expired := newRegistry(t, func(gameID string, remaining int) {
		if gameID == "bad" {
			panic("boom")
		}
	})

	r.Start("bad", 1, 10_000)
	r.Start("good", 1, 3)

	if e := waitExpiry(t, expired); e.gameID != "good" {
		t.Errorf("expired %q, want good", e.gameID)
	}
	deadline := time.Now().Add(time.Second)
	for slices.Contains(r.Active(), "bad") {
		if time.Now().After(deadline) {
			t.Fatal("panicked countdown still registered")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestClosedRegistryIgnoresStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRegistry(ctx, slog.Default(), time.Millisecond, nil, nil)
	cancel()
	r.Start("g1", 1, 5)
	if got := r.Active(); len(got) != 0 {
		t.Errorf("Active = %v", got)
	}
	r.Close()
}
