// Package notify delivers best-effort game notifications to connected
// clients. A client that misses an event re-fetches the game state.
package notify

import (
	"encoding/json"
	"sync"
)

type EventType string

const (
	EventState    EventType = "state"
	EventAction   EventType = "action"
	EventAdvance  EventType = "advance"
	EventBid      EventType = "bid"
	EventTick     EventType = "tick"
	EventPaused   EventType = "paused"
	EventResumed  EventType = "resumed"
	EventFinished EventType = "finished"
	// EventRecord carries one new line of the game's record-keeping sheet.
	EventRecord EventType = "record"
)

// Event is the payload published to game subscribers.
type Event struct {
	Type      EventType `json:"type"`
	GameID    string    `json:"gameId"`
	Turn      int64     `json:"turn,omitempty"`
	Remaining *int      `json:"remaining,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Publisher sends events for a game. Delivery is never guaranteed.
type Publisher interface {
	Publish(gameID string, e Event)
}

// Broker is an in-process pub/sub keyed by game ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given game.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given game.
func (b *Broker) Publish(gameID string, e Event) {
	e.GameID = gameID
	data, _ := json.Marshal(e)
	b.deliver(gameID, data)
}

func (b *Broker) deliver(gameID string, data []byte) {
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Subscribers counts the open subscriptions of a game.
func (b *Broker) Subscribers(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[gameID])
}
