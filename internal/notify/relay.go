package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "cyberfront:game:"

type envelope struct {
	Origin string          `json:"origin"`
	Event  json.RawMessage `json:"event"`
}

// RedisRelay fans events out to every instance sharing a Redis server.
// Events are delivered locally at once and relayed to the other instances,
// which skip their own messages.
type RedisRelay struct {
	rdb    *redis.Client
	local  *Broker
	logger *slog.Logger
	origin string
}

func NewRedisRelay(rdb *redis.Client, local *Broker, logger *slog.Logger) *RedisRelay {
	return &RedisRelay{
		rdb:    rdb,
		local:  local,
		logger: logger,
		origin: uuid.NewString(),
	}
}

func (r *RedisRelay) Publish(gameID string, e Event) {
	e.GameID = gameID
	data, err := json.Marshal(e)
	if err != nil {
		r.logger.Error("encoding event", "game_id", gameID, "error", err)
		return
	}
	r.local.deliver(gameID, data)

	msg, _ := json.Marshal(envelope{Origin: r.origin, Event: data})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.rdb.Publish(ctx, channelPrefix+gameID, msg).Err(); err != nil {
		r.logger.Warn("relaying event", "game_id", gameID, "type", e.Type, "error", err)
	}
}

// Run forwards events published by other instances to local subscribers
// until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to game events: %w", err)
	}
	r.logger.Info("relaying game events", "origin", r.origin)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(msg)
		}
	}
}

func (r *RedisRelay) forward(msg *redis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		r.logger.Warn("dropping malformed relay message", "channel", msg.Channel, "error", err)
		return
	}
	if env.Origin == r.origin {
		return
	}
	r.local.deliver(strings.TrimPrefix(msg.Channel, channelPrefix), env.Event)
}
