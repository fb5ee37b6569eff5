// Package clock streams a game's turn countdown over a websocket and
// accepts pause and resume commands from the game owner.
package clock

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/notify"
)

// Controller pauses and resumes games on behalf of a user.
type Controller interface {
	Pause(ctx context.Context, userID, gameID string) (*cyberfront.State, error)
	Resume(ctx context.Context, userID, gameID string) (*cyberfront.State, error)
}

type Subscriber interface {
	Subscribe(gameID string) chan []byte
	Unsubscribe(gameID string, ch chan []byte)
}

// UserFunc returns the authenticated user of a request.
type UserFunc func(r *http.Request) string

type Handler struct {
	logger *slog.Logger
	games  Controller
	events Subscriber
	user   UserFunc
}

func NewHandler(logger *slog.Logger, games Controller, events Subscriber, user UserFunc) *Handler {
	return &Handler{logger: logger, games: games, events: events, user: user}
}

// Routes is mounted below a pattern carrying the {gameID} parameter.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.clock)
	return r
}

// Command is a client message.
type Command struct {
	Command string `json:"command"`
}

// Reply answers a command.
type Reply struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

// forwarded lists the event types a clock client receives.
var forwarded = map[notify.EventType]bool{
	notify.EventTick:     true,
	notify.EventPaused:   true,
	notify.EventResumed:  true,
	notify.EventAdvance:  true,
	notify.EventFinished: true,
}

func (h *Handler) clock(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	userID := h.user(r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithTimeout(r.Context(), 6*time.Hour)
	defer cancel()

	ch := h.events.Subscribe(gameID)
	defer h.events.Unsubscribe(gameID, ch)

	go func() {
		defer cancel()
		h.readCommands(ctx, conn, userID, gameID)
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case data := <-ch:
			var head struct {
				Type notify.EventType `json:"type"`
			}
			if json.Unmarshal(data, &head) != nil || !forwarded[head.Type] {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func (h *Handler) readCommands(ctx context.Context, conn *websocket.Conn, userID, gameID string) {
	for {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			h.logger.Debug("websocket read ended", "error", err)
			return
		}

		var cmd Command
		reply := Reply{Type: "ok"}
		if err := json.Unmarshal(msg, &cmd); err != nil {
			reply = Reply{Type: "error", Error: "invalid command"}
		} else if err := h.run(ctx, cmd.Command, userID, gameID); err != nil {
			reply = Reply{Type: "error", Error: err.Error()}
		}

		data, _ := json.Marshal(reply)
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (h *Handler) run(ctx context.Context, command, userID, gameID string) error {
	switch command {
	case "pause":
		_, err := h.games.Pause(ctx, userID, gameID)
		return err
	case "resume":
		_, err := h.games.Resume(ctx, userID, gameID)
		return err
	}
	return cyberfront.Reject("unknown command %q", command)
}
