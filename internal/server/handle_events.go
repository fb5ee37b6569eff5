package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/cyberfront/internal/engine"
	"github.com/playperu/cyberfront/internal/notify"
)

// handleEvents streams every notification of a game as server-sent events.
// The SSE event name is the notification type.
func handleEvents(games *engine.Service, broker *notify.Broker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		if _, err := games.Game(r.Context(), gameID); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ch := broker.Subscribe(gameID)
		defer broker.Unsubscribe(gameID, ch)

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				var head struct {
					Type notify.EventType `json:"type"`
				}
				json.Unmarshal(data, &head)
				if head.Type == "" {
					head.Type = notify.EventState
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", head.Type, data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
