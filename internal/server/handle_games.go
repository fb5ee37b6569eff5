package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/engine"
	"github.com/playperu/cyberfront/internal/store"
)

// CreateGameRequest is the request body for POST /api/games.
type CreateGameRequest struct {
	Description string                     `json:"description"`
	TeamNames   map[cyberfront.Side]string `json:"teamNames"`
	// Seats maps "side/role" to the username playing that entity.
	Seats map[string]string `json:"seats"`
}

func handleListGames(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := games.ListGames(r.Context(), userID(r))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		if list == nil {
			list = []*cyberfront.Game{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleCreateGame(games *engine.Service, users Users, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		seated, err := resolveSeats(r.Context(), users, req.Seats)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		st, err := games.CreateGame(r.Context(), userID(r), engine.NewGame{
			Description: req.Description,
			TeamNames:   req.TeamNames,
			Users:       seated,
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, newGameView(st, userID(r)))
	}
}

// resolveSeats turns usernames into user ids.
func resolveSeats(ctx context.Context, users Users, seats map[string]string) (map[cyberfront.Seat]string, error) {
	out := make(map[cyberfront.Seat]string, len(seats))
	for key, username := range seats {
		seat, err := cyberfront.ParseSeat(key)
		if err != nil {
			return nil, err
		}
		u, err := users.UserByUsername(ctx, username)
		if errors.Is(err, store.ErrNotFound) {
			return nil, cyberfront.Reject("unknown user %q", username)
		}
		if err != nil {
			return nil, err
		}
		out[seat] = u.ID
	}
	return out, nil
}

func handleGetGame(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := games.Game(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newGameView(st, userID(r)))
	}
}

func handleRecords(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := games.Records(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		if records == nil {
			records = []*cyberfront.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}

type lifecycleFunc func(ctx context.Context, userID, gameID string) (*cyberfront.State, error)

// handleLifecycle serves start, pause and resume.
func handleLifecycle(fn lifecycleFunc, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := fn(r.Context(), userID(r), chi.URLParam(r, "gameID"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newGameView(st, userID(r)))
	}
}

func handleStart(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return handleLifecycle(games.Start, logger)
}

func handlePause(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return handleLifecycle(games.Pause, logger)
}

func handleResume(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return handleLifecycle(games.Resume, logger)
}
