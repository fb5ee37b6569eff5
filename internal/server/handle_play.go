package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/engine"
	"github.com/playperu/cyberfront/internal/market"
	"github.com/playperu/cyberfront/internal/turn"
)

// ActionRequest is the request body for POST /api/games/{gameID}/actions.
type ActionRequest struct {
	Seat cyberfront.Seat `json:"seat"`
	turn.Request
}

// BidRequest is the request body for POST /api/games/{gameID}/bids.
type BidRequest struct {
	Seat    cyberfront.Seat `json:"seat"`
	AssetID string          `json:"assetId"`
	Amount  int             `json:"amount"`
}

// ActivateRequest is the request body for POST /api/games/{gameID}/assets/{assetID}/activate.
type ActivateRequest struct {
	Side   cyberfront.Side `json:"side"`
	Target market.Target   `json:"target"`
}

// RansomRequest is the request body for POST /api/games/{gameID}/ransom.
type RansomRequest struct {
	Seat cyberfront.Seat `json:"seat"`
	Pay  bool            `json:"pay"`
}

// SideRequest names the team a request is made for.
type SideRequest struct {
	Side cyberfront.Side `json:"side"`
}

func handleAction(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ActionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		out, err := games.SubmitAction(r.Context(), userID(r), chi.URLParam(r, "gameID"), req.Seat, req.Request)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleFinishTurn(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := games.FinishTurn(r.Context(), userID(r), chi.URLParam(r, "gameID"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func handleRansom(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RansomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := games.PayRansom(r.Context(), userID(r), chi.URLParam(r, "gameID"), req.Seat, req.Pay); err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleReadEventCard(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SideRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		eff, err := games.ReadEventCard(r.Context(), userID(r), chi.URLParam(r, "gameID"), req.Side)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, eff)
	}
}

func handleMarket(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets, err := games.MarketAssets(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(assets))
	}
}

func handleTeamAssets(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		side := cyberfront.Side(chi.URLParam(r, "side"))
		assets, err := games.TeamAssets(r.Context(), chi.URLParam(r, "gameID"), side)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(assets))
	}
}

func handleBid(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BidRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		a, err := games.PlaceBid(r.Context(), userID(r), chi.URLParam(r, "gameID"), req.Seat, req.AssetID, req.Amount)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func handleActivate(games *engine.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ActivateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		a, err := games.ActivateAsset(r.Context(), userID(r), chi.URLParam(r, "gameID"),
			req.Side, chi.URLParam(r, "assetID"), req.Target)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func nonNil(assets []*cyberfront.Asset) []*cyberfront.Asset {
	if assets == nil {
		return []*cyberfront.Asset{}
	}
	return assets
}
