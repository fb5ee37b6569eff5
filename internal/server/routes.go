package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/cyberfront/internal/handler/clock"
	"github.com/playperu/cyberfront/internal/handler/health"
)

func addRoutes(r chi.Router, d Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Cyberfront API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(d.Logger, d.Checks).Routes())

	r.Post("/api/users", handleRegister(d.Users, d.SessionTTL))
	r.Post("/api/login", handleLogin(d.Users, d.SessionTTL))
	r.Post("/api/logout", handleLogout(d.Users))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(d.Users))
		r.Get("/api/me", handleMe(d.Users))

		r.Route("/api/games", func(r chi.Router) {
			r.Get("/", handleListGames(d.Games, d.Logger))
			r.Post("/", handleCreateGame(d.Games, d.Users, d.Logger))

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", handleGetGame(d.Games, d.Logger))
				r.Get("/records", handleRecords(d.Games, d.Logger))
				r.Post("/start", handleStart(d.Games, d.Logger))
				r.Post("/pause", handlePause(d.Games, d.Logger))
				r.Post("/resume", handleResume(d.Games, d.Logger))

				r.Post("/actions", handleAction(d.Games, d.Logger))
				r.Post("/finish-turn", handleFinishTurn(d.Games, d.Logger))
				r.Post("/ransom", handleRansom(d.Games, d.Logger))
				r.Post("/event-card/read", handleReadEventCard(d.Games, d.Logger))

				r.Get("/market", handleMarket(d.Games, d.Logger))
				r.Post("/bids", handleBid(d.Games, d.Logger))
				r.Get("/assets/{side}", handleTeamAssets(d.Games, d.Logger))
				r.Post("/assets/{assetID}/activate", handleActivate(d.Games, d.Logger))

				r.Get("/events", handleEvents(d.Games, d.Events, d.Logger))
				r.Mount("/clock", clock.NewHandler(d.Logger, d.Games, d.Events, userID).Routes())
			})
		})
	})
}
