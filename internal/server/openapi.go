package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/engine"
	"github.com/playperu/cyberfront/internal/event"
	"github.com/playperu/cyberfront/internal/handler/health"
	"github.com/playperu/cyberfront/internal/turn"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               any
	status                             int
	errors                             []int
	contentType                        string
}

var operations = []operation{
	{method: http.MethodGet, path: "/healthz", summary: "Health check",
		description: "Returns the health status of backend dependencies.",
		resp: health.Report{}, status: http.StatusOK, errors: []int{http.StatusServiceUnavailable}},

	{method: http.MethodPost, path: "/api/users", summary: "Register",
		description: "Creates an account and logs it in. Sets the session cookie.",
		req: RegisterRequest{}, resp: UserResponse{}, status: http.StatusCreated,
		errors: []int{http.StatusBadRequest, http.StatusConflict}},
	{method: http.MethodPost, path: "/api/login", summary: "Log in",
		description: "Authenticate with username and password. Sets the session cookie.",
		req: LoginRequest{}, resp: UserResponse{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest, http.StatusUnauthorized}},
	{method: http.MethodPost, path: "/api/logout", summary: "Log out",
		description: "Clears the session and its cookie.", status: http.StatusOK},
	{method: http.MethodGet, path: "/api/me", summary: "Current user",
		description: "Returns the authenticated user.",
		resp: UserResponse{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized}},

	{method: http.MethodGet, path: "/api/games", summary: "List games",
		description: "Games owned by the user or in which it plays an entity.",
		resp: []cyberfront.Game{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized}},
	{method: http.MethodPost, path: "/api/games", summary: "Create game",
		description: "Creates a game. Every one of the ten entities must be assigned a username.",
		req: CreateGameRequest{}, resp: GameView{}, status: http.StatusCreated,
		errors: []int{http.StatusBadRequest, http.StatusUnauthorized}},
	{method: http.MethodGet, path: "/api/games/{gameID}", summary: "Get game",
		description: "Returns the full state of a game.",
		resp: GameView{}, status: http.StatusOK, errors: []int{http.StatusNotFound}},
	{method: http.MethodGet, path: "/api/games/{gameID}/records", summary: "Record-keeping sheet",
		description: "Every line logged for the game, oldest first. New lines are also pushed as record events.",
		resp: []cyberfront.Record{}, status: http.StatusOK, errors: []int{http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/games/{gameID}/start", summary: "Start game",
		description: "Starts play and the turn countdown. Owner only.",
		resp: GameView{}, status: http.StatusOK, errors: []int{http.StatusForbidden, http.StatusBadRequest}},
	{method: http.MethodPost, path: "/api/games/{gameID}/pause", summary: "Pause game",
		description: "Stops the countdown, keeping the seconds left. Owner only.",
		resp: GameView{}, status: http.StatusOK, errors: []int{http.StatusForbidden, http.StatusConflict}},
	{method: http.MethodPost, path: "/api/games/{gameID}/resume", summary: "Resume game",
		description: "Restarts the countdown where it was paused. Owner only.",
		resp: GameView{}, status: http.StatusOK, errors: []int{http.StatusForbidden, http.StatusBadRequest}},

	{method: http.MethodPost, path: "/api/games/{gameID}/actions", summary: "Play action",
		description: "Plays the action of one entity. The turn advances once the whole side has acted.",
		req: ActionRequest{}, resp: engine.Played{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict}},
	{method: http.MethodPost, path: "/api/games/{gameID}/finish-turn", summary: "Finish turn",
		description: "Ends the active side's turn. Entities that have not acted abstain.",
		resp: turn.Report{}, status: http.StatusOK, errors: []int{http.StatusForbidden, http.StatusConflict}},
	{method: http.MethodPost, path: "/api/games/{gameID}/ransom", summary: "Settle ransom",
		description: "Pays or refuses the ransom demanded from an entity.",
		req: RansomRequest{}, status: http.StatusOK, errors: []int{http.StatusBadRequest, http.StatusForbidden}},
	{method: http.MethodPost, path: "/api/games/{gameID}/event-card/read", summary: "Read event card",
		description: "Marks the current event card as read by a side and returns its effect.",
		req: SideRequest{}, resp: event.Effect{}, status: http.StatusOK, errors: []int{http.StatusForbidden}},

	{method: http.MethodGet, path: "/api/games/{gameID}/market", summary: "Black market",
		description: "Assets open for bidding.",
		resp: []cyberfront.Asset{}, status: http.StatusOK, errors: []int{http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/games/{gameID}/bids", summary: "Place bid",
		description: "Bids an entity's resource on an open asset. The resource is spent immediately.",
		req: BidRequest{}, resp: cyberfront.Asset{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict}},
	{method: http.MethodGet, path: "/api/games/{gameID}/assets/{side}", summary: "Team assets",
		description: "Assets secured or activated by a side.",
		resp: []cyberfront.Asset{}, status: http.StatusOK, errors: []int{http.StatusBadRequest}},
	{method: http.MethodPost, path: "/api/games/{gameID}/assets/{assetID}/activate", summary: "Activate asset",
		description: "Spends a secured asset held by a side.",
		req: ActivateRequest{}, resp: cyberfront.Asset{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict}},

	{method: http.MethodGet, path: "/api/games/{gameID}/events", summary: "SSE event stream",
		description: "Server-Sent Events stream of game notifications.",
		status: http.StatusOK, contentType: "text/event-stream"},
	{method: http.MethodGet, path: "/api/games/{gameID}/clock", summary: "Turn clock",
		description: "Upgrades to a WebSocket carrying the countdown. Accepts pause and resume commands.",
		status: http.StatusSwitchingProtocols, contentType: "text/plain"},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Cyberfront API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Cyberfront cyber-conflict game.")

	for _, op := range operations {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		if op.contentType != "" {
			oc.AddRespStructure(nil, openapi.WithHTTPStatus(op.status), openapi.WithContentType(op.contentType))
		} else {
			oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(op.status))
		}
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
