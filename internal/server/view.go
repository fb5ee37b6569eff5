package server

import (
	"github.com/playperu/cyberfront/internal/condition"
	"github.com/playperu/cyberfront/internal/cyberfront"
)

// GameView is the response for a single game.
type GameView struct {
	Game  *cyberfront.Game `json:"game"`
	Month string           `json:"month"`
	Teams []TeamView       `json:"teams"`
	// Seats are the entities played by the requesting user.
	Seats []cyberfront.Seat `json:"seats"`
}

type TeamView struct {
	Side                cyberfront.Side `json:"side"`
	Name                string          `json:"name"`
	VictoryPoints       int             `json:"victoryPoints"`
	CanTransferResource bool            `json:"canTransferResource"`
	EventCardRead       bool            `json:"eventCardRead"`
	Entities            []EntityView    `json:"entities"`
}

type EntityView struct {
	Seat           cyberfront.Seat   `json:"seat"`
	Name           string            `json:"name"`
	UserID         string            `json:"userId"`
	Resource       int               `json:"resource"`
	Vitality       float64           `json:"vitality"`
	VictoryPoints  int               `json:"victoryPoints"`
	LastAction     cyberfront.Action `json:"lastAction"`
	MadeBid        bool              `json:"madeBid"`
	Conditions     condition.Set     `json:"conditions"`
	RansomAttacker *cyberfront.Seat  `json:"ransomAttacker,omitempty"`
}

func newGameView(st *cyberfront.State, userID string) GameView {
	v := GameView{
		Game:  st.Game,
		Month: st.Game.ActivePeriod.String(),
		Seats: st.SeatsOf(userID),
	}
	if v.Seats == nil {
		v.Seats = []cyberfront.Seat{}
	}
	for _, side := range cyberfront.Sides {
		team := st.Team(side)
		tv := TeamView{
			Side:                side,
			Name:                team.Name,
			VictoryPoints:       st.VictoryPoints(side),
			CanTransferResource: team.CanTransferResource,
			EventCardRead:       team.EventCardRead,
		}
		for _, seat := range cyberfront.SideSeats(side) {
			p := st.Player(seat)
			tv.Entities = append(tv.Entities, EntityView{
				Seat:           seat,
				Name:           seat.EntityName(),
				UserID:         p.UserID,
				Resource:       p.Resource,
				Vitality:       p.Vitality,
				VictoryPoints:  p.VictoryPoints,
				LastAction:     p.LastAction,
				MadeBid:        p.MadeBid,
				Conditions:     p.Conditions,
				RansomAttacker: p.RansomAttacker,
			})
		}
		v.Teams = append(v.Teams, tv)
	}
	return v
}
