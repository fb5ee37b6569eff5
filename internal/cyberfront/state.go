package cyberfront

import "time"

// NewState builds a fresh game with both teams seated at their starting
// values. Market and deck are left empty. newID supplies record ids.
func NewState(gameID string, rules Rules, newID func() string) *State {
	now := time.Now().UTC()
	st := &State{
		Game: &Game{
			ID:               gameID,
			Status:           StatusNotStarted,
			ActiveSide:       Red,
			ActivePeriod:     January,
			RemainingSeconds: rules.TurnSeconds(),
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		Teams:   make(map[Side]*Team, len(Sides)),
		Players: make(map[Seat]*Player, len(Sides)*len(Roles)),
	}

	for _, side := range Sides {
		team := &Team{
			ID:                  newID(),
			GameID:              gameID,
			Side:                side,
			Players:             make(map[Role]string, len(Roles)),
			CanTransferResource: true,
		}
		for _, seat := range SideSeats(side) {
			p := &Player{
				ID:       newID(),
				GameID:   gameID,
				Seat:     seat,
				Resource: rules.InitialResource,
				Vitality: rules.InitialVitality,
			}
			st.Players[seat] = p
			team.Players[seat.Role] = p.ID
		}
		st.Teams[side] = team
	}
	return st
}
