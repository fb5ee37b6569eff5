package cyberfront

import "time"

type RecordKind string

const (
	RecordGame      RecordKind = "game"
	RecordTurn      RecordKind = "turn"
	RecordAttack    RecordKind = "attack"
	RecordMarket    RecordKind = "market"
	RecordEvent     RecordKind = "event"
	RecordObjective RecordKind = "objective"
)

// Record is one line of a game's record-keeping sheet. Records are only
// ever appended.
type Record struct {
	ID     string     `json:"id"`
	GameID string     `json:"gameId"`
	Turn   int64      `json:"turn"`
	Period Period     `json:"period"`
	Side   Side       `json:"side"`
	Kind   RecordKind `json:"kind"`
	Text   string     `json:"text"`
	At     time.Time  `json:"at"`
}

// TeamName returns the display name of side, or the side itself when the
// team is unnamed.
func (s *State) TeamName(side Side) string {
	if t := s.Team(side); t != nil && t.Name != "" {
		return t.Name
	}
	return string(side)
}
