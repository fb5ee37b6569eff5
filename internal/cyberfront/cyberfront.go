// Package cyberfront holds the domain model of the game: sides, roles, the
// seat each entity player occupies, and the records the engine reads and
// writes for one game.
package cyberfront

import (
	"fmt"
	"strings"
)

// Side is one of the two teams.
type Side string

const (
	Blue Side = "blue"
	Red  Side = "red"
)

// Sides lists both teams in a fixed order.
var Sides = []Side{Blue, Red}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Blue {
		return Red
	}
	return Blue
}

func (s Side) Valid() bool { return s == Blue || s == Red }

// Role is one of the five entity archetypes fielded by every side.
type Role string

const (
	People       Role = "people"
	Industry     Role = "industry"
	Government   Role = "government"
	Energy       Role = "energy"
	Intelligence Role = "intelligence"
)

// Roles lists the five roles in seating order.
var Roles = []Role{People, Industry, Government, Energy, Intelligence}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// Seat identifies one entity player within a game.
type Seat struct {
	Side Side `json:"side"`
	Role Role `json:"role"`
}

// At is shorthand for Seat{side, role}.
func At(side Side, role Role) Seat { return Seat{Side: side, Role: role} }

func (s Seat) Valid() bool { return s.Side.Valid() && s.Role.Valid() }

func (s Seat) String() string { return string(s.Side) + "/" + string(s.Role) }

// ParseSeat parses the "side/role" form produced by Seat.String.
func ParseSeat(v string) (Seat, error) {
	side, role, ok := strings.Cut(v, "/")
	s := Seat{Side: Side(side), Role: Role(role)}
	if !ok || !s.Valid() {
		return Seat{}, fmt.Errorf("invalid seat %q", v)
	}
	return s, nil
}

// AllSeats enumerates the ten seats, blue first.
func AllSeats() []Seat {
	seats := make([]Seat, 0, len(Sides)*len(Roles))
	for _, side := range Sides {
		seats = append(seats, SideSeats(side)...)
	}
	return seats
}

// SideSeats enumerates the five seats of one side.
func SideSeats(side Side) []Seat {
	seats := make([]Seat, 0, len(Roles))
	for _, role := range Roles {
		seats = append(seats, Seat{Side: side, Role: role})
	}
	return seats
}

// Entity names used in log records.
var entityNames = map[Seat]string{
	At(Blue, People):       "Electorate",
	At(Blue, Industry):     "UK PLC",
	At(Blue, Government):   "UK Government",
	At(Blue, Energy):       "UK Energy",
	At(Blue, Intelligence): "GCHQ",
	At(Red, People):        "Online Trolls",
	At(Red, Industry):      "Energetic Bear",
	At(Red, Government):    "Russian Government",
	At(Red, Energy):        "Rosenergoatom",
	At(Red, Intelligence):  "SCS",
}

// EntityName returns the in-game name of the entity occupying s.
func (s Seat) EntityName() string {
	if n, ok := entityNames[s]; ok {
		return n
	}
	return s.String()
}

// Period is a calendar month, January being zero.
type Period int

const (
	January Period = iota
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var periodNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func (p Period) String() string {
	if p < January || p > December {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// QuarterEnd reports whether p closes a quarter.
func (p Period) QuarterEnd() bool {
	return p == March || p == June || p == September || p == December
}

type GameStatus string

const (
	StatusNotStarted GameStatus = "not_started"
	StatusInProgress GameStatus = "in_progress"
	StatusPaused     GameStatus = "paused"
	StatusFinished   GameStatus = "finished"
)

// Outcome is empty until the game finishes.
type Outcome string

const (
	BlueVictory Outcome = "blue_victory"
	RedVictory  Outcome = "red_victory"
	Tie         Outcome = "tie"
)

// Action is what an entity did with its turn.
type Action string

const (
	ActionNone        Action = ""
	ActionAttack      Action = "attack"
	ActionDistribute  Action = "distribute"
	ActionRevitalise  Action = "revitalise"
	ActionBlackMarket Action = "access_black_market"
	ActionAbstain     Action = "abstain"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAttack, ActionDistribute, ActionRevitalise, ActionBlackMarket, ActionAbstain:
		return true
	}
	return false
}
