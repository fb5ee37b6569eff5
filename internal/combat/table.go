// Package combat resolves attacks. Everything here is a pure function of
// the game state, the resources committed and the die roll; the result is a
// delta the turn machine applies.
package combat

import (
	"github.com/playperu/cyberfront/internal/cyberfront"
)

// Table maps resources spent (rows) and die roll (columns) to attack
// strength.
var Table = [6][6]int{
	{0, 1, 1, 1, 1, 2},
	{0, 1, 1, 1, 2, 2},
	{-1, 0, 1, 2, 2, 3},
	{-1, 0, 1, 2, 3, 4},
	{-2, -1, 2, 3, 3, 4},
	{-2, -1, 0, 3, 5, 6},
}

const (
	MinStrength = -2
	MaxStrength = 6
)

// Strength looks up the table for spent and roll, both in 1..6.
func Strength(spent, roll int) (int, error) {
	if spent < 1 || spent > 6 {
		return 0, cyberfront.Reject("resources spent must be between 1 and 6, got %d", spent)
	}
	if roll < 1 || roll > 6 {
		return 0, cyberfront.Reject("die roll must be between 1 and 6, got %d", roll)
	}
	return Table[spent-1][roll-1], nil
}

var targets = map[cyberfront.Seat]cyberfront.Seat{
	cyberfront.At(cyberfront.Blue, cyberfront.Government):   cyberfront.At(cyberfront.Red, cyberfront.Government),
	cyberfront.At(cyberfront.Blue, cyberfront.Intelligence): cyberfront.At(cyberfront.Red, cyberfront.Energy),
	cyberfront.At(cyberfront.Red, cyberfront.People):        cyberfront.At(cyberfront.Blue, cyberfront.People),
	cyberfront.At(cyberfront.Red, cyberfront.Industry):      cyberfront.At(cyberfront.Blue, cyberfront.Industry),
	cyberfront.At(cyberfront.Red, cyberfront.Intelligence):  cyberfront.At(cyberfront.Blue, cyberfront.Energy),
}

// Target returns the seat an attacker strikes. ok is false for seats that
// never attack.
func Target(attacker cyberfront.Seat) (cyberfront.Seat, bool) {
	t, ok := targets[attacker]
	return t, ok
}

// AttackAllowed reports whether the entity at seat may attack given the
// game's open attack vectors.
func AttackAllowed(seat cyberfront.Seat, v cyberfront.AttackVectors) bool {
	switch seat {
	case cyberfront.At(cyberfront.Blue, cyberfront.Government):
		return v.Government
	case cyberfront.At(cyberfront.Blue, cyberfront.Intelligence):
		return v.RedEnergy
	case cyberfront.At(cyberfront.Red, cyberfront.People),
		cyberfront.At(cyberfront.Red, cyberfront.Industry):
		return true
	case cyberfront.At(cyberfront.Red, cyberfront.Intelligence):
		return v.BlueEnergy
	default:
		return false
	}
}

var splash = map[cyberfront.Side]map[cyberfront.Role][]cyberfront.Role{
	cyberfront.Blue: {
		cyberfront.People:       {cyberfront.Industry, cyberfront.Government, cyberfront.Energy},
		cyberfront.Industry:     {cyberfront.People, cyberfront.Government, cyberfront.Intelligence},
		cyberfront.Government:   {cyberfront.People, cyberfront.Industry, cyberfront.Energy, cyberfront.Intelligence},
		cyberfront.Energy:       {cyberfront.People, cyberfront.Government},
		cyberfront.Intelligence: {cyberfront.Industry, cyberfront.Government},
	},
	cyberfront.Red: {
		cyberfront.People:       {cyberfront.Government},
		cyberfront.Industry:     {cyberfront.Government, cyberfront.Intelligence},
		cyberfront.Government:   {cyberfront.People, cyberfront.Industry, cyberfront.Energy, cyberfront.Intelligence},
		cyberfront.Energy:       {cyberfront.Government},
		cyberfront.Intelligence: {cyberfront.Industry, cyberfront.Government},
	},
}

// Splash returns the seats caught by the blast when damaged takes a hit.
func Splash(damaged cyberfront.Seat) []cyberfront.Seat {
	roles := splash[damaged.Side][damaged.Role]
	seats := make([]cyberfront.Seat, 0, len(roles))
	for _, r := range roles {
		seats = append(seats, cyberfront.At(damaged.Side, r))
	}
	return seats
}
