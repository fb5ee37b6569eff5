// Package objective scores victory points. Each objective is a pair of
// expressions compiled once: a condition over an Env snapshot and the
// points it is worth.
package objective

import (
	"github.com/expr-lang/expr/vm"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/market"
)

// Objective awards Points to Seat whenever Condition holds at month close,
// or once at game end when Final is set.
type Objective struct {
	Name      string
	Seat      cyberfront.Seat
	Final     bool
	Condition string
	Points    string

	when   *vm.Program
	points *vm.Program
}

// Entity is the per-entity view objectives read.
type Entity struct {
	Resource      int
	Vitality      float64
	VictoryPoints int
}

type Team struct {
	People       Entity
	Industry     Entity
	Government   Entity
	Energy       Entity
	Intelligence Entity
}

// Env is the snapshot every expression is evaluated against.
type Env struct {
	Month string
	Blue  Team
	Red   Team

	InitialVitality        float64
	IndustryAprilVitality  float64
	IndustryAugustVitality float64

	RedAttackAssets   int
	BlueDefenceAssets int

	RecruitmentMaxStreak  int
	GrowCapacityMaxStreak int
}

// NewEnv snapshots st.
func NewEnv(st *cyberfront.State, initialVitality float64) Env {
	o := st.Game.Objectives
	return Env{
		Month:                  st.Game.ActivePeriod.String(),
		Blue:                   teamOf(st, cyberfront.Blue),
		Red:                    teamOf(st, cyberfront.Red),
		InitialVitality:        initialVitality,
		IndustryAprilVitality:  o.IndustryAprilVitality,
		IndustryAugustVitality: o.IndustryAugustVitality,
		RedAttackAssets:        market.CountHeld(st.Assets, cyberfront.Red, cyberfront.AssetAttack),
		BlueDefenceAssets:      market.CountHeld(st.Assets, cyberfront.Blue, cyberfront.AssetDefence),
		RecruitmentMaxStreak:   o.RecruitmentMaxStreak,
		GrowCapacityMaxStreak:  o.GrowCapacityMaxStreak,
	}
}

func teamOf(st *cyberfront.State, side cyberfront.Side) Team {
	e := func(role cyberfront.Role) Entity {
		p := st.Player(cyberfront.At(side, role))
		return Entity{Resource: p.Resource, Vitality: p.Vitality, VictoryPoints: p.VictoryPoints}
	}
	return Team{
		People:       e(cyberfront.People),
		Industry:     e(cyberfront.Industry),
		Government:   e(cyberfront.Government),
		Energy:       e(cyberfront.Energy),
		Intelligence: e(cyberfront.Intelligence),
	}
}

func blue(r cyberfront.Role) cyberfront.Seat { return cyberfront.At(cyberfront.Blue, r) }
func red(r cyberfront.Role) cyberfront.Seat  { return cyberfront.At(cyberfront.Red, r) }

// Defaults returns the objective table of the standard game.
func Defaults() []Objective {
	return []Objective{
		{Name: "Election Time", Seat: blue(cyberfront.Government), Condition: `Blue.People.Resource >= 4`, Points: `1`},

		{Name: "Weather the Storm", Seat: blue(cyberfront.Industry), Condition: `Month == "April" && Blue.Industry.Resource >= 3`, Points: `2`},
		{Name: "Weather the Storm", Seat: blue(cyberfront.Industry), Condition: `Month == "August" && Blue.Industry.Resource >= 6`, Points: `3`},
		{Name: "Weather the Storm", Seat: blue(cyberfront.Industry), Condition: `Month == "December" && Blue.Industry.Resource >= 9`, Points: `4`},

		{Name: "Grow Capacity", Seat: blue(cyberfront.Energy), Condition: `Month == "June" && Blue.Energy.Vitality >= 6`, Points: `2`},
		{Name: "Grow Capacity", Seat: blue(cyberfront.Energy), Condition: `Month == "December" && Blue.Energy.Vitality >= 9`, Points: `3`},

		{Name: "Some Are More Equal", Seat: red(cyberfront.Government), Condition: `Red.Government.Resource >= 3`, Points: `1`},

		{Name: "Those Who Can't, Steal", Seat: red(cyberfront.Industry), Condition: `Month == "April" && Red.Industry.Vitality > InitialVitality`, Points: `1`},
		{Name: "Those Who Can't, Steal", Seat: red(cyberfront.Industry), Condition: `Month == "August" && Red.Industry.Vitality > IndustryAprilVitality`, Points: `3`},
		{Name: "Those Who Can't, Steal", Seat: red(cyberfront.Industry), Condition: `Month == "December" && Red.Industry.Vitality > IndustryAugustVitality`, Points: `5`},

		{Name: "Win the Arms Race", Seat: red(cyberfront.Intelligence), Condition: `RedAttackAssets > BlueDefenceAssets`, Points: `2`},

		{Name: "Aggressive Outlook", Seat: blue(cyberfront.Government), Final: true, Condition: `Red.Government.Vitality < InitialVitality`, Points: `5`},
		{Name: "Recruitment Drive", Seat: blue(cyberfront.Intelligence), Final: true, Condition: `RecruitmentMaxStreak > 0`, Points: `2 * RecruitmentMaxStreak - 1`},
		{Name: "Grow Capacity", Seat: red(cyberfront.Energy), Final: true, Condition: `GrowCapacityMaxStreak > 0`, Points: `2 * GrowCapacityMaxStreak - 1`},
	}
}
