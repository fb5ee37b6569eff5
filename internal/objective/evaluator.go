package objective

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/playperu/cyberfront/internal/cyberfront"
)

// Award is a victory-point change granted by an objective.
type Award struct {
	Objective string          `json:"objective"`
	Seat      cyberfront.Seat `json:"seat"`
	Points    int             `json:"points"`
}

// Evaluator holds a compiled objective table.
type Evaluator struct {
	objectives      []*Objective
	initialVitality float64
}

// New compiles the default table.
func New(initialVitality float64) (*Evaluator, error) {
	return Compile(Defaults(), initialVitality)
}

// Compile checks and compiles every objective against Env.
func Compile(objectives []Objective, initialVitality float64) (*Evaluator, error) {
	e := &Evaluator{initialVitality: initialVitality}
	for _, o := range objectives {
		if !o.Seat.Valid() {
			return nil, fmt.Errorf("objective %q: invalid seat %s", o.Name, o.Seat)
		}
		when, err := expr.Compile(o.Condition, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile objective %q condition: %w", o.Name, err)
		}
		points, err := expr.Compile(o.Points, expr.Env(Env{}), expr.AsInt())
		if err != nil {
			return nil, fmt.Errorf("compile objective %q points: %w", o.Name, err)
		}
		o.when, o.points = when, points
		e.objectives = append(e.objectives, &o)
	}
	return e, nil
}

// Monthly runs at the close of st's active period. It scores the monthly
// objectives, then records the snapshots and quarterly streaks later
// months compare against.
func (e *Evaluator) Monthly(st *cyberfront.State) ([]Award, error) {
	awards, err := e.run(st, false)
	if err != nil {
		return nil, err
	}
	track(st)
	return awards, nil
}

// Final scores the end-game objectives and returns the outcome decided by
// the per-side victory point sums.
func (e *Evaluator) Final(st *cyberfront.State) ([]Award, cyberfront.Outcome, error) {
	awards, err := e.run(st, true)
	if err != nil {
		return nil, "", err
	}
	return awards, Decide(st), nil
}

func (e *Evaluator) run(st *cyberfront.State, final bool) ([]Award, error) {
	env := NewEnv(st, e.initialVitality)

	var awards []Award
	for _, o := range e.objectives {
		if o.Final != final {
			continue
		}
		ok, err := vm.Run(o.when, env)
		if err != nil {
			return nil, fmt.Errorf("evaluate objective %q: %w", o.Name, err)
		}
		if !ok.(bool) {
			continue
		}
		pts, err := vm.Run(o.points, env)
		if err != nil {
			return nil, fmt.Errorf("score objective %q: %w", o.Name, err)
		}
		awards = append(awards, Award{Objective: o.Name, Seat: o.Seat, Points: pts.(int)})
	}

	// Every condition sees the same snapshot, so points land afterwards.
	for _, a := range awards {
		st.Player(a.Seat).VictoryPoints += a.Points
	}
	return awards, nil
}

func track(st *cyberfront.State) {
	g := st.Game
	o := &g.Objectives

	switch g.ActivePeriod {
	case cyberfront.April:
		o.IndustryAprilVitality = st.Player(red(cyberfront.Industry)).Vitality
	case cyberfront.August:
		o.IndustryAugustVitality = st.Player(red(cyberfront.Industry)).Vitality
	}

	if !g.ActivePeriod.QuarterEnd() {
		return
	}
	o.RecruitmentStreak, o.RecruitmentMaxStreak = streak(o.RecruitmentRevitalised, o.RecruitmentStreak, o.RecruitmentMaxStreak)
	o.GrowCapacityStreak, o.GrowCapacityMaxStreak = streak(o.GrowCapacityRevitalised, o.GrowCapacityStreak, o.GrowCapacityMaxStreak)
	o.RecruitmentRevitalised = false
	o.GrowCapacityRevitalised = false
}

func streak(revitalised bool, current, best int) (int, int) {
	if !revitalised {
		return 0, best
	}
	current++
	return current, max(current, best)
}

// Decide compares the per-side victory point sums.
func Decide(st *cyberfront.State) cyberfront.Outcome {
	b, r := st.VictoryPoints(cyberfront.Blue), st.VictoryPoints(cyberfront.Red)
	switch {
	case b > r:
		return cyberfront.BlueVictory
	case r > b:
		return cyberfront.RedVictory
	default:
		return cyberfront.Tie
	}
}

// MarkRevitalise records a revitalisation for the quarterly streaks.
func MarkRevitalise(st *cyberfront.State, seat cyberfront.Seat) {
	switch seat {
	case blue(cyberfront.Intelligence):
		st.Game.Objectives.RecruitmentRevitalised = true
	case red(cyberfront.Energy):
		st.Game.Objectives.GrowCapacityRevitalised = true
	}
}

// OnAttack scores the objectives tied to an attack by seat spending spent.
// It must run before the attack consumes the attacker's conditions.
func OnAttack(st *cyberfront.State, seat cyberfront.Seat, spent int) []Award {
	if seat != red(cyberfront.People) {
		return nil
	}

	var awards []Award
	switch spent {
	case 3, 4:
		awards = append(awards, Award{Objective: "Control the Trolls", Seat: red(cyberfront.Government), Points: -1})
	case 5, 6:
		awards = append(awards, Award{Objective: "Control the Trolls", Seat: red(cyberfront.Government), Points: -2})
	}
	if spent >= 3 && st.Player(seat).Conditions.RansomwarePending {
		awards = append(awards, Award{Objective: "Success Breeds Confidence", Seat: seat, Points: 4})
	}

	for _, a := range awards {
		st.Player(a.Seat).VictoryPoints += a.Points
	}
	return awards
}

// OnTransfer scores the objectives tied to a resource transfer from seat.
func OnTransfer(st *cyberfront.State, seat cyberfront.Seat) []Award {
	if seat != blue(cyberfront.People) {
		return nil
	}
	st.Player(seat).VictoryPoints--
	return []Award{{Objective: "Resist the Drain", Seat: seat, Points: -1}}
}
