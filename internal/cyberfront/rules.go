package cyberfront

import "time"

// Rules holds the tunable constants of a game.
type Rules struct {
	TurnDuration time.Duration
	// RoundsPerPeriod is how many turns each side plays before the
	// calendar month closes.
	RoundsPerPeriod int

	InitialVitality   float64
	InitialResource   int
	GovernmentStipend int

	MaxTransfer           int
	NetworkPolicyTransfer int
	MaxRevitalise         int
	// RevitaliseCost maps vitality restored to resource spent.
	RevitaliseCost map[int]int

	FinishingBonus int
}

// DefaultRules returns the rules of the standard game.
func DefaultRules() Rules {
	return Rules{
		TurnDuration:          10 * time.Minute,
		RoundsPerPeriod:       2,
		InitialVitality:       4,
		InitialResource:       3,
		GovernmentStipend:     3,
		MaxTransfer:           5,
		NetworkPolicyTransfer: 2,
		MaxRevitalise:         6,
		RevitaliseCost:        map[int]int{1: 1, 2: 2, 3: 4, 4: 5, 5: 6, 6: 7},
		FinishingBonus:        10,
	}
}

// TurnSeconds is the countdown value a new turn starts with.
func (r Rules) TurnSeconds() int {
	return int(r.TurnDuration / time.Second)
}
