package event

import (
	"fmt"
	"testing"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/random"
)

func counterID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("c-%d", n)
	}
}

func newState() *cyberfront.State {
	return cyberfront.NewState("g1", cyberfront.DefaultRules(), counterID())
}

func TestNewDeck(t *testing.T) {
	cards, drawn := NewDeck("g1", random.New(1), counterID())
	if len(cards) != len(Named)+UneventfulCopies {
		t.Fatalf("deck size = %d", len(cards))
	}
	if drawn == nil || drawn.Status != cyberfront.CardDrawn {
		t.Fatalf("opening card = %+v", drawn)
	}
	n := 0
	for _, c := range cards {
		if c.Status == cyberfront.CardDrawn {
			n++
		}
	}
	if n != 1 {
		t.Errorf("drawn = %d, want 1", n)
	}
}

func TestDrawNeverRepeats(t *testing.T) {
	cards, first := NewDeck("g1", random.New(9), counterID())
	seen := map[string]bool{first.ID: true}
	for {
		c := Draw(cards, random.New(int64(len(seen))))
		if c == nil {
			break
		}
		if seen[c.ID] {
			t.Fatalf("card %s drawn twice", c.ID)
		}
		seen[c.ID] = true
	}
	if len(seen) != len(cards) {
		t.Errorf("drew %d of %d cards", len(seen), len(cards))
	}
}

func TestEffects(t *testing.T) {
	blue := func(r cyberfront.Role) cyberfront.Seat { return cyberfront.At(cyberfront.Blue, r) }
	red := func(r cyberfront.Role) cyberfront.Seat { return cyberfront.At(cyberfront.Red, r) }

	tests := []struct {
		card         cyberfront.CardName
		wantVitality map[cyberfront.Seat]float64
		wantResource map[cyberfront.Seat]int
		blocked      bool
	}{
		{card: cyberfront.NuclearMeltdown, wantVitality: map[cyberfront.Seat]float64{blue(cyberfront.Energy): 3}},
		{
			card:         cyberfront.ClumsyCivilServant,
			wantVitality: map[cyberfront.Seat]float64{blue(cyberfront.People): 3},
			wantResource: map[cyberfront.Seat]int{blue(cyberfront.Government): 1},
		},
		{card: cyberfront.SoftwareUpdateCard, wantResource: map[cyberfront.Seat]int{blue(cyberfront.Industry): 1}},
		{card: cyberfront.BankingError, blocked: true},
		{
			card:         cyberfront.LaxOpSec,
			wantVitality: map[cyberfront.Seat]float64{red(cyberfront.Government): 3},
			wantResource: map[cyberfront.Seat]int{red(cyberfront.Government): 2},
		},
		{
			card:         cyberfront.QuantumBreakthrough,
			wantVitality: map[cyberfront.Seat]float64{blue(cyberfront.People): 5, red(cyberfront.Energy): 5},
			wantResource: map[cyberfront.Seat]int{blue(cyberfront.Intelligence): 4, red(cyberfront.People): 4},
		},
		{card: cyberfront.Embargoed},
		{card: cyberfront.PeoplesRevolt},
		{card: cyberfront.UneventfulMonth},
	}

	for _, tt := range tests {
		t.Run(string(tt.card), func(t *testing.T) {
			st := newState()
			if EffectOf(tt.card).Apply(st) {
				t.Error("effect reported depletion")
			}
			for _, seat := range cyberfront.AllSeats() {
				p := st.Player(seat)
				wantV, ok := tt.wantVitality[seat]
				if !ok && tt.card != cyberfront.QuantumBreakthrough {
					wantV = 4
				} else if !ok {
					wantV = 5
				}
				if p.Vitality != wantV {
					t.Errorf("%s vitality = %v, want %v", seat, p.Vitality, wantV)
				}
				wantR, ok := tt.wantResource[seat]
				if !ok && tt.card != cyberfront.QuantumBreakthrough {
					wantR = 3
				} else if !ok {
					wantR = 4
				}
				if p.Resource != wantR {
					t.Errorf("%s resource = %d, want %d", seat, p.Resource, wantR)
				}
			}
			if got := !st.Team(cyberfront.Blue).CanTransferResource; got != tt.blocked {
				t.Errorf("blue transfers blocked = %v, want %v", got, tt.blocked)
			}
		})
	}
}

func TestEffectDepletes(t *testing.T) {
	st := newState()
	st.Player(cyberfront.At(cyberfront.Blue, cyberfront.Energy)).Vitality = 1
	if !EffectOf(cyberfront.NuclearMeltdown).Apply(st) {
		t.Error("meltdown to zero vitality not reported")
	}
}

func TestPeoplesRevolt(t *testing.T) {
	if !SuppressesStipend(cyberfront.PeoplesRevolt, cyberfront.Red) {
		t.Error("red stipend not suppressed")
	}
	if SuppressesStipend(cyberfront.PeoplesRevolt, cyberfront.Blue) {
		t.Error("blue stipend suppressed")
	}
	redGov := cyberfront.At(cyberfront.Red, cyberfront.Government)
	if got := OpeningResource(cyberfront.PeoplesRevolt, redGov, 3); got != 0 {
		t.Errorf("opening resource = %d, want 0", got)
	}
	if got := OpeningResource(cyberfront.Embargoed, redGov, 3); got != 3 {
		t.Errorf("opening resource = %d, want 3", got)
	}
}
