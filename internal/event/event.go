// Package event manages the monthly event deck and the one-time effect of
// each card.
package event

import (
	"github.com/playperu/cyberfront/internal/cyberfront"
)

// Rand picks uniform indexes.
type Rand interface {
	Intn(n int) int
}

// Named cards, each once per deck.
var Named = []cyberfront.CardName{
	cyberfront.NuclearMeltdown,
	cyberfront.ClumsyCivilServant,
	cyberfront.SoftwareUpdateCard,
	cyberfront.BankingError,
	cyberfront.Embargoed,
	cyberfront.LaxOpSec,
	cyberfront.PeoplesRevolt,
	cyberfront.QuantumBreakthrough,
}

// UneventfulCopies is how many blank months pad the deck.
const UneventfulCopies = 7

// NewDeck instantiates the deck for gameID and draws the opening card.
func NewDeck(gameID string, rng Rand, newID func() string) ([]*cyberfront.EventCard, *cyberfront.EventCard) {
	names := append([]cyberfront.CardName(nil), Named...)
	for range UneventfulCopies {
		names = append(names, cyberfront.UneventfulMonth)
	}

	cards := make([]*cyberfront.EventCard, 0, len(names))
	for _, n := range names {
		cards = append(cards, &cyberfront.EventCard{
			ID:     newID(),
			GameID: gameID,
			Name:   n,
			Status: cyberfront.CardInDeck,
		})
	}
	return cards, Draw(cards, rng)
}

// Draw picks a card uniformly from those still in the deck and marks it
// drawn. It returns nil when the deck is empty.
func Draw(cards []*cyberfront.EventCard, rng Rand) *cyberfront.EventCard {
	var deck []*cyberfront.EventCard
	for _, c := range cards {
		if c.Status == cyberfront.CardInDeck {
			deck = append(deck, c)
		}
	}
	if len(deck) == 0 {
		return nil
	}
	c := deck[rng.Intn(len(deck))]
	c.Status = cyberfront.CardDrawn
	return c
}

// Adjustment changes one entity's vitality and resource.
type Adjustment struct {
	Seat     cyberfront.Seat `json:"seat"`
	Vitality float64         `json:"vitality"`
	Resource int             `json:"resource"`
}

// Effect is what drawing a card does to the game.
type Effect struct {
	Card        cyberfront.CardName `json:"card"`
	Adjustments []Adjustment        `json:"adjustments,omitempty"`
	// BlockTransfers bans resource transfers within that team until its
	// month closes.
	BlockTransfers cyberfront.Side `json:"blockTransfers,omitempty"`
}

// EffectOf returns the effect of drawing name.
func EffectOf(name cyberfront.CardName) Effect {
	e := Effect{Card: name}
	adjust := func(side cyberfront.Side, role cyberfront.Role, vitality float64, resource int) {
		e.Adjustments = append(e.Adjustments, Adjustment{
			Seat:     cyberfront.At(side, role),
			Vitality: vitality,
			Resource: resource,
		})
	}

	switch name {
	case cyberfront.NuclearMeltdown:
		adjust(cyberfront.Blue, cyberfront.Energy, -1, 0)
	case cyberfront.ClumsyCivilServant:
		adjust(cyberfront.Blue, cyberfront.People, -1, 0)
		adjust(cyberfront.Blue, cyberfront.Government, 0, -2)
	case cyberfront.SoftwareUpdateCard:
		adjust(cyberfront.Blue, cyberfront.Industry, 0, -2)
	case cyberfront.BankingError:
		e.BlockTransfers = cyberfront.Blue
	case cyberfront.LaxOpSec:
		adjust(cyberfront.Red, cyberfront.Government, -1, -1)
	case cyberfront.QuantumBreakthrough:
		for _, seat := range cyberfront.AllSeats() {
			adjust(seat.Side, seat.Role, 1, 1)
		}
	}
	// Embargoed and Uneventful Month change nothing. People's Revolt acts
	// through SuppressesStipend.
	return e
}

// Apply changes st according to e. It reports whether an entity ended at
// zero vitality.
func (e Effect) Apply(st *cyberfront.State) bool {
	for _, a := range e.Adjustments {
		p := st.Player(a.Seat)
		switch {
		case a.Vitality < 0:
			p.Damage(-a.Vitality)
		case a.Vitality > 0:
			p.Heal(a.Vitality)
		}
		switch {
		case a.Resource < 0:
			p.Spend(-a.Resource)
		case a.Resource > 0:
			p.Gain(a.Resource)
		}
	}
	if e.BlockTransfers != "" {
		st.Team(e.BlockTransfers).CanTransferResource = false
	}
	return st.AnyDepleted()
}

// SuppressesStipend reports whether the drawn card withholds the stipend of
// the side about to play.
func SuppressesStipend(drawn cyberfront.CardName, next cyberfront.Side) bool {
	return drawn == cyberfront.PeoplesRevolt && next == cyberfront.Red
}

// OpeningResource returns the starting resource of seat when the opening
// card is drawn.
func OpeningResource(drawn cyberfront.CardName, seat cyberfront.Seat, initial int) int {
	if drawn == cyberfront.PeoplesRevolt && seat == cyberfront.At(cyberfront.Red, cyberfront.Government) {
		return 0
	}
	return initial
}
