// Package turn sequences a game: lifecycle transitions, entity actions and
// the end-of-turn advance. It calls into combat, market, event and objective
// and is the only package that mutates a State.
package turn

import (
	"fmt"
	"time"

	"github.com/playperu/cyberfront/internal/combat"
	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/event"
	"github.com/playperu/cyberfront/internal/market"
	"github.com/playperu/cyberfront/internal/objective"
)

// Rand picks uniform indexes. *random.Source satisfies it.
type Rand interface {
	Intn(n int) int
}

type Machine struct {
	rules      cyberfront.Rules
	objectives *objective.Evaluator
	rng        Rand
	dice       combat.Dice
	newID      func() string
	now        func() time.Time
}

// New builds a machine for rules. rng drives the market and the deck, dice
// drives combat and newID supplies record ids.
func New(rules cyberfront.Rules, rng Rand, dice combat.Dice, newID func() string) (*Machine, error) {
	if rules.RoundsPerPeriod < 1 {
		return nil, fmt.Errorf("rounds per period must be positive, got %d", rules.RoundsPerPeriod)
	}
	ev, err := objective.New(rules.InitialVitality)
	if err != nil {
		return nil, fmt.Errorf("compile objectives: %w", err)
	}
	return &Machine{
		rules:      rules,
		objectives: ev,
		rng:        rng,
		dice:       dice,
		newID:      newID,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

func (m *Machine) Rules() cyberfront.Rules { return m.rules }

// Setup describes a game to create.
type Setup struct {
	GameID      string
	OwnerID     string
	Description string
	TeamNames   map[cyberfront.Side]string
	// Users binds every seat to the user controlling it.
	Users map[cyberfront.Seat]string
}

// NewGame builds a not-started game with its market and deck, and applies
// the opening event card.
func (m *Machine) NewGame(s Setup) (*cyberfront.State, error) {
	for _, seat := range cyberfront.AllSeats() {
		if s.Users[seat] == "" {
			return nil, cyberfront.Reject("no user assigned to %s", seat.EntityName())
		}
	}

	st := cyberfront.NewState(s.GameID, m.rules, m.newID)
	st.Game.OwnerID = s.OwnerID
	st.Game.Description = s.Description
	for side, team := range st.Teams {
		team.Name = s.TeamNames[side]
	}
	for seat, p := range st.Players {
		p.UserID = s.Users[seat]
	}

	st.Assets = market.New(s.GameID, m.rng, m.newID)
	cards, drawn := event.NewDeck(s.GameID, m.rng, m.newID)
	st.Cards = cards
	st.Game.DrawnCard = drawn.Name

	redGov := st.Player(cyberfront.At(cyberfront.Red, cyberfront.Government))
	redGov.Resource = event.OpeningResource(drawn.Name, redGov.Seat, m.rules.InitialResource)
	event.EffectOf(drawn.Name).Apply(st)
	return st, nil
}

func (m *Machine) Start(st *cyberfront.State) error {
	if st.Game.Status != cyberfront.StatusNotStarted {
		return cyberfront.Reject("game is %s", st.Game.Status)
	}
	st.Game.Status = cyberfront.StatusInProgress
	st.Game.RemainingSeconds = m.rules.TurnSeconds()
	m.record(st, cyberfront.RecordGame, "The game begins in %s. Opening event card: %s",
		st.Game.ActivePeriod, st.Game.DrawnCard)
	m.touch(st)
	return nil
}

// Pause stops the game with remaining seconds left on the clock.
func (m *Machine) Pause(st *cyberfront.State, remaining int) error {
	if st.Game.Status != cyberfront.StatusInProgress {
		return cyberfront.ErrNotInProgress
	}
	st.Game.Status = cyberfront.StatusPaused
	st.Game.RemainingSeconds = max(remaining, 0)
	m.record(st, cyberfront.RecordGame, "The game is paused with %d seconds left", st.Game.RemainingSeconds)
	m.touch(st)
	return nil
}

func (m *Machine) Resume(st *cyberfront.State) error {
	if st.Game.Status != cyberfront.StatusPaused {
		return cyberfront.Reject("game is %s", st.Game.Status)
	}
	st.Game.Status = cyberfront.StatusInProgress
	m.record(st, cyberfront.RecordGame, "The game resumes")
	m.touch(st)
	return nil
}

// Finish runs end-game scoring and closes the game. Finishing a finished
// game is a no-op.
func (m *Machine) Finish(st *cyberfront.State) ([]objective.Award, error) {
	if st.Game.Status == cyberfront.StatusFinished {
		return nil, nil
	}
	awards, outcome, err := m.objectives.Final(st)
	if err != nil {
		return nil, err
	}
	st.Game.Outcome = outcome
	st.Game.Status = cyberfront.StatusFinished
	m.recordAwards(st, awards)
	m.record(st, cyberfront.RecordGame, "The game is over: %s (%s %d, %s %d)", outcome,
		st.TeamName(cyberfront.Blue), st.VictoryPoints(cyberfront.Blue),
		st.TeamName(cyberfront.Red), st.VictoryPoints(cyberfront.Red))
	m.touch(st)
	return awards, nil
}

// Report describes one end-of-turn advance.
type Report struct {
	Ended        cyberfront.Side     `json:"ended"`
	ClosedPeriod cyberfront.Period   `json:"closedPeriod"`
	MonthClosed  bool                `json:"monthClosed"`
	Awards       []objective.Award   `json:"awards,omitempty"`
	Secured      []*cyberfront.Asset `json:"secured,omitempty"`
	Supplied     *cyberfront.Asset   `json:"supplied,omitempty"`
	Card         *event.Effect       `json:"card,omitempty"`
	Finished     bool                `json:"finished"`
}

// Advance ends the active side's turn.
func (m *Machine) Advance(st *cyberfront.State) (Report, error) {
	g := st.Game
	if g.Status != cyberfront.StatusInProgress {
		return Report{}, cyberfront.ErrNotInProgress
	}

	ending := g.ActiveSide
	closes := ending == cyberfront.Blue && g.Round+1 >= m.rules.RoundsPerPeriod
	rep := Report{Ended: ending, ClosedPeriod: g.ActivePeriod, MonthClosed: closes}

	for _, seat := range cyberfront.SideSeats(ending) {
		st.Player(seat).Conditions.Decay()
	}

	if closes {
		awards, err := m.objectives.Monthly(st)
		if err != nil {
			return Report{}, fmt.Errorf("monthly objectives: %w", err)
		}
		rep.Awards = awards
		m.recordAwards(st, awards)
		st.Team(ending).CanTransferResource = true
	}

	blueIndustry := st.Player(cyberfront.At(cyberfront.Blue, cyberfront.Industry))
	if g.RecoveryManagement && blueIndustry.SufferedDamage {
		blueIndustry.Heal(1)
	}

	for _, p := range st.Players {
		p.MadeBid = false
		p.SufferedDamage = false
	}

	if (closes && g.ActivePeriod == cyberfront.December) || st.AnyDepleted() {
		return m.finishReport(st, rep)
	}

	rep.Secured = market.Settle(st.Assets, ending)
	for _, a := range rep.Secured {
		m.record(st, cyberfront.RecordMarket, "%s secures %s as the highest bidder", st.TeamName(a.Owner), a.Name)
	}
	if closes {
		rep.Supplied = market.Supply(st.Assets, m.rng)
		if rep.Supplied != nil {
			m.record(st, cyberfront.RecordMarket, "%s is supplied to the black market", rep.Supplied.Name)
		}
		if card := event.Draw(st.Cards, m.rng); card != nil {
			g.DrawnCard = card.Name
			m.record(st, cyberfront.RecordEvent, "Event card drawn: %s", card.Name)
			eff := event.EffectOf(card.Name)
			rep.Card = &eff
			for _, team := range st.Teams {
				team.EventCardRead = false
			}
			if eff.Apply(st) {
				return m.finishReport(st, rep)
			}
		}
	}

	next := ending.Opponent()
	g.ActiveSide = next
	if ending == cyberfront.Blue {
		g.Round++
	}
	if closes {
		g.Round = 0
		g.ActivePeriod++
	}

	for _, seat := range cyberfront.SideSeats(next) {
		st.Player(seat).LastAction = cyberfront.ActionNone
	}

	if !event.SuppressesStipend(g.DrawnCard, next) {
		st.Player(cyberfront.At(next, cyberfront.Government)).Gain(m.rules.GovernmentStipend)
	}

	g.RemainingSeconds = m.rules.TurnSeconds()
	g.Turn++
	m.record(st, cyberfront.RecordTurn, "%s ends its turn. %s to play in %s",
		st.TeamName(ending), st.TeamName(next), g.ActivePeriod)
	m.touch(st)
	return rep, nil
}

func (m *Machine) finishReport(st *cyberfront.State, rep Report) (Report, error) {
	awards, err := m.Finish(st)
	if err != nil {
		return Report{}, fmt.Errorf("final objectives: %w", err)
	}
	rep.Awards = append(rep.Awards, awards...)
	rep.Finished = true
	return rep, nil
}

func (m *Machine) touch(st *cyberfront.State) {
	st.Game.UpdatedAt = m.now()
}
