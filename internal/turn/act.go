package turn

import (
	"github.com/playperu/cyberfront/internal/combat"
	"github.com/playperu/cyberfront/internal/condition"
	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/market"
	"github.com/playperu/cyberfront/internal/objective"
)

// Request is one entity's action for the turn.
type Request struct {
	Action cyberfront.Action `json:"action"`
	// Spent is the resource committed to an attack.
	Spent int `json:"spent,omitempty"`
	// Target receives a distribution.
	Target cyberfront.Seat `json:"target"`
	// Amount is the resource distributed or the vitality revitalised.
	Amount int `json:"amount,omitempty"`
}

// Result is what an action did.
type Result struct {
	Seat     cyberfront.Seat   `json:"seat"`
	Action   cyberfront.Action `json:"action"`
	Attack   *combat.Result    `json:"attack,omitempty"`
	Awards   []objective.Award `json:"awards,omitempty"`
	Finished bool              `json:"finished"`
	// SideDone is set once every entity of the active side has acted.
	SideDone bool `json:"sideDone"`
}

// Act validates and applies req for the entity at seat. A rejected action
// leaves st untouched.
func (m *Machine) Act(st *cyberfront.State, seat cyberfront.Seat, req Request) (Result, error) {
	p, err := m.actor(st, seat)
	if err != nil {
		return Result{}, err
	}
	if !req.Action.Valid() {
		return Result{}, cyberfront.Reject("unknown action %q", req.Action)
	}
	if p.Conditions.Paralysed() && req.Action != cyberfront.ActionAbstain {
		return Result{}, cyberfront.ErrParalysed
	}

	res := Result{Seat: seat, Action: req.Action}
	switch req.Action {
	case cyberfront.ActionAttack:
		err = m.attack(st, p, req.Spent, &res)
	case cyberfront.ActionDistribute:
		err = m.distribute(st, p, req.Target, req.Amount, &res)
	case cyberfront.ActionRevitalise:
		err = m.revitalise(st, p, req.Amount)
	}
	if err != nil {
		return Result{}, err
	}

	p.LastAction = req.Action
	if st.AnyDepleted() {
		awards, err := m.Finish(st)
		if err != nil {
			return Result{}, err
		}
		res.Awards = append(res.Awards, awards...)
		res.Finished = true
		return res, nil
	}
	res.SideDone = st.AllActed(st.Game.ActiveSide)
	m.touch(st)
	return res, nil
}

// Abstain marks every entity of the active side that has not acted. It is
// used when a side ends its turn early.
func (m *Machine) Abstain(st *cyberfront.State) {
	for _, seat := range cyberfront.SideSeats(st.Game.ActiveSide) {
		if p := st.Player(seat); !p.Acted() {
			p.LastAction = cyberfront.ActionAbstain
		}
	}
}

func (m *Machine) actor(st *cyberfront.State, seat cyberfront.Seat) (*cyberfront.Player, error) {
	if st.Game.Status != cyberfront.StatusInProgress {
		return nil, cyberfront.ErrNotInProgress
	}
	if !seat.Valid() {
		return nil, cyberfront.Reject("unknown entity %s", seat)
	}
	if seat.Side != st.Game.ActiveSide {
		return nil, cyberfront.ErrNotYourTurn
	}
	p := st.Player(seat)
	if p.Acted() {
		return nil, cyberfront.ErrAlreadyActed
	}
	return p, nil
}

func (m *Machine) attack(st *cyberfront.State, p *cyberfront.Player, spent int, res *Result) error {
	switch {
	case !combat.AttackAllowed(p.Seat, st.Game.Vectors):
		return cyberfront.Reject("%s is not allowed to attack", p.Seat.EntityName())
	case !p.Conditions.CanAttack():
		return cyberfront.Reject("%s is banned from attacking", p.Seat.EntityName())
	case spent < 1 || spent > 6:
		return cyberfront.Reject("attack must commit 1 to 6 resource, got %d", spent)
	case p.Resource < spent:
		return cyberfront.ErrInsufficient
	}

	r, err := combat.Resolve(st, p.Seat, spent, m.dice.Roll())
	if err != nil {
		return err
	}

	// Attack objectives read the attacker's payload before it is consumed.
	res.Awards = objective.OnAttack(st, p.Seat, spent)
	m.applyAttack(st, r)
	res.Attack = &r
	m.record(st, cyberfront.RecordAttack, "%s attacks %s with %d resource: roll %d, strength %d",
		r.Attacker.EntityName(), r.Target.EntityName(), spent, r.Roll, r.Strength)
	m.recordAwards(st, res.Awards)
	return nil
}

func (m *Machine) applyAttack(st *cyberfront.State, r combat.Result) {
	g := st.Game
	att := st.Player(r.Attacker)

	if r.ConsumedDoubleDamage {
		att.Conditions.DoubleDamage = false
	}
	if r.Ransomed {
		att.Conditions.RansomwarePending = false
		attacker := r.Attacker
		st.Player(r.Target).RansomAttacker = &attacker
	}

	for _, h := range r.Hits {
		st.Player(h.Seat).Damage(h.Damage)
	}
	for _, d := range r.Drains {
		st.Player(d.Seat).Spend(d.Amount)
	}
	for _, c := range r.Conditions {
		cs := &st.Player(c.Seat).Conditions
		switch c.Kind {
		case combat.AttackBan:
			cs.AttackBan = cs.AttackBan.Apply(c.Timer)
		case combat.BiddingBan:
			cs.BiddingBan = cs.BiddingBan.Apply(c.Timer)
		case combat.Paralysis:
			cs.Paralysis = cs.Paralysis.Apply(c.Timer)
		}
	}
	for _, gr := range r.Grants {
		market.Grant(st.Assets, gr.Name, gr.Side)
	}
	if r.SpecialVector {
		st.Assets = append(st.Assets, market.SpecialVector(g.ID, m.newID()))
	}

	attacker := r.Attacker
	g.LastAttacker = &attacker
	g.LastAttackStrength = r.Strength

	if !g.FinishingBonusAwarded && st.SideDepleted(r.Attacker.Side.Opponent()) {
		att.VictoryPoints += m.rules.FinishingBonus
		g.FinishingBonusAwarded = true
	}
}

func (m *Machine) distribute(st *cyberfront.State, p *cyberfront.Player, to cyberfront.Seat, amount int, res *Result) error {
	if !st.Team(p.Seat.Side).CanTransferResource {
		return cyberfront.Reject("%s transfers are banned this month", p.Seat.Side)
	}
	if !to.Valid() || to.Side != p.Seat.Side || to == p.Seat {
		return cyberfront.Reject("resource can only go to another entity of the same side")
	}
	if amount < 1 || amount > m.rules.MaxTransfer {
		return cyberfront.Reject("transfer must be 1 to %d resource, got %d", m.rules.MaxTransfer, amount)
	}
	target := st.Player(to)
	if (p.Conditions.SplashImmune || target.Conditions.SplashImmune) && amount > m.rules.NetworkPolicyTransfer {
		return cyberfront.Reject("network policy limits transfers to %d resource", m.rules.NetworkPolicyTransfer)
	}
	if p.Resource < amount {
		return cyberfront.ErrInsufficient
	}

	p.Spend(amount)
	target.Gain(amount)
	res.Awards = objective.OnTransfer(st, p.Seat)
	m.recordAwards(st, res.Awards)
	return nil
}

func (m *Machine) revitalise(st *cyberfront.State, p *cyberfront.Player, amount int) error {
	cost, ok := m.rules.RevitaliseCost[amount]
	if !ok || amount < 1 || amount > m.rules.MaxRevitalise {
		return cyberfront.Reject("revitalisation must be 1 to %d vitality, got %d", m.rules.MaxRevitalise, amount)
	}
	if p.Conditions.CyberInvestment {
		cost = max(cost-1, 0)
	}
	if p.Resource < cost {
		return cyberfront.ErrInsufficient
	}

	p.Spend(cost)
	p.Heal(float64(amount))
	objective.MarkRevitalise(st, p.Seat)
	return nil
}

// ransomPrice is what a ransomware victim pays to lift the paralysis.
const ransomPrice = 2

// PlaceBid commits amount of seat's resource to the asset. The resource is
// gone whether or not the asset is later secured.
func (m *Machine) PlaceBid(st *cyberfront.State, seat cyberfront.Seat, assetID string, amount int) (*cyberfront.Asset, error) {
	if st.Game.Status != cyberfront.StatusInProgress {
		return nil, cyberfront.ErrNotInProgress
	}
	if !seat.Valid() {
		return nil, cyberfront.Reject("unknown entity %s", seat)
	}
	if seat.Side != st.Game.ActiveSide {
		return nil, cyberfront.ErrNotYourTurn
	}
	p := st.Player(seat)
	switch {
	case p.Conditions.Paralysed():
		return nil, cyberfront.ErrParalysed
	case p.MadeBid:
		return nil, cyberfront.Reject("%s has already bid this turn", seat.EntityName())
	case !p.Conditions.CanBid():
		return nil, cyberfront.Reject("%s is banned from bidding", seat.EntityName())
	case p.Resource < amount:
		return nil, cyberfront.ErrInsufficient
	}
	a := st.Asset(assetID)
	if a == nil {
		return nil, cyberfront.Reject("unknown asset %q", assetID)
	}
	if err := market.Bid(a, seat.Side, amount); err != nil {
		return nil, err
	}

	p.Spend(amount)
	p.MadeBid = true
	m.touch(st)
	return a, nil
}

// ActivateAsset spends a secured asset held by side.
func (m *Machine) ActivateAsset(st *cyberfront.State, side cyberfront.Side, assetID string, t market.Target) (*cyberfront.Asset, error) {
	if st.Game.Status != cyberfront.StatusInProgress {
		return nil, cyberfront.ErrNotInProgress
	}
	if side != st.Game.ActiveSide {
		return nil, cyberfront.ErrNotYourTurn
	}
	a := st.Asset(assetID)
	if a == nil {
		return nil, cyberfront.Reject("unknown asset %q", assetID)
	}
	if err := market.Activate(st, a, side, t); err != nil {
		return nil, err
	}
	m.record(st, cyberfront.RecordMarket, "%s activates %s", st.TeamName(side), a.Name)
	m.touch(st)
	return a, nil
}

// PayRansom settles the ransom decision of the entity at victim. Paying
// moves the ransom to the attacker and lifts the paralysis. Refusing keeps
// the paralysis. Either way the demand is closed.
func (m *Machine) PayRansom(st *cyberfront.State, victim cyberfront.Seat, pay bool) error {
	if st.Game.Status == cyberfront.StatusFinished {
		return cyberfront.Reject("game is finished")
	}
	if !victim.Valid() {
		return cyberfront.Reject("unknown entity %s", victim)
	}
	p := st.Player(victim)
	if p.RansomAttacker == nil {
		return cyberfront.Reject("%s has no ransom to settle", victim.EntityName())
	}
	if pay {
		if p.Resource < ransomPrice {
			return cyberfront.ErrInsufficient
		}
		p.Spend(ransomPrice)
		st.Player(*p.RansomAttacker).Gain(ransomPrice)
		p.Conditions.Paralysis = condition.Timer{}
		m.record(st, cyberfront.RecordAttack, "%s pays the ransom to %s",
			victim.EntityName(), p.RansomAttacker.EntityName())
	} else {
		m.record(st, cyberfront.RecordAttack, "%s refuses to pay the ransom", victim.EntityName())
	}
	p.RansomAttacker = nil
	m.touch(st)
	return nil
}

// ReadEventCard marks the drawn card as seen by side.
func (m *Machine) ReadEventCard(st *cyberfront.State, side cyberfront.Side) error {
	team := st.Team(side)
	if team == nil {
		return cyberfront.Reject("unknown side %q", side)
	}
	team.EventCardRead = true
	m.touch(st)
	return nil
}
