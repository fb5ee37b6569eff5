package combat

import (
	"math"

	"github.com/playperu/cyberfront/internal/condition"
	"github.com/playperu/cyberfront/internal/cyberfront"
)

type HitKind string

const (
	HitDirect   HitKind = "direct"
	HitBackfire HitKind = "backfire"
	HitSplash   HitKind = "splash"
	HitPenalty  HitKind = "penalty"
)

// Hit is vitality lost by one seat.
type Hit struct {
	Seat   cyberfront.Seat `json:"seat"`
	Damage float64         `json:"damage"`
	Kind   HitKind         `json:"kind"`
}

// Drain is resource lost by one seat.
type Drain struct {
	Seat   cyberfront.Seat `json:"seat"`
	Amount int             `json:"amount"`
}

type ConditionKind string

const (
	AttackBan  ConditionKind = "attack_ban"
	BiddingBan ConditionKind = "bidding_ban"
	Paralysis  ConditionKind = "paralysis"
)

// Imposed is a timed condition placed on a seat.
type Imposed struct {
	Seat  cyberfront.Seat `json:"seat"`
	Kind  ConditionKind   `json:"kind"`
	Timer condition.Timer `json:"timer"`
}

// Grant hands a named asset to a side.
type Grant struct {
	Name cyberfront.AssetName `json:"name"`
	Side cyberfront.Side      `json:"side"`
}

// Result is the full effect of one attack.
type Result struct {
	Attacker cyberfront.Seat `json:"attacker"`
	Target   cyberfront.Seat `json:"target"`
	Spent    int             `json:"spent"`
	Roll     int             `json:"roll"`
	Strength int             `json:"strength"`
	// Damaged is the seat that took the primary blow: the target on a
	// positive strength, the attacker otherwise.
	Damaged cyberfront.Seat `json:"damaged"`

	Hits       []Hit     `json:"hits"`
	Drains     []Drain   `json:"drains"`
	Conditions []Imposed `json:"conditions,omitempty"`
	Grants     []Grant   `json:"grants,omitempty"`
	// SpecialVector grants Blue a free Attack Vector outside the catalogue.
	SpecialVector bool `json:"specialVector,omitempty"`

	ConsumedDoubleDamage bool `json:"consumedDoubleDamage,omitempty"`
	// Ransomed is set when a ransomware payload landed on the target.
	Ransomed bool `json:"ransomed,omitempty"`
}

// Landed reports whether the attack struck its target.
func (r Result) Landed() bool { return r.Strength > 0 }

// Resolve computes the outcome of attacker committing spent resources with
// the given roll. It reads st but never modifies it. Eligibility is the
// caller's concern.
func Resolve(st *cyberfront.State, attacker cyberfront.Seat, spent, roll int) (Result, error) {
	strength, err := Strength(spent, roll)
	if err != nil {
		return Result{}, err
	}
	target, ok := Target(attacker)
	if !ok {
		return Result{}, cyberfront.Reject("%s cannot attack", attacker.EntityName())
	}

	res := Result{
		Attacker: attacker,
		Target:   target,
		Spent:    spent,
		Roll:     roll,
		Strength: strength,
	}
	att := st.Player(attacker)
	magnitude := math.Abs(float64(strength))

	if strength > 0 {
		res.Damaged = target
		tgt := st.Player(target)

		damage := float64(strength)
		if att.Conditions.DoubleDamage {
			damage *= 2
			res.ConsumedDoubleDamage = true
		}
		if att.Conditions.RansomwarePending {
			res.Ransomed = true
			res.Conditions = append(res.Conditions, Imposed{Seat: target, Kind: Paralysis, Timer: condition.Activate(2)})
		}
		if tgt.Conditions.Immune() {
			damage = 0
		} else {
			damage = tgt.Conditions.ArmorReduce(damage)
		}
		res.addHit(target, damage, HitDirect)
	} else {
		res.Damaged = attacker
		res.addHit(attacker, att.Conditions.ArmorReduce(magnitude), HitBackfire)
	}

	for _, seat := range Splash(res.Damaged) {
		p := st.Player(seat)
		if p.Conditions.SplashImmune {
			continue
		}
		res.addHit(seat, p.Conditions.ArmorReduce(magnitude)/2, HitSplash)
	}

	res.Drains = append(res.Drains, Drain{Seat: attacker, Amount: spent})
	res.attribute()
	return res, nil
}

func (r *Result) addHit(seat cyberfront.Seat, damage float64, kind HitKind) {
	if damage <= 0 {
		return
	}
	r.Hits = append(r.Hits, Hit{Seat: seat, Damage: damage, Kind: kind})
}

// attribute adds the penalties of the -1 and -2 bands.
func (r *Result) attribute() {
	var (
		a       = r.Attacker
		blueGov = cyberfront.At(cyberfront.Blue, cyberfront.Government)
	)

	grant := func(name cyberfront.AssetName, side cyberfront.Side) {
		r.Grants = append(r.Grants, Grant{Name: name, Side: side})
	}
	impose := func(kind ConditionKind) {
		r.Conditions = append(r.Conditions, Imposed{Seat: a, Kind: kind, Timer: condition.Schedule(2)})
	}

	switch r.Strength {
	case -1:
		switch a {
		case cyberfront.At(cyberfront.Red, cyberfront.Industry):
			grant(cyberfront.SoftwareUpdate, cyberfront.Blue)
		case cyberfront.At(cyberfront.Red, cyberfront.Intelligence):
			grant(cyberfront.SoftwareUpdate, cyberfront.Blue)
			impose(BiddingBan)
		case cyberfront.At(cyberfront.Red, cyberfront.People):
			grant(cyberfront.Education, cyberfront.Blue)
		case cyberfront.At(cyberfront.Blue, cyberfront.Intelligence):
			impose(AttackBan)
		case blueGov:
			grant(cyberfront.BargainingChip, cyberfront.Red)
		}
	case -2:
		switch a {
		case cyberfront.At(cyberfront.Red, cyberfront.Industry):
			grant(cyberfront.SoftwareUpdate, cyberfront.Blue)
			grant(cyberfront.RecoveryManagement, cyberfront.Blue)
		case cyberfront.At(cyberfront.Red, cyberfront.People):
			grant(cyberfront.Education, cyberfront.Blue)
			impose(AttackBan)
		case cyberfront.At(cyberfront.Red, cyberfront.Intelligence):
			r.SpecialVector = true
		case cyberfront.At(cyberfront.Blue, cyberfront.Intelligence):
			impose(Paralysis)
			r.Hits = append(r.Hits, Hit{Seat: blueGov, Damage: 1, Kind: HitPenalty})
		case blueGov:
			grant(cyberfront.BargainingChip, cyberfront.Red)
			r.Hits = append(r.Hits, Hit{Seat: blueGov, Damage: 2, Kind: HitPenalty})
			r.Drains = append(r.Drains, Drain{Seat: blueGov, Amount: 2})
		}
	}
}
