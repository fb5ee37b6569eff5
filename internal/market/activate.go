package market

import (
	"github.com/playperu/cyberfront/internal/condition"
	"github.com/playperu/cyberfront/internal/cyberfront"
)

// Target carries the choice some activations need.
type Target struct {
	// Role is the attack vector to open.
	Role cyberfront.Role `json:"role,omitempty"`
	// Seat receives Software Update, Network Policy, Ransomware or Cyber
	// Investment Programme. It must belong to the activating side.
	Seat cyberfront.Seat `json:"seat"`
}

const (
	armorPercent  = 50
	armorTurns    = 3
	immunityTurns = 2
)

// Activate applies the effect of a secured asset held by side and marks it
// activated. Nothing changes when an error is returned.
func Activate(st *cyberfront.State, a *cyberfront.Asset, side cyberfront.Side, t Target) error {
	if a.Status != cyberfront.AssetSecured || a.Owner != side {
		return cyberfront.Reject("%s is not held by %s", a.Name, side)
	}

	ownSeat := func() (*cyberfront.Player, error) {
		if !t.Seat.Valid() || t.Seat.Side != side {
			return nil, cyberfront.Reject("%s needs a target entity of the %s side", a.Name, side)
		}
		return st.Player(t.Seat), nil
	}

	switch a.Name {
	case cyberfront.AttackVector:
		switch {
		case t.Role == cyberfront.Government && side == cyberfront.Blue:
			st.Game.Vectors.Government = true
		case t.Role == cyberfront.Energy && side == cyberfront.Blue:
			st.Game.Vectors.RedEnergy = true
		case t.Role == cyberfront.Energy && side == cyberfront.Red:
			st.Game.Vectors.BlueEnergy = true
		default:
			return cyberfront.Reject("%s cannot open an attack vector on %q", side, t.Role)
		}

	case cyberfront.Education:
		p := st.Player(cyberfront.At(cyberfront.Blue, cyberfront.People))
		p.Conditions.AddArmor(armorPercent, condition.Schedule(armorTurns))

	case cyberfront.BargainingChip:
		p := st.Player(cyberfront.At(cyberfront.Red, cyberfront.Government))
		p.Conditions.AddArmor(armorPercent, condition.Schedule(armorTurns))

	case cyberfront.RecoveryManagement:
		st.Game.RecoveryManagement = true

	case cyberfront.SoftwareUpdate:
		p, err := ownSeat()
		if err != nil {
			return err
		}
		p.Conditions.DamageImmunity = p.Conditions.DamageImmunity.Apply(condition.Schedule(immunityTurns))

	case cyberfront.NetworkPolicy:
		p, err := ownSeat()
		if err != nil {
			return err
		}
		p.Conditions.SplashImmune = true

	case cyberfront.Stuxnet:
		st.Player(cyberfront.At(side, cyberfront.Intelligence)).Conditions.DoubleDamage = true

	case cyberfront.Ransomware:
		p, err := ownSeat()
		if err != nil {
			return err
		}
		p.Conditions.RansomwarePending = true

	case cyberfront.CyberInvestment:
		p, err := ownSeat()
		if err != nil {
			return err
		}
		p.Conditions.CyberInvestment = true

	default:
		return cyberfront.Reject("unknown asset %q", a.Name)
	}

	a.Status = cyberfront.AssetActivated
	return nil
}
