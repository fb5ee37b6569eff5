package condition

// Set is the full bundle of conditions carried by one entity.
type Set struct {
	// Armor is a percentage damage reduction, only honoured while
	// ArmorTimer is active.
	Armor      int   `json:"armor"`
	ArmorTimer Timer `json:"armorTimer"`

	DamageImmunity Timer `json:"damageImmunity"`
	// SplashImmune has no duration; it holds until cleared.
	SplashImmune bool `json:"splashImmune"`

	AttackBan  Timer `json:"attackBan"`
	BiddingBan Timer `json:"biddingBan"`
	Paralysis  Timer `json:"paralysis"`

	DoubleDamage      bool `json:"doubleDamage"`
	RansomwarePending bool `json:"ransomwarePending"`
	CyberInvestment   bool `json:"cyberInvestment"`
}

// Decay advances every timed condition by one turn-end, in the fixed order
// bidding ban, attack ban, paralysis, armor, damage immunity.
func (s *Set) Decay() {
	s.BiddingBan = s.BiddingBan.Decay()
	s.AttackBan = s.AttackBan.Decay()
	s.Paralysis = s.Paralysis.Decay()
	s.ArmorTimer = s.ArmorTimer.Decay()
	if s.ArmorTimer.Kind == Inactive {
		s.Armor = 0
	}
	s.DamageImmunity = s.DamageImmunity.Decay()
}

// AddArmor imposes a percentage reduction for the given timer.
func (s *Set) AddArmor(percent int, t Timer) {
	s.Armor = percent
	s.ArmorTimer = s.ArmorTimer.Apply(t)
}

// ArmorReduce applies the active armor to a damage value.
func (s Set) ArmorReduce(damage float64) float64 {
	if !s.ArmorTimer.IsActive() || s.Armor <= 0 {
		return damage
	}
	armor := s.Armor
	if armor > 100 {
		armor = 100
	}
	return damage * float64(100-armor) / 100
}

// Immune reports whether direct damage is currently nullified.
func (s Set) Immune() bool { return s.DamageImmunity.IsActive() }

// CanAttack reports whether no attack ban is in effect.
func (s Set) CanAttack() bool { return !s.AttackBan.IsActive() }

// CanBid reports whether no bidding ban is in effect.
func (s Set) CanBid() bool { return !s.BiddingBan.IsActive() }

// Paralysed reports whether the entity may only abstain.
func (s Set) Paralysed() bool { return s.Paralysis.IsActive() }
