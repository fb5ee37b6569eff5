package cyberfront

import (
	"math"
	"time"

	"github.com/playperu/cyberfront/internal/condition"
)

// AttackVectors are the per-game flags that unlock conditional attacks.
type AttackVectors struct {
	Government bool `json:"government"`
	BlueEnergy bool `json:"blueEnergy"`
	RedEnergy  bool `json:"redEnergy"`
}

// ObjectiveTracker carries the state objectives need across months.
type ObjectiveTracker struct {
	RecruitmentRevitalised bool `json:"recruitmentRevitalised"`
	RecruitmentStreak      int  `json:"recruitmentStreak"`
	RecruitmentMaxStreak   int  `json:"recruitmentMaxStreak"`

	GrowCapacityRevitalised bool `json:"growCapacityRevitalised"`
	GrowCapacityStreak      int  `json:"growCapacityStreak"`
	GrowCapacityMaxStreak   int  `json:"growCapacityMaxStreak"`

	IndustryAprilVitality  float64 `json:"industryAprilVitality"`
	IndustryAugustVitality float64 `json:"industryAugustVitality"`
}

type Game struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Description string     `json:"description"`
	Status      GameStatus `json:"status"`
	Outcome     Outcome    `json:"outcome,omitempty"`

	ActiveSide   Side   `json:"activeSide"`
	ActivePeriod Period `json:"activePeriod"`
	// Round counts the closing side's turns already completed this period.
	Round int `json:"round"`
	// Turn increases by one on every advance.
	Turn int64 `json:"turn"`
	// RemainingSeconds is the countdown value at the last checkpoint.
	RemainingSeconds int `json:"remainingSeconds"`

	Vectors            AttackVectors    `json:"vectors"`
	RecoveryManagement bool             `json:"recoveryManagement"`
	DrawnCard          CardName         `json:"drawnCard"`
	Objectives         ObjectiveTracker `json:"objectives"`

	LastAttacker          *Seat `json:"lastAttacker,omitempty"`
	LastAttackStrength    int   `json:"lastAttackStrength"`
	FinishingBonusAwarded bool  `json:"finishingBonusAwarded"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Team struct {
	ID                  string          `json:"id"`
	GameID              string          `json:"gameId"`
	Side                Side            `json:"side"`
	Name                string          `json:"name"`
	Players             map[Role]string `json:"players"`
	CanTransferResource bool            `json:"canTransferResource"`
	EventCardRead       bool            `json:"eventCardRead"`
}

type Player struct {
	ID            string  `json:"id"`
	GameID        string  `json:"gameId"`
	UserID        string  `json:"userId"`
	Seat          Seat    `json:"seat"`
	Resource      int     `json:"resource"`
	Vitality      float64 `json:"vitality"`
	VictoryPoints int     `json:"victoryPoints"`

	LastAction     Action `json:"lastAction"`
	MadeBid        bool   `json:"madeBid"`
	SufferedDamage bool   `json:"sufferedDamage"`

	Conditions condition.Set `json:"conditions"`
	// RansomAttacker is set while a ransom decision is pending.
	RansomAttacker *Seat `json:"ransomAttacker,omitempty"`
}

// Damage reduces vitality by x, never below zero, and returns the amount
// actually lost.
func (p *Player) Damage(x float64) float64 {
	if x <= 0 {
		return 0
	}
	lost := math.Min(x, p.Vitality)
	p.Vitality = math.Max(p.Vitality-x, 0)
	p.SufferedDamage = true
	return lost
}

// Heal raises vitality by x.
func (p *Player) Heal(x float64) {
	if x > 0 {
		p.Vitality += x
	}
}

// Spend deducts n resource, never below zero.
func (p *Player) Spend(n int) {
	p.Resource = max(p.Resource-n, 0)
}

// Gain adds n resource.
func (p *Player) Gain(n int) {
	if n > 0 {
		p.Resource += n
	}
}

func (p *Player) Depleted() bool { return p.Vitality <= 0 }

func (p *Player) Acted() bool { return p.LastAction != ActionNone }

type AssetName string

const (
	AttackVector       AssetName = "Attack Vector"
	Education          AssetName = "Education"
	RecoveryManagement AssetName = "Recovery Management"
	SoftwareUpdate     AssetName = "Software Update"
	BargainingChip     AssetName = "Bargaining Chip"
	NetworkPolicy      AssetName = "Network Policy"
	Stuxnet            AssetName = "Stuxnet 2.0"
	Ransomware         AssetName = "Ransomware"
	CyberInvestment    AssetName = "Cyber Investment Programme"
)

type AssetType string

const (
	AssetAttack  AssetType = "attack"
	AssetDefence AssetType = "defence"
)

type AssetStatus string

const (
	AssetNotSupplied AssetStatus = "not_supplied"
	AssetBidding     AssetStatus = "bidding"
	AssetSecured     AssetStatus = "secured"
	AssetActivated   AssetStatus = "activated"
)

type Asset struct {
	ID         string      `json:"id"`
	GameID     string      `json:"gameId"`
	Name       AssetName   `json:"name"`
	Type       AssetType   `json:"type"`
	Effect     string      `json:"effect"`
	MinimumBid int         `json:"minimumBid"`
	BlueBid    int         `json:"blueBid"`
	RedBid     int         `json:"redBid"`
	Status     AssetStatus `json:"status"`
	// Owner is set once the asset is secured.
	Owner             Side `json:"owner,omitempty"`
	TurnsFromFirstBid int  `json:"turnsFromFirstBid"`
	LastBidder        Side `json:"lastBidder,omitempty"`
}

// BidOf returns the standing bid of side.
func (a *Asset) BidOf(side Side) int {
	if side == Blue {
		return a.BlueBid
	}
	return a.RedBid
}

// Held reports whether side owns the asset, activated or not.
func (a *Asset) Held(side Side) bool {
	return a.Owner == side && (a.Status == AssetSecured || a.Status == AssetActivated)
}

type CardName string

const (
	NuclearMeltdown     CardName = "Nuclear Meltdown"
	ClumsyCivilServant  CardName = "Clumsy Civil Servant"
	SoftwareUpdateCard  CardName = "Software Update"
	BankingError        CardName = "Banking Error"
	Embargoed           CardName = "Embargoed"
	LaxOpSec            CardName = "Lax OpSec"
	PeoplesRevolt       CardName = "People's Revolt"
	QuantumBreakthrough CardName = "Quantum Breakthrough"
	UneventfulMonth     CardName = "Uneventful Month"
)

type CardStatus string

const (
	CardInDeck CardStatus = "in_deck"
	CardDrawn  CardStatus = "drawn"
)

type EventCard struct {
	ID     string     `json:"id"`
	GameID string     `json:"gameId"`
	Name   CardName   `json:"name"`
	Status CardStatus `json:"status"`
}

// State is every record of one game, loaded once per operation.
type State struct {
	Game    *Game
	Teams   map[Side]*Team
	Players map[Seat]*Player
	Assets  []*Asset
	Cards   []*EventCard
	Records []*Record
}

// Player returns the entity at seat. It panics on a malformed state, which
// the store never produces.
func (s *State) Player(seat Seat) *Player {
	p, ok := s.Players[seat]
	if !ok {
		panic("cyberfront: no player at " + seat.String())
	}
	return p
}

func (s *State) Team(side Side) *Team { return s.Teams[side] }

// PlayerByID returns the player with the given id, or nil.
func (s *State) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// SeatsOf returns the seats bound to userID.
func (s *State) SeatsOf(userID string) []Seat {
	var seats []Seat
	for _, seat := range AllSeats() {
		if p, ok := s.Players[seat]; ok && p.UserID == userID {
			seats = append(seats, seat)
		}
	}
	return seats
}

// Asset returns the asset with the given id, or nil.
func (s *State) Asset(id string) *Asset {
	for _, a := range s.Assets {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// SideDepleted reports whether any entity of side is at zero vitality.
func (s *State) SideDepleted(side Side) bool {
	for _, seat := range SideSeats(side) {
		if s.Player(seat).Depleted() {
			return true
		}
	}
	return false
}

// AnyDepleted reports whether any entity is at zero vitality.
func (s *State) AnyDepleted() bool {
	return s.SideDepleted(Blue) || s.SideDepleted(Red)
}

// VictoryPoints sums the points of the five entities of side.
func (s *State) VictoryPoints(side Side) int {
	total := 0
	for _, seat := range SideSeats(side) {
		total += s.Player(seat).VictoryPoints
	}
	return total
}

// AllActed reports whether every entity of side has taken its action.
func (s *State) AllActed(side Side) bool {
	for _, seat := range SideSeats(side) {
		if !s.Player(seat).Acted() {
			return false
		}
	}
	return true
}
