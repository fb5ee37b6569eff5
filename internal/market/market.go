package market

import (
	"github.com/playperu/cyberfront/internal/cyberfront"
)

// Rand picks uniform indexes. *random.Source satisfies it.
type Rand interface {
	Intn(n int) int
}

// New instantiates the catalogue for gameID with one random asset already
// open for bidding.
func New(gameID string, rng Rand, newID func() string) []*cyberfront.Asset {
	assets := make([]*cyberfront.Asset, 0, len(Catalogue))
	for _, it := range Catalogue {
		assets = append(assets, &cyberfront.Asset{
			ID:         newID(),
			GameID:     gameID,
			Name:       it.Name,
			Type:       it.Type,
			Effect:     it.Effect,
			MinimumBid: it.MinimumBid,
			Status:     cyberfront.AssetNotSupplied,
		})
	}
	assets[rng.Intn(len(assets))].Status = cyberfront.AssetBidding
	return assets
}

// Bid records amount as side's bid on a. The caller deducts the resource.
func Bid(a *cyberfront.Asset, side cyberfront.Side, amount int) error {
	if a.Status != cyberfront.AssetBidding {
		return cyberfront.Reject("%s is not open for bidding", a.Name)
	}
	if amount < a.MinimumBid {
		return cyberfront.Reject("bid %d is below the minimum of %d for %s", amount, a.MinimumBid, a.Name)
	}

	if side == cyberfront.Blue {
		a.BlueBid = amount
	} else {
		a.RedBid = amount
	}
	if a.TurnsFromFirstBid == 0 {
		a.TurnsFromFirstBid = 1
	}
	a.LastBidder = side
	return nil
}

// Settle runs at the end of ending's turn. A bid that has stood since
// before the previous turn and was not placed by the side now ending goes
// to the strictly higher bidder. Equal bids stay open. Every other bid-on
// asset ages by one turn. The newly secured assets are returned.
func Settle(assets []*cyberfront.Asset, ending cyberfront.Side) []*cyberfront.Asset {
	var secured []*cyberfront.Asset
	for _, a := range Bidding(assets) {
		turns := a.TurnsFromFirstBid
		if turns >= 1 {
			a.TurnsFromFirstBid++
		}
		if turns <= 1 || a.LastBidder == ending {
			continue
		}

		switch {
		case a.BlueBid > a.RedBid:
			a.Owner = cyberfront.Blue
		case a.RedBid > a.BlueBid:
			a.Owner = cyberfront.Red
		default:
			continue
		}
		a.Status = cyberfront.AssetSecured
		secured = append(secured, a)
	}
	return secured
}

// Supply opens one random not-supplied asset for bidding. It returns nil
// once the catalogue is exhausted.
func Supply(assets []*cyberfront.Asset, rng Rand) *cyberfront.Asset {
	pool := withStatus(assets, cyberfront.AssetNotSupplied)
	if len(pool) == 0 {
		return nil
	}
	a := pool[rng.Intn(len(pool))]
	a.Status = cyberfront.AssetBidding
	return a
}

// Grant secures an asset called name for side, preferring one not yet on
// the market over one under auction. It returns nil when none is left.
func Grant(assets []*cyberfront.Asset, name cyberfront.AssetName, side cyberfront.Side) *cyberfront.Asset {
	var pick *cyberfront.Asset
	for _, st := range []cyberfront.AssetStatus{cyberfront.AssetNotSupplied, cyberfront.AssetBidding} {
		for _, a := range withStatus(assets, st) {
			if a.Name == name {
				pick = a
				break
			}
		}
		if pick != nil {
			break
		}
	}
	if pick == nil {
		return nil
	}

	pick.Status = cyberfront.AssetSecured
	pick.Owner = side
	pick.BlueBid, pick.RedBid = 0, 0
	if side == cyberfront.Blue {
		pick.BlueBid = 1
	} else {
		pick.RedBid = 1
	}
	return pick
}

// SpecialVector creates the free Attack Vector handed to Blue outside the
// catalogue.
func SpecialVector(gameID, id string) *cyberfront.Asset {
	return &cyberfront.Asset{
		ID:      id,
		GameID:  gameID,
		Name:    cyberfront.AttackVector,
		Type:    cyberfront.AssetAttack,
		Effect:  specialVectorEffect,
		Status:  cyberfront.AssetSecured,
		Owner:   cyberfront.Blue,
		BlueBid: 1,
	}
}

// Bidding returns the assets currently under auction.
func Bidding(assets []*cyberfront.Asset) []*cyberfront.Asset {
	return withStatus(assets, cyberfront.AssetBidding)
}

// Held returns the secured and activated assets owned by side.
func Held(assets []*cyberfront.Asset, side cyberfront.Side) []*cyberfront.Asset {
	var out []*cyberfront.Asset
	for _, a := range assets {
		if a.Held(side) {
			out = append(out, a)
		}
	}
	return out
}

// CountHeld counts side's assets of the given type.
func CountHeld(assets []*cyberfront.Asset, side cyberfront.Side, typ cyberfront.AssetType) int {
	n := 0
	for _, a := range Held(assets, side) {
		if a.Type == typ {
			n++
		}
	}
	return n
}

func withStatus(assets []*cyberfront.Asset, status cyberfront.AssetStatus) []*cyberfront.Asset {
	var out []*cyberfront.Asset
	for _, a := range assets {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}
