package engine

import (
	"context"
	"errors"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/event"
	"github.com/playperu/cyberfront/internal/market"
	"github.com/playperu/cyberfront/internal/notify"
	"github.com/playperu/cyberfront/internal/turn"
)

// Played is the result of an action together with the turn advance it
// may have triggered.
type Played struct {
	Result  turn.Result  `json:"result"`
	Advance *turn.Report `json:"advance,omitempty"`
}

// SubmitAction plays the action of the entity at seat. The turn advances
// once every entity of the side has acted.
func (s *Service) SubmitAction(ctx context.Context, userID, gameID string, seat cyberfront.Seat, req turn.Request) (Played, error) {
	var out Played
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if err := controls(st, userID, seat); err != nil {
			return err
		}
		res, err := s.machine.Act(st, seat, req)
		if err != nil {
			return err
		}
		out = Played{Result: res}
		if res.Finished || !res.SideDone {
			return nil
		}
		rep, err := s.machine.Advance(st)
		if err != nil {
			return err
		}
		out.Advance = &rep
		return nil
	}, func(st *cyberfront.State) {
		if out.Advance != nil || out.Result.Finished {
			s.moveTimer(st)
		}
	})
	if err != nil {
		return Played{}, err
	}

	g := st.Game
	s.logger.Info("action played", "game_id", g.ID, "user", s.store.DisplayName(ctx, userID),
		"entity", seat.EntityName(), "action", req.Action)
	s.pub.Publish(g.ID, notify.Event{Type: notify.EventAction, Turn: g.Turn, Data: out.Result})
	switch {
	case out.Advance != nil:
		s.afterAdvance(st, *out.Advance)
	case out.Result.Finished:
		s.afterAdvance(st, turn.Report{Finished: true})
	}
	return out, nil
}

// FinishTurn ends the active side's turn early. Entities that have not
// acted abstain.
func (s *Service) FinishTurn(ctx context.Context, userID, gameID string) (turn.Report, error) {
	var rep turn.Report
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if st.Game.Status != cyberfront.StatusInProgress {
			return cyberfront.ErrNotInProgress
		}
		if owns(st, userID) != nil {
			if err := playsFor(st, userID, st.Game.ActiveSide); err != nil {
				return err
			}
		}
		s.machine.Abstain(st)
		var err error
		rep, err = s.machine.Advance(st)
		return err
	}, s.moveTimer)
	if err != nil {
		return turn.Report{}, err
	}
	s.afterAdvance(st, rep)
	return rep, nil
}

// ForceAdvance ends the turn whose countdown ran out. A request for any
// other turn, or for a game no longer in progress, is ignored.
func (s *Service) ForceAdvance(ctx context.Context, gameID string, turnSeq int64) error {
	var rep turn.Report
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if st.Game.Status != cyberfront.StatusInProgress || st.Game.Turn != turnSeq {
			return errStale
		}
		s.machine.Abstain(st)
		var err error
		rep, err = s.machine.Advance(st)
		return err
	}, s.moveTimer)
	if errors.Is(err, errStale) {
		s.logger.Debug("ignoring stale expiry", "game_id", gameID, "turn", turnSeq)
		return nil
	}
	if err != nil {
		return err
	}
	s.afterAdvance(st, rep)
	return nil
}

// Tick publishes the countdown of gameID.
func (s *Service) Tick(gameID string, remaining int) {
	s.pub.Publish(gameID, notify.Event{Type: notify.EventTick, Remaining: &remaining})
}

// Expire is called by the timer when a countdown reaches zero.
func (s *Service) Expire(ctx context.Context, gameID string, turnSeq int64) {
	if err := s.ForceAdvance(ctx, gameID, turnSeq); err != nil {
		s.logger.Error("forcing turn advance", "game_id", gameID, "turn", turnSeq, "error", err)
	}
}

// PlaceBid bids amount of the resource of seat on an asset.
func (s *Service) PlaceBid(ctx context.Context, userID, gameID string, seat cyberfront.Seat, assetID string, amount int) (*cyberfront.Asset, error) {
	var asset *cyberfront.Asset
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if err := controls(st, userID, seat); err != nil {
			return err
		}
		var err error
		asset, err = s.machine.PlaceBid(st, seat, assetID, amount)
		return err
	}, nil)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(gameID, notify.Event{Type: notify.EventBid, Turn: st.Game.Turn, Data: asset})
	s.logger.Info("bid placed", "game_id", gameID, "entity", seat.EntityName(),
		"asset", asset.Name, "amount", amount)
	return asset, nil
}

// ActivateAsset spends an asset held by side.
func (s *Service) ActivateAsset(ctx context.Context, userID, gameID string, side cyberfront.Side, assetID string, target market.Target) (*cyberfront.Asset, error) {
	var asset *cyberfront.Asset
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if err := playsFor(st, userID, side); err != nil {
			return err
		}
		var err error
		asset, err = s.machine.ActivateAsset(st, side, assetID, target)
		return err
	}, nil)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(gameID, notify.Event{Type: notify.EventState, Turn: st.Game.Turn, Data: asset})
	s.logger.Info("asset activated", "game_id", gameID, "side", side, "asset", asset.Name)
	return asset, nil
}

// PayRansom settles the ransom demanded from the entity at seat.
func (s *Service) PayRansom(ctx context.Context, userID, gameID string, seat cyberfront.Seat, pay bool) error {
	st, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if err := controls(st, userID, seat); err != nil {
			return err
		}
		return s.machine.PayRansom(st, seat, pay)
	}, nil)
	if err != nil {
		return err
	}
	s.pub.Publish(gameID, notify.Event{Type: notify.EventState, Turn: st.Game.Turn})
	s.logger.Info("ransom settled", "game_id", gameID, "entity", seat.EntityName(), "paid", pay)
	return nil
}

// ReadEventCard marks the current card as read by side and returns its
// effect.
func (s *Service) ReadEventCard(ctx context.Context, userID, gameID string, side cyberfront.Side) (event.Effect, error) {
	var card cyberfront.CardName
	_, err := s.update(ctx, gameID, func(st *cyberfront.State) error {
		if err := playsFor(st, userID, side); err != nil {
			return err
		}
		card = st.Game.DrawnCard
		return s.machine.ReadEventCard(st, side)
	}, nil)
	if err != nil {
		return event.Effect{}, err
	}
	return event.EffectOf(card), nil
}

// MarketAssets lists the assets open for bidding.
func (s *Service) MarketAssets(ctx context.Context, gameID string) ([]*cyberfront.Asset, error) {
	st, err := s.store.LoadState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return market.Bidding(st.Assets), nil
}

// TeamAssets lists the assets secured or activated by side.
func (s *Service) TeamAssets(ctx context.Context, gameID string, side cyberfront.Side) ([]*cyberfront.Asset, error) {
	if !side.Valid() {
		return nil, cyberfront.Reject("unknown side %q", side)
	}
	st, err := s.store.LoadState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return market.Held(st.Assets, side), nil
}
