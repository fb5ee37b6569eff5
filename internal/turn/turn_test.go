package turn

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playperu/cyberfront/internal/combat"
	"github.com/playperu/cyberfront/internal/condition"
	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/market"
)

// fixedRand always picks the same index, so the opening card is Nuclear
// Meltdown and later months draw the named cards in order.
type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

func seat(side cyberfront.Side, role cyberfront.Role) cyberfront.Seat { return cyberfront.At(side, role) }

var (
	bluePeople   = seat(cyberfront.Blue, cyberfront.People)
	blueIndustry = seat(cyberfront.Blue, cyberfront.Industry)
	blueGov      = seat(cyberfront.Blue, cyberfront.Government)
	blueEnergy   = seat(cyberfront.Blue, cyberfront.Energy)
	blueIntel    = seat(cyberfront.Blue, cyberfront.Intelligence)
	redPeople    = seat(cyberfront.Red, cyberfront.People)
	redIndustry  = seat(cyberfront.Red, cyberfront.Industry)
	redGov       = seat(cyberfront.Red, cyberfront.Government)
)

func newMachine(t *testing.T, roll int) *Machine {
	t.Helper()
	n := 0
	m, err := New(cyberfront.DefaultRules(), fixedRand(0), combat.FixedDice(roll), func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func newGame(t *testing.T, m *Machine) *cyberfront.State {
	t.Helper()
	users := make(map[cyberfront.Seat]string)
	for _, s := range cyberfront.AllSeats() {
		users[s] = "user-" + s.String()
	}
	st, err := m.NewGame(Setup{
		GameID:    "g1",
		OwnerID:   "owner",
		TeamNames: map[cyberfront.Side]string{cyberfront.Blue: "UK", cyberfront.Red: "Russia"},
		Users:     users,
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := m.Start(st); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return st
}

func endTurn(t *testing.T, m *Machine, st *cyberfront.State) Report {
	t.Helper()
	m.Abstain(st)
	rep, err := m.Advance(st)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	return rep
}

func TestNewGame(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)

	if st.Game.DrawnCard != cyberfront.NuclearMeltdown {
		t.Errorf("opening card = %s", st.Game.DrawnCard)
	}
	if got := st.Player(blueEnergy).Vitality; got != 3 {
		t.Errorf("opening meltdown left blue energy at %v, want 3", got)
	}
	if n := len(market.Bidding(st.Assets)); n != 1 {
		t.Errorf("bidding assets = %d, want 1", n)
	}
	if st.Game.ActiveSide != cyberfront.Red || st.Game.ActivePeriod != cyberfront.January {
		t.Errorf("game opens with %s in %s", st.Game.ActiveSide, st.Game.ActivePeriod)
	}
	if st.Team(cyberfront.Red).Name != "Russia" {
		t.Errorf("red team name = %q", st.Team(cyberfront.Red).Name)
	}

	if _, err := m.NewGame(Setup{GameID: "g2"}); !errors.Is(err, cyberfront.ErrRejected) {
		t.Errorf("NewGame without users: %v", err)
	}
}

func TestLifecycle(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)

	if err := m.Start(st); !errors.Is(err, cyberfront.ErrRejected) {
		t.Errorf("second Start: %v", err)
	}
	if err := m.Pause(st, 42); err != nil {
		t.Fatal(err)
	}
	if st.Game.RemainingSeconds != 42 {
		t.Errorf("remaining = %d, want 42", st.Game.RemainingSeconds)
	}
	if _, err := m.Act(st, redPeople, Request{Action: cyberfront.ActionAbstain}); !errors.Is(err, cyberfront.ErrNotInProgress) {
		t.Errorf("Act while paused: %v", err)
	}
	if _, err := m.Advance(st); !errors.Is(err, cyberfront.ErrNotInProgress) {
		t.Errorf("Advance while paused: %v", err)
	}
	if err := m.Resume(st); err != nil {
		t.Fatal(err)
	}
	if st.Game.Status != cyberfront.StatusInProgress {
		t.Errorf("status = %s", st.Game.Status)
	}

	if _, err := m.Finish(st); err != nil {
		t.Fatal(err)
	}
	if st.Game.Status != cyberfront.StatusFinished || st.Game.Outcome == "" {
		t.Errorf("finish left %s/%q", st.Game.Status, st.Game.Outcome)
	}
	if err := m.Resume(st); !errors.Is(err, cyberfront.ErrRejected) {
		t.Errorf("Resume after finish: %v", err)
	}
}

func TestScenarioA(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	startRedGov := st.Player(redGov).Resource

	for i, s := range cyberfront.SideSeats(cyberfront.Red) {
		res, err := m.Act(st, s, Request{Action: cyberfront.ActionAbstain})
		if err != nil {
			t.Fatalf("Act %s: %v", s, err)
		}
		if res.SideDone != (i == 4) {
			t.Errorf("after %d actions side done = %v", i+1, res.SideDone)
		}
	}
	if st.Player(redGov).Resource != startRedGov {
		t.Errorf("red government resource changed before its first advance")
	}

	blueGovBefore := st.Player(blueGov).Resource
	if _, err := m.Advance(st); err != nil {
		t.Fatal(err)
	}
	if st.Game.ActiveSide != cyberfront.Blue || st.Game.ActivePeriod != cyberfront.January {
		t.Fatalf("after red: %s in %s", st.Game.ActiveSide, st.Game.ActivePeriod)
	}
	if got := st.Player(blueGov).Resource; got != blueGovBefore+3 {
		t.Errorf("blue stipend: resource %d, want %d", got, blueGovBefore+3)
	}

	rep := endTurn(t, m, st)
	if rep.MonthClosed {
		t.Error("month closed after blue's first round")
	}
	if st.Game.ActiveSide != cyberfront.Red || st.Game.ActivePeriod != cyberfront.January {
		t.Fatalf("after blue round 1: %s in %s", st.Game.ActiveSide, st.Game.ActivePeriod)
	}

	endTurn(t, m, st)
	rep = endTurn(t, m, st)
	if !rep.MonthClosed || rep.ClosedPeriod != cyberfront.January {
		t.Errorf("report = %+v, want january closed", rep)
	}
	if st.Game.ActiveSide != cyberfront.Red || st.Game.ActivePeriod != cyberfront.February {
		t.Errorf("after blue round 2: %s in %s", st.Game.ActiveSide, st.Game.ActivePeriod)
	}
	if st.Game.Turn != 4 {
		t.Errorf("turn = %d, want 4", st.Game.Turn)
	}
	for _, s := range cyberfront.SideSeats(cyberfront.Red) {
		if st.Player(s).Acted() {
			t.Errorf("%s still marked as acted", s)
		}
	}
}

func TestFullGame(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)

	advances := 0
	for st.Game.Status != cyberfront.StatusFinished {
		before := st.Game.ActiveSide
		period := st.Game.ActivePeriod
		rep := endTurn(t, m, st)
		advances++
		if advances > 100 {
			t.Fatal("game never finished")
		}
		if rep.Finished {
			break
		}
		if st.Game.ActiveSide == before {
			t.Fatalf("advance %d kept %s active", advances, before)
		}
		if st.Game.ActivePeriod < period {
			t.Fatalf("period went back from %s to %s", period, st.Game.ActivePeriod)
		}
	}

	if advances != 48 {
		t.Errorf("game lasted %d turns, want 48", advances)
	}
	if st.Game.ActivePeriod != cyberfront.December {
		t.Errorf("game ended in %s", st.Game.ActivePeriod)
	}
	if st.Game.Outcome == "" {
		t.Error("outcome unset")
	}
	// Some Are More Equal holds every month, so it fires exactly twelve times.
	if got := st.Player(redGov).VictoryPoints; got != 12 {
		t.Errorf("red government points = %d, want 12", got)
	}
	for _, p := range st.Players {
		if p.Vitality < 0 || p.Resource < 0 {
			t.Errorf("%s went negative: %+v", p.Seat, p)
		}
	}
}

func TestScenarioC(t *testing.T) {
	m := newMachine(t, 6)
	st := newGame(t, m)
	st.Player(blueIndustry).Vitality = 1
	st.Player(blueGov).Vitality = 1
	st.Player(redPeople).Resource = 6

	res, err := m.Act(st, redPeople, Request{Action: cyberfront.ActionAttack, Spent: 6})
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if !res.Finished {
		t.Fatal("depleting attack did not finish the game")
	}
	if st.Game.Status != cyberfront.StatusFinished {
		t.Errorf("status = %s", st.Game.Status)
	}
	if got := st.Player(redPeople).VictoryPoints; got != 10 {
		t.Errorf("finishing bonus = %d, want exactly 10", got)
	}
	if !st.Game.FinishingBonusAwarded {
		t.Error("bonus flag not set")
	}

	if _, err := m.Act(st, redIndustry, Request{Action: cyberfront.ActionAbstain}); !errors.Is(err, cyberfront.ErrNotInProgress) {
		t.Errorf("Act after finish: %v", err)
	}
	if awards, _ := m.Finish(st); awards != nil {
		t.Errorf("second finish scored %v", awards)
	}
}

func TestSelfDepletionNoBonus(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	st.Player(redPeople).Resource = 6
	st.Player(redPeople).Vitality = 2

	// Six resource rolling one backfires for two.
	res, err := m.Act(st, redPeople, Request{Action: cyberfront.ActionAttack, Spent: 6})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Finished {
		t.Fatal("self depletion did not finish the game")
	}
	if st.Game.FinishingBonusAwarded || st.Player(redPeople).VictoryPoints != 0 {
		t.Error("finishing bonus awarded for a self-inflicted depletion")
	}
}

func TestScenarioD(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)

	var asset *cyberfront.Asset
	for _, a := range st.Assets {
		if a.Name == cyberfront.SoftwareUpdate {
			asset = a
			break
		}
	}
	asset.Status = cyberfront.AssetBidding

	p := st.Player(redIndustry)
	if _, err := m.PlaceBid(st, redIndustry, asset.ID, 3); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	if p.Resource != 0 {
		t.Errorf("resource after bid = %d, want 0", p.Resource)
	}
	if !p.MadeBid {
		t.Error("MadeBid not set")
	}
	if _, err := m.PlaceBid(st, redPeople, asset.ID, 1); !errors.Is(err, cyberfront.ErrRejected) {
		t.Errorf("bid below minimum: %v", err)
	}
	if _, err := m.PlaceBid(st, redIndustry, asset.ID, 0); !errors.Is(err, cyberfront.ErrRejected) {
		t.Errorf("second bid in a turn: %v", err)
	}
	if _, err := m.PlaceBid(st, blueIndustry, asset.ID, 2); !errors.Is(err, cyberfront.ErrNotYourTurn) {
		t.Errorf("bid out of turn: %v", err)
	}

	// Blue matches the bid on its own turn, so neither side secures it.
	endTurn(t, m, st)
	if _, err := m.PlaceBid(st, blueIndustry, asset.ID, 3); err != nil {
		t.Fatal(err)
	}
	endTurn(t, m, st)
	if p.Resource != 0 {
		t.Errorf("red industry resource = %d, want 0", p.Resource)
	}
	if asset.Status != cyberfront.AssetBidding {
		t.Errorf("tied bids settled as %s", asset.Status)
	}
}

func TestBidSecured(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	asset := market.Bidding(st.Assets)[0]
	st.Player(redGov).Resource = 10

	if _, err := m.PlaceBid(st, redGov, asset.ID, asset.MinimumBid); err != nil {
		t.Fatal(err)
	}
	endTurn(t, m, st)
	if asset.Status != cyberfront.AssetBidding {
		t.Fatalf("secured on the bidder's own turn end")
	}
	rep := endTurn(t, m, st)
	if asset.Status != cyberfront.AssetSecured || asset.Owner != cyberfront.Red {
		t.Errorf("asset = %s owned by %q, want secured by red", asset.Status, asset.Owner)
	}
	if len(rep.Secured) != 1 {
		t.Errorf("report secured %d assets", len(rep.Secured))
	}
}

func TestParalysedCannotBid(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	asset := market.Bidding(st.Assets)[0]
	st.Player(redGov).Resource = 10
	st.Player(redGov).Conditions.Paralysis = condition.Activate(1)

	if _, err := m.PlaceBid(st, redGov, asset.ID, asset.MinimumBid); !errors.Is(err, cyberfront.ErrParalysed) {
		t.Fatalf("err = %v, want ErrParalysed", err)
	}
	if st.Player(redGov).Resource != 10 || st.Player(redGov).MadeBid || asset.RedBid != 0 {
		t.Errorf("rejected bid changed state: resource %d bid %d", st.Player(redGov).Resource, asset.RedBid)
	}
}

func TestRecords(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	asset := market.Bidding(st.Assets)[0]
	st.Player(redGov).Resource = 10

	if len(st.Records) != 1 || st.Records[0].Kind != cyberfront.RecordGame {
		t.Fatalf("records after start = %+v", st.Records)
	}
	if _, err := m.PlaceBid(st, redGov, asset.ID, asset.MinimumBid); err != nil {
		t.Fatal(err)
	}
	endTurn(t, m, st)
	endTurn(t, m, st)

	want := []cyberfront.RecordKind{
		cyberfront.RecordGame,
		cyberfront.RecordTurn,
		cyberfront.RecordMarket,
		cyberfront.RecordTurn,
	}
	if len(st.Records) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(st.Records), len(want), st.Records)
	}
	for i, r := range st.Records {
		if r.Kind != want[i] {
			t.Errorf("record %d kind = %s, want %s", i, r.Kind, want[i])
		}
		if r.GameID != "g1" || r.ID == "" || r.At.IsZero() {
			t.Errorf("record %d = %+v", i, r)
		}
	}
	if got, want := st.Records[2].Text, "Russia secures "+string(asset.Name)+" as the highest bidder"; got != want {
		t.Errorf("market record = %q, want %q", got, want)
	}
	if st.Records[1].Side != cyberfront.Blue || st.Records[1].Turn != 1 || st.Records[3].Turn != 2 {
		t.Errorf("turn records = %+v, %+v", st.Records[1], st.Records[3])
	}
}

func TestActPreconditions(t *testing.T) {
	m := newMachine(t, 6)

	tests := []struct {
		name  string
		setup func(st *cyberfront.State)
		seat  cyberfront.Seat
		req   Request
		want  error
	}{
		{"not active side", nil, bluePeople, Request{Action: cyberfront.ActionAbstain}, cyberfront.ErrNotYourTurn},
		{"unknown action", nil, redPeople, Request{Action: "dance"}, cyberfront.ErrRejected},
		{"already acted", func(st *cyberfront.State) { st.Player(redPeople).LastAction = cyberfront.ActionAbstain },
			redPeople, Request{Action: cyberfront.ActionAbstain}, cyberfront.ErrAlreadyActed},
		{"paralysed", func(st *cyberfront.State) { st.Player(redPeople).Conditions.Paralysis = condition.Activate(1) },
			redPeople, Request{Action: cyberfront.ActionRevitalise, Amount: 1}, cyberfront.ErrParalysed},
		{"not eligible", nil, redGov, Request{Action: cyberfront.ActionAttack, Spent: 1}, cyberfront.ErrRejected},
		{"vector closed", nil, seat(cyberfront.Red, cyberfront.Intelligence), Request{Action: cyberfront.ActionAttack, Spent: 1}, cyberfront.ErrRejected},
		{"attack ban", func(st *cyberfront.State) { st.Player(redPeople).Conditions.AttackBan = condition.Activate(1) },
			redPeople, Request{Action: cyberfront.ActionAttack, Spent: 1}, cyberfront.ErrRejected},
		{"spent too high", nil, redPeople, Request{Action: cyberfront.ActionAttack, Spent: 7}, cyberfront.ErrRejected},
		{"not enough resource", nil, redPeople, Request{Action: cyberfront.ActionAttack, Spent: 4}, cyberfront.ErrInsufficient},
		{"transfer to opponent", nil, redPeople, Request{Action: cyberfront.ActionDistribute, Target: bluePeople, Amount: 1}, cyberfront.ErrRejected},
		{"transfer to self", nil, redPeople, Request{Action: cyberfront.ActionDistribute, Target: redPeople, Amount: 1}, cyberfront.ErrRejected},
		{"transfer too large", func(st *cyberfront.State) { st.Player(redPeople).Resource = 10 },
			redPeople, Request{Action: cyberfront.ActionDistribute, Target: redGov, Amount: 6}, cyberfront.ErrRejected},
		{"network policy", func(st *cyberfront.State) { st.Player(redGov).Conditions.SplashImmune = true },
			redPeople, Request{Action: cyberfront.ActionDistribute, Target: redGov, Amount: 3}, cyberfront.ErrRejected},
		{"transfers banned", func(st *cyberfront.State) { st.Team(cyberfront.Red).CanTransferResource = false },
			redPeople, Request{Action: cyberfront.ActionDistribute, Target: redGov, Amount: 1}, cyberfront.ErrRejected},
		{"revitalise too much", nil, redPeople, Request{Action: cyberfront.ActionRevitalise, Amount: 7}, cyberfront.ErrRejected},
		{"revitalise unaffordable", nil, redPeople, Request{Action: cyberfront.ActionRevitalise, Amount: 3}, cyberfront.ErrInsufficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newGame(t, m)
			if tt.setup != nil {
				tt.setup(st)
			}
			before := *st.Player(tt.seat)
			_, err := m.Act(st, tt.seat, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			after := st.Player(tt.seat)
			if after.Resource != before.Resource || after.Vitality != before.Vitality || after.LastAction != before.LastAction {
				t.Errorf("rejected action changed the entity: %+v", after)
			}
		})
	}
}

func TestParalysedMayAbstain(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	st.Player(redPeople).Conditions.Paralysis = condition.Activate(1)
	if _, err := m.Act(st, redPeople, Request{Action: cyberfront.ActionAbstain}); err != nil {
		t.Errorf("abstain while paralysed: %v", err)
	}
}

func TestDistribute(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	st.Game.ActiveSide = cyberfront.Blue

	res, err := m.Act(st, bluePeople, Request{Action: cyberfront.ActionDistribute, Target: blueGov, Amount: 2})
	if err != nil {
		t.Fatal(err)
	}
	if st.Player(bluePeople).Resource != 1 || st.Player(blueGov).Resource != 5 {
		t.Errorf("resources = %d, %d", st.Player(bluePeople).Resource, st.Player(blueGov).Resource)
	}
	if st.Player(bluePeople).VictoryPoints != -1 || len(res.Awards) != 1 {
		t.Errorf("resist the drain not scored: %+v", res.Awards)
	}
}

func TestRevitalise(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	st.Game.ActiveSide = cyberfront.Blue
	p := st.Player(blueIntel)
	p.Conditions.CyberInvestment = true

	if _, err := m.Act(st, blueIntel, Request{Action: cyberfront.ActionRevitalise, Amount: 3}); err != nil {
		t.Fatal(err)
	}
	if p.Resource != 0 || p.Vitality != 7 {
		t.Errorf("resource %d vitality %v, want 0 and 7", p.Resource, p.Vitality)
	}
	if !st.Game.Objectives.RecruitmentRevitalised {
		t.Error("recruitment flag not raised")
	}
}

func TestAttackAppliesResult(t *testing.T) {
	m := newMachine(t, 6)
	st := newGame(t, m)
	st.Game.ActiveSide = cyberfront.Blue
	st.Game.Vectors.Government = true
	st.Player(blueGov).Conditions.DoubleDamage = true

	res, err := m.Act(st, blueGov, Request{Action: cyberfront.ActionAttack, Spent: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Attack == nil || res.Attack.Strength != 2 {
		t.Fatalf("attack = %+v", res.Attack)
	}
	if got := st.Player(redGov).Vitality; got != 0 {
		t.Errorf("red government vitality = %v, want 0", got)
	}
	if st.Player(blueGov).Conditions.DoubleDamage {
		t.Error("double damage not consumed")
	}
	if st.Game.LastAttacker == nil || *st.Game.LastAttacker != blueGov || st.Game.LastAttackStrength != 2 {
		t.Errorf("last attack = %v/%d", st.Game.LastAttacker, st.Game.LastAttackStrength)
	}
	if !res.Finished || st.Player(blueGov).VictoryPoints < 10 {
		t.Errorf("finishing blow not rewarded: %+v", st.Player(blueGov))
	}
}

func TestAttributionGrant(t *testing.T) {
	// Three resource rolling one is -1: Blue gains Education.
	m := newMachine(t, 1)
	st := newGame(t, m)

	res, err := m.Act(st, redPeople, Request{Action: cyberfront.ActionAttack, Spent: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Attack.Strength != -1 {
		t.Fatalf("strength = %d", res.Attack.Strength)
	}
	var held bool
	for _, a := range market.Held(st.Assets, cyberfront.Blue) {
		if a.Name == cyberfront.Education {
			held = true
		}
	}
	if !held {
		t.Error("education not granted to blue")
	}
	if got := st.Player(redGov).VictoryPoints; got != -1 {
		t.Errorf("control the trolls = %d, want -1", got)
	}
}

func TestRansom(t *testing.T) {
	m := newMachine(t, 6)
	st := newGame(t, m)
	st.Player(redPeople).Conditions.RansomwarePending = true

	if _, err := m.Act(st, redPeople, Request{Action: cyberfront.ActionAttack, Spent: 1}); err != nil {
		t.Fatal(err)
	}
	victim := st.Player(bluePeople)
	if !victim.Conditions.Paralysed() || victim.RansomAttacker == nil {
		t.Fatalf("victim not held to ransom: %+v", victim)
	}
	if st.Player(redPeople).Conditions.RansomwarePending {
		t.Error("ransomware not consumed")
	}

	if err := m.PayRansom(st, bluePeople, true); err != nil {
		t.Fatal(err)
	}
	if victim.Resource != 1 || st.Player(redPeople).Resource != 4 {
		t.Errorf("resources = %d, %d; want 1, 4", victim.Resource, st.Player(redPeople).Resource)
	}
	if victim.Conditions.Paralysed() || victim.RansomAttacker != nil {
		t.Error("paying did not lift the ransom")
	}
	if err := m.PayRansom(st, bluePeople, true); !errors.Is(err, cyberfront.ErrRejected) {
		t.Errorf("second payment: %v", err)
	}
}

func TestRefuseRansom(t *testing.T) {
	m := newMachine(t, 6)
	st := newGame(t, m)
	st.Player(redPeople).Conditions.RansomwarePending = true
	if _, err := m.Act(st, redPeople, Request{Action: cyberfront.ActionAttack, Spent: 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.PayRansom(st, bluePeople, false); err != nil {
		t.Fatal(err)
	}
	victim := st.Player(bluePeople)
	if !victim.Conditions.Paralysed() || victim.RansomAttacker != nil || victim.Resource != 3 {
		t.Errorf("refusal = %+v", victim)
	}
}

func TestAdvanceHooks(t *testing.T) {
	t.Run("decay only the ending side", func(t *testing.T) {
		m := newMachine(t, 1)
		st := newGame(t, m)
		st.Player(redPeople).Conditions.AttackBan = condition.Schedule(2)
		st.Player(bluePeople).Conditions.AttackBan = condition.Schedule(2)
		endTurn(t, m, st)
		if !st.Player(redPeople).Conditions.AttackBan.IsActive() {
			t.Error("red ban did not start")
		}
		if !st.Player(bluePeople).Conditions.AttackBan.IsPending() {
			t.Error("blue ban decayed on red's turn end")
		}
	})

	t.Run("recovery management", func(t *testing.T) {
		m := newMachine(t, 1)
		st := newGame(t, m)
		st.Game.RecoveryManagement = true
		p := st.Player(blueIndustry)
		p.Damage(2)
		endTurn(t, m, st)
		if p.Vitality != 3 || p.SufferedDamage {
			t.Errorf("blue industry = %v (damaged %v), want 3 and reset", p.Vitality, p.SufferedDamage)
		}
	})

	t.Run("peoples revolt", func(t *testing.T) {
		m := newMachine(t, 1)
		st := newGame(t, m)
		st.Game.DrawnCard = cyberfront.PeoplesRevolt
		blueBefore := st.Player(blueGov).Resource
		endTurn(t, m, st)
		if got := st.Player(blueGov).Resource; got != blueBefore+3 {
			t.Errorf("blue stipend = %d, want %d", got, blueBefore+3)
		}
		redBefore := st.Player(redGov).Resource
		endTurn(t, m, st)
		if got := st.Player(redGov).Resource; got != redBefore {
			t.Errorf("red stipend paid under revolt: %d, want %d", got, redBefore)
		}
	})

	t.Run("event depletes", func(t *testing.T) {
		m := newMachine(t, 1)
		st := newGame(t, m)
		st.Game.ActiveSide = cyberfront.Blue
		st.Game.Round = 1
		st.Cards = []*cyberfront.EventCard{{ID: "c", Name: cyberfront.NuclearMeltdown, Status: cyberfront.CardInDeck}}
		st.Player(blueEnergy).Vitality = 1
		rep := endTurn(t, m, st)
		if !rep.Finished || st.Game.Status != cyberfront.StatusFinished {
			t.Errorf("meltdown to zero did not finish: %+v", rep)
		}
	})

	t.Run("banking error lifted at month close", func(t *testing.T) {
		m := newMachine(t, 1)
		st := newGame(t, m)
		st.Game.ActiveSide = cyberfront.Blue
		st.Game.Round = 1
		st.Team(cyberfront.Blue).CanTransferResource = false
		st.Team(cyberfront.Blue).EventCardRead = true
		endTurn(t, m, st)
		if !st.Team(cyberfront.Blue).CanTransferResource {
			t.Error("transfer ban not lifted")
		}
		if st.Team(cyberfront.Blue).EventCardRead {
			t.Error("event card read flag not reset")
		}
	})
}

func TestActivateAsset(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	a := market.Grant(st.Assets, cyberfront.Stuxnet, cyberfront.Red)

	if _, err := m.ActivateAsset(st, cyberfront.Blue, a.ID, market.Target{}); !errors.Is(err, cyberfront.ErrNotYourTurn) {
		t.Errorf("activation out of turn: %v", err)
	}
	if _, err := m.ActivateAsset(st, cyberfront.Red, a.ID, market.Target{}); err != nil {
		t.Fatal(err)
	}
	if !st.Player(seat(cyberfront.Red, cyberfront.Intelligence)).Conditions.DoubleDamage {
		t.Error("stuxnet not applied")
	}
	if _, err := m.ActivateAsset(st, cyberfront.Red, a.ID, market.Target{}); !errors.Is(err, cyberfront.ErrRejected) {
		t.Errorf("second activation: %v", err)
	}
}

func TestReadEventCard(t *testing.T) {
	m := newMachine(t, 1)
	st := newGame(t, m)
	if err := m.ReadEventCard(st, cyberfront.Red); err != nil {
		t.Fatal(err)
	}
	if !st.Team(cyberfront.Red).EventCardRead || st.Team(cyberfront.Blue).EventCardRead {
		t.Error("read flag set on the wrong team")
	}
	if err := m.ReadEventCard(st, "green"); !errors.Is(err, cyberfront.ErrRejected) {
		t.Errorf("unknown side: %v", err)
	}
}
