package economy

import (
	"errors"
	"testing"
	"time"

	"clicker_webapp/internal/domain"
)

var testLadder = domain.RankLadder{
	{ID: 1, Name: "ACOLYTE", League: 1, PressForce: 4, MaxEnergy: 2000, EnergyPerSecond: 0.5, Price: 0},
	{ID: 2, Name: "DEACON", League: 2, PressForce: 6, MaxEnergy: 3000, EnergyPerSecond: 1, Price: 2640},
	{ID: 3, Name: "PRIEST", League: 3, PressForce: 8, MaxEnergy: 4000, EnergyPerSecond: 1, Price: 7920},
	{ID: 4, Name: "ARCHDEACON", League: 4, PressForce: 10, MaxEnergy: 5000, EnergyPerSecond: 1, Price: 24200},
	{ID: 5, Name: "ARCHDEACON", League: 4, PressForce: 11, MaxEnergy: 5500, EnergyPerSecond: 1, Price: 60500},
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(testLadder, DefaultRules())
}

func newPlayer(rankID int) *domain.Player {
	r, _ := testLadder.Get(rankID)
	return &domain.Player{
		User:     domain.User{ID: 42, RankID: rankID},
		Rank:     r,
		Stats:    domain.Stats{Coins: domain.InitialCoins},
		Activity: domain.Activity{LastSyncEnergy: t0},
	}
}

func checkEnergyBound(t *testing.T, p *domain.Player) {
	t.Helper()
	if p.Stats.Energy < 0 || p.Stats.Energy > float64(p.Rank.MaxEnergy) {
		t.Fatalf("energy %v out of [0, %d]", p.Stats.Energy, p.Rank.MaxEnergy)
	}
}

func TestSyncEnergy(t *testing.T) {
	tests := []struct {
		name     string
		energy   float64
		elapsed  time.Duration
		want     float64
		wantSync time.Time
	}{
		{"accrues per second", 100, 10 * time.Second, 105, t0.Add(10 * time.Second)},
		{"same instant accrues nothing", 100, 0, 100, t0},
		{"capped at max", 1990, time.Hour, 2000, t0.Add(time.Hour)},
		{"clock going back is ignored", 100, -time.Minute, 100, t0},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer(1)
			p.Stats.Energy = tt.energy

			e.SyncEnergy(p, t0.Add(tt.elapsed))

			if p.Stats.Energy != tt.want {
				t.Errorf("energy = %v, want %v", p.Stats.Energy, tt.want)
			}
			if !p.Activity.LastSyncEnergy.Equal(tt.wantSync) {
				t.Errorf("lastSyncEnergy = %v, want %v", p.Activity.LastSyncEnergy, tt.wantSync)
			}
			checkEnergyBound(t, p)
		})
	}
}

func TestSyncEnergy_RepeatedCallsGainNothing(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(1)
	p.Stats.Energy = 10

	for i := 0; i < 100; i++ {
		e.SyncEnergy(p, t0)
	}
	if p.Stats.Energy != 10 {
		t.Fatalf("energy = %v, want 10", p.Stats.Energy)
	}
}

func TestSyncClicks_Clamp(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(1)
	p.Stats.Energy = 10

	got, err := e.SyncClicks(p, 100, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8 {
		t.Errorf("extraction = %d, want 8", got)
	}
	if p.Stats.Energy != 2 {
		t.Errorf("energy = %v, want 2", p.Stats.Energy)
	}
	if p.Stats.Coins != domain.InitialCoins+8 {
		t.Errorf("coins = %d, want %d", p.Stats.Coins, domain.InitialCoins+8)
	}
	if p.Stats.EarnedWeekCoins != 8 {
		t.Errorf("earnedWeekCoins = %d, want 8", p.Stats.EarnedWeekCoins)
	}
}

func TestSyncClicks_Unclamped(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(1)
	p.Stats.Energy = 100

	got, err := e.SyncClicks(p, 3, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12 || p.Stats.Energy != 88 {
		t.Fatalf("extraction = %d energy = %v, want 12 and 88", got, p.Stats.Energy)
	}
}

func TestSyncClicks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		energy  float64
		clicks  int64
		wantErr error
	}{
		{"insufficient energy", 2, 10, domain.ErrInsufficientEnergy},
		{"zero clicks", 100, 0, domain.ErrInvalidClicks},
		{"negative clicks", 100, -5, domain.ErrInvalidClicks},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer(1)
			p.Stats.Energy = tt.energy
			before := *p

			_, err := e.SyncClicks(p, tt.clicks, t0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if p.Stats != before.Stats {
				t.Errorf("stats changed on failure: %+v -> %+v", before.Stats, p.Stats)
			}
		})
	}
}

func TestSyncClicks_HugeClickCount(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(1)
	p.Stats.Energy = 2000

	got, err := e.SyncClicks(p, 1<<62, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2000 || p.Stats.Energy != 0 {
		t.Fatalf("extraction = %d energy = %v, want 2000 and 0", got, p.Stats.Energy)
	}
}

func TestUseInspiration(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(2)
	p.Stats.Inspirations = 2
	p.Stats.Energy = 50

	got, err := e.UseInspiration(p, 10, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10 clicks * 6 force * 3
	if got != 180 {
		t.Errorf("extraction = %d, want 180", got)
	}
	if p.Stats.Energy != 50 {
		t.Errorf("energy debited: %v", p.Stats.Energy)
	}
	if p.Stats.Inspirations != 1 {
		t.Errorf("inspirations = %d, want 1", p.Stats.Inspirations)
	}
	if want := t0.Add(15 * time.Second); !p.Activity.NextInspirationAt.Equal(want) {
		t.Errorf("nextInspirationAt = %v, want %v", p.Activity.NextInspirationAt, want)
	}

	if _, err := e.UseInspiration(p, 10, t0.Add(5*time.Second)); !errors.Is(err, domain.ErrCooldownActive) {
		t.Fatalf("err = %v, want cooldown", err)
	}

	got, err = e.UseInspiration(p, 1_000_000, t0.Add(15*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3000 * 1.2
	if got != 3600 {
		t.Errorf("capped extraction = %d, want 3600", got)
	}

	if _, err := e.UseInspiration(p, 1, t0.Add(time.Minute)); !errors.Is(err, domain.ErrNoChargesLeft) {
		t.Fatalf("err = %v, want no charges", err)
	}
}

func TestUseInspiration_RankTooLow(t *testing.T) {
	p := newPlayer(1)
	p.Stats.Inspirations = 1
	if _, err := newTestEngine().UseInspiration(p, 1, t0); !errors.Is(err, domain.ErrRankTooLow) {
		t.Fatalf("err = %v, want rank too low", err)
	}
}

func TestUseReplenishment(t *testing.T) {
	tests := []struct {
		name    string
		rankID  int
		charges int
		energy  float64
		wantErr error
	}{
		{"refills", 3, 1, 10, nil},
		{"rank too low", 2, 1, 10, domain.ErrRankTooLow},
		{"no charges", 3, 0, 10, domain.ErrNoChargesLeft},
		{"already full", 3, 1, 4000, domain.ErrAlreadyFull},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer(tt.rankID)
			p.Stats.Replenishments = tt.charges
			p.Stats.Energy = tt.energy

			err := e.UseReplenishment(p, t0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if p.Stats.Energy != float64(p.Rank.MaxEnergy) {
				t.Errorf("energy = %v, want %d", p.Stats.Energy, p.Rank.MaxEnergy)
			}
			if p.Stats.Replenishments != tt.charges-1 {
				t.Errorf("replenishments = %d, want %d", p.Stats.Replenishments, tt.charges-1)
			}
		})
	}
}

func TestMiningCycle(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(4)
	dur := e.Rules().MiningDuration

	session, err := e.StartMining(p, t0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.MaxExtraction != 5000 || !session.CooldownEnd.Equal(t0.Add(dur)) {
		t.Fatalf("session = %+v", session)
	}

	if _, err := e.StartMining(p, t0.Add(time.Minute)); !errors.Is(err, domain.ErrAlreadyMining) {
		t.Fatalf("restart while counting down: %v", err)
	}
	if _, err := e.ClaimMining(p, t0.Add(time.Minute)); !errors.Is(err, domain.ErrStillMining) {
		t.Fatalf("early claim: %v", err)
	}
	// finished but unclaimed
	if _, err := e.StartMining(p, t0.Add(dur)); !errors.Is(err, domain.ErrAlreadyMining) {
		t.Fatalf("restart before claim: %v", err)
	}

	coins := p.Stats.Coins
	got, err := e.ClaimMining(p, t0.Add(dur))
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got != 5000 || p.Stats.Coins != coins+5000 || p.Stats.EarnedWeekCoins != 5000 {
		t.Fatalf("claim = %d coins = %d week = %d", got, p.Stats.Coins, p.Stats.EarnedWeekCoins)
	}

	if _, err := e.ClaimMining(p, t0.Add(dur)); !errors.Is(err, domain.ErrNothingToClaim) {
		t.Fatalf("second claim: %v", err)
	}
	if p.Stats.Coins != coins+5000 {
		t.Fatalf("second claim granted coins: %d", p.Stats.Coins)
	}

	if _, err := e.StartMining(p, t0.Add(dur)); err != nil {
		t.Fatalf("start after claim: %v", err)
	}
}

func TestMining_RankTooLow(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(3)
	if _, err := e.StartMining(p, t0); !errors.Is(err, domain.ErrRankTooLow) {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.ClaimMining(p, t0); !errors.Is(err, domain.ErrRankTooLow) {
		t.Fatalf("claim: %v", err)
	}
}

func TestPromote(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(1)
	p.Stats.Coins = 3000

	next, err := e.Promote(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.ID != 2 || p.User.RankID != 2 || p.Rank.ID != 2 {
		t.Fatalf("rank = %d/%d, want 2", p.User.RankID, p.Rank.ID)
	}
	if p.Stats.Coins != 360 {
		t.Errorf("coins = %d, want 360", p.Stats.Coins)
	}

	if _, err := e.Promote(p); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}
	if p.Stats.Coins != 360 || p.User.RankID != 2 {
		t.Fatalf("failed promotion mutated state: coins=%d rank=%d", p.Stats.Coins, p.User.RankID)
	}
}

func TestPromote_Top(t *testing.T) {
	p := newPlayer(testLadder.Top())
	p.Stats.Coins = 1 << 40
	if _, err := newTestEngine().Promote(p); !errors.Is(err, domain.ErrMaxRankReached) {
		t.Fatalf("err = %v, want max rank", err)
	}
}

func TestApplyReward(t *testing.T) {
	p := newPlayer(1)
	r := domain.NewReward(p.User.ID, domain.RewardTask, domain.Grant{Amount: 700, Inspirations: 2, Replenishments: 1})

	newTestEngine().ApplyReward(p, r)

	if p.Stats.Coins != domain.InitialCoins+700 || p.Stats.EarnedWeekCoins != 700 {
		t.Errorf("coins = %d week = %d", p.Stats.Coins, p.Stats.EarnedWeekCoins)
	}
	if p.Stats.Inspirations != 2 || p.Stats.Replenishments != 1 {
		t.Errorf("charges = %d/%d", p.Stats.Inspirations, p.Stats.Replenishments)
	}
}

func TestEnergyBoundAcrossOperations(t *testing.T) {
	e := newTestEngine()
	p := newPlayer(1)
	p.Stats.Coins = 1 << 30
	p.Stats.Replenishments = 100
	p.Stats.Inspirations = 100

	now := t0
	for i := 0; i < 200; i++ {
		now = now.Add(time.Duration(i%7) * time.Second)
		switch i % 5 {
		case 0:
			_, _ = e.SyncClicks(p, int64(i), now)
		case 1:
			_, _ = e.UseInspiration(p, int64(i), now)
		case 2:
			_ = e.UseReplenishment(p, now)
		case 3:
			_, _ = e.Promote(p)
		case 4:
			e.SyncEnergy(p, now.Add(time.Hour))
		}
		checkEnergyBound(t, p)
		if p.Stats.Coins < 0 {
			t.Fatalf("coins went negative: %d", p.Stats.Coins)
		}
	}
}
