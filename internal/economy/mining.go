package economy

import (
	"time"

	"clicker_webapp/internal/domain"
)

// MiningSession describes a started mining run.
type MiningSession struct {
	MaxExtraction int64     `json:"max_extraction"`
	CooldownEnd   time.Time `json:"cooldown_end"`
}

// MiningYield is what a finished session pays at rank r.
func MiningYield(r domain.Rank) int64 {
	return r.MaxEnergy
}

// StartMining moves the player from idle to mining. A finished session must
// be claimed before a new one can start.
func (e *Engine) StartMining(p *domain.Player, now time.Time) (MiningSession, error) {
	if p.Rank.ID < e.rules.MiningMinRank {
		return MiningSession{}, domain.ErrRankTooLow
	}
	if now.Before(p.Activity.NextMiningAt) || p.Activity.IsActiveMining {
		return MiningSession{}, domain.ErrAlreadyMining
	}

	p.Activity.NextMiningAt = now.Add(e.rules.MiningDuration)
	p.Activity.IsActiveMining = true

	return MiningSession{
		MaxExtraction: MiningYield(p.Rank),
		CooldownEnd:   p.Activity.NextMiningAt,
	}, nil
}

// ClaimMining pays out a finished session and returns the player to idle.
func (e *Engine) ClaimMining(p *domain.Player, now time.Time) (int64, error) {
	if p.Rank.ID < e.rules.MiningMinRank {
		return 0, domain.ErrRankTooLow
	}
	if now.Before(p.Activity.NextMiningAt) {
		return 0, domain.ErrStillMining
	}
	if !p.Activity.IsActiveMining {
		return 0, domain.ErrNothingToClaim
	}

	yield := MiningYield(p.Rank)
	p.Activity.IsActiveMining = false
	p.Stats.Coins += yield
	p.Stats.EarnedWeekCoins += yield

	return yield, nil
}
