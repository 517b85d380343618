package economy

import (
	"time"

	"clicker_webapp/internal/domain"
)

// InspirationCap is the most one inspiration can pay out at rank r.
func (e *Engine) InspirationCap(r domain.Rank) int64 {
	return int64(float64(r.MaxEnergy) * e.rules.InspirationCapRatio)
}

// UseInspiration spends one inspiration charge for an amplified payout.
// Energy is synced but not spent; the payout is capped independently.
func (e *Engine) UseInspiration(p *domain.Player, clicks int64, now time.Time) (int64, error) {
	if clicks <= 0 {
		return 0, domain.ErrInvalidClicks
	}

	e.SyncEnergy(p, now)

	if p.Rank.ID < e.rules.InspirationMinRank {
		return 0, domain.ErrRankTooLow
	}
	if p.Stats.Inspirations <= 0 {
		return 0, domain.ErrNoChargesLeft
	}
	if now.Before(p.Activity.NextInspirationAt) {
		return 0, domain.ErrCooldownActive
	}

	limit := e.InspirationCap(p.Rank)
	perClick := p.Rank.PressForce * e.rules.InspirationMultiplier
	extraction := limit
	if perClick > 0 && clicks <= limit/perClick {
		extraction = clicks * perClick
	}

	p.Activity.NextInspirationAt = now.Add(e.rules.InspirationCooldown)
	p.Stats.Inspirations--
	p.Stats.Coins += extraction
	p.Stats.EarnedWeekCoins += extraction

	return extraction, nil
}

// UseReplenishment spends one replenishment charge to refill energy.
func (e *Engine) UseReplenishment(p *domain.Player, now time.Time) error {
	e.SyncEnergy(p, now)

	if p.Rank.ID < e.rules.ReplenishmentMinRank {
		return domain.ErrRankTooLow
	}
	if p.Stats.Replenishments <= 0 {
		return domain.ErrNoChargesLeft
	}
	if p.Stats.Energy >= float64(p.Rank.MaxEnergy) {
		return domain.ErrAlreadyFull
	}

	p.Stats.Energy = float64(p.Rank.MaxEnergy)
	p.Stats.Replenishments--
	return nil
}
