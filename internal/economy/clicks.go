package economy

import (
	"math"
	"time"

	"clicker_webapp/internal/domain"
)

// SyncClicks converts a client-reported click count into coins. The count is
// untrusted: the extraction is cut down to whole press-force units the
// current energy can pay for.
func (e *Engine) SyncClicks(p *domain.Player, clicks int64, now time.Time) (int64, error) {
	if clicks <= 0 {
		return 0, domain.ErrInvalidClicks
	}

	e.SyncEnergy(p, now)

	force := p.Rank.PressForce
	if force <= 0 || p.Stats.Energy < float64(force) {
		return 0, domain.ErrInsufficientEnergy
	}

	affordable := int64(math.Floor(p.Stats.Energy / float64(force)))
	if clicks > affordable {
		clicks = affordable
	}
	extraction := clicks * force

	p.Stats.Coins += extraction
	p.Stats.Energy -= float64(extraction)
	p.Stats.EarnedWeekCoins += extraction
	clampEnergy(p)

	return extraction, nil
}
