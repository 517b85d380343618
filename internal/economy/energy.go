package economy

import (
	"time"

	"clicker_webapp/internal/domain"
)

// SyncEnergy credits the energy regenerated since the last sync and moves
// the sync mark to now. A now before the mark accrues nothing and leaves the
// mark in place, so LastSyncEnergy never goes backwards.
func (e *Engine) SyncEnergy(p *domain.Player, now time.Time) {
	last := p.Activity.LastSyncEnergy
	if last.IsZero() || !now.Before(last) {
		if !last.IsZero() {
			// no minimum elapsed time: a same-instant sync credits nothing
			elapsed := now.Sub(last).Seconds()
			p.Stats.Energy += elapsed * p.Rank.EnergyPerSecond
		}
		p.Activity.LastSyncEnergy = now
	}
	clampEnergy(p)
}

// clampEnergy keeps energy inside [0, rank.MaxEnergy].
func clampEnergy(p *domain.Player) {
	maxEnergy := float64(p.Rank.MaxEnergy)
	if p.Stats.Energy > maxEnergy {
		p.Stats.Energy = maxEnergy
	}
	if p.Stats.Energy < 0 {
		p.Stats.Energy = 0
	}
}
