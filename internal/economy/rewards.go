package economy

import "clicker_webapp/internal/domain"

// ApplyReward credits a claimed reward to the player's stats.
func (e *Engine) ApplyReward(p *domain.Player, r *domain.Reward) {
	p.Stats.Coins += r.Amount
	p.Stats.EarnedWeekCoins += r.Amount
	p.Stats.Inspirations += r.Inspirations
	p.Stats.Replenishments += r.Replenishments
}
