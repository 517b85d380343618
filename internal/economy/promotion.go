package economy

import "clicker_webapp/internal/domain"

// Promote buys the next rank on the ladder.
func (e *Engine) Promote(p *domain.Player) (domain.Rank, error) {
	next, ok := e.ladder.Next(p.Rank.ID)
	if !ok {
		return domain.Rank{}, domain.ErrMaxRankReached
	}
	if p.Stats.Coins < next.Price {
		return domain.Rank{}, domain.ErrInsufficientFunds
	}

	p.Stats.Coins -= next.Price
	p.User.RankID = next.ID
	p.Rank = next
	clampEnergy(p)

	return next, nil
}
