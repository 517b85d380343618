package economy

import "clicker_webapp/internal/domain"

// TaskVisible reports whether a player at userRank may see the task. Rank
// gated tasks compare leagues, not raw ladder positions. Unknown rules hide
// the task.
func TaskVisible(t domain.Task, userRank domain.Rank, ladder domain.RankLadder) bool {
	switch t.Visibility.Type {
	case domain.VisibilityAlways:
		return true
	case domain.VisibilityRank:
		required, ok := ladder.Get(t.Visibility.RequiredRankID)
		if !ok {
			return false
		}
		return userRank.League >= required.League
	default:
		return false
	}
}
