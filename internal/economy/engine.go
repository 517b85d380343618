// Package economy holds the game rules: how one player's snapshot changes
// under clicks, boosts, mining, promotion and reward grants. Nothing here
// touches storage; callers load the snapshot under a per-user lock, apply a
// rule and persist the result.
package economy

import (
	"time"

	"clicker_webapp/internal/domain"
)

// Rules are the tunable constants of the economy.
type Rules struct {
	InspirationMinRank    int
	InspirationMultiplier int64
	InspirationCapRatio   float64 // cap = rank.MaxEnergy * ratio
	InspirationCooldown   time.Duration

	ReplenishmentMinRank int

	MiningMinRank  int
	MiningDuration time.Duration
}

// DefaultRules returns the production values.
func DefaultRules() Rules {
	return Rules{
		InspirationMinRank:    2,
		InspirationMultiplier: 3,
		InspirationCapRatio:   1.2,
		InspirationCooldown:   15 * time.Second,
		ReplenishmentMinRank:  3,
		MiningMinRank:         4,
		MiningDuration:        8 * time.Hour,
	}
}

// Engine applies the rules against a fixed rank ladder.
type Engine struct {
	ladder domain.RankLadder
	rules  Rules
}

func NewEngine(ladder domain.RankLadder, rules Rules) *Engine {
	return &Engine{ladder: ladder, rules: rules}
}

func (e *Engine) Ladder() domain.RankLadder {
	return e.ladder
}

func (e *Engine) Rules() Rules {
	return e.rules
}
