package economy

import (
	"time"

	"clicker_webapp/internal/domain"
)

const day = 24 * time.Hour

// dailyRewards is the login streak table, indexed by activeDays-1. Streaks
// longer than the table keep receiving the last entry.
var dailyRewards = [...]domain.Grant{
	{Amount: 500},
	{Amount: 1000},
	{Amount: 1000, Inspirations: 1},
	{Amount: 1000, Inspirations: 1, Replenishments: 1},
	{Amount: 1000, Inspirations: 2, Replenishments: 1},
	{Amount: 5000, Inspirations: 2, Replenishments: 2},
	{Amount: 10000, Inspirations: 2, Replenishments: 2},
}

// DailyGrant returns the streak reward for the given streak day (1-based).
func DailyGrant(streakDay int) domain.Grant {
	if streakDay < 1 {
		streakDay = 1
	}
	if streakDay > len(dailyRewards) {
		streakDay = len(dailyRewards)
	}
	return dailyRewards[streakDay-1]
}

// DailyLogin records a session start. It returns the unsaved streak reward
// when the player came back between one and two days after the previous
// grant, and nil otherwise. A lapse of two days or more since the last login
// resets the streak.
func (e *Engine) DailyLogin(p *domain.Player, now time.Time) *domain.Reward {
	act := &p.Activity
	defer func() {
		t := now
		act.LastLoginDate = &t
	}()

	eligible := act.LastDailyRewardDate == nil
	if !eligible {
		since := now.Sub(*act.LastDailyRewardDate)
		eligible = since > day && since < 2*day
	}

	if eligible {
		act.ActiveDays++
		t := now
		act.LastDailyRewardDate = &t
		return domain.NewReward(p.User.ID, domain.RewardLaunchesSeries, DailyGrant(act.ActiveDays))
	}

	if act.LastLoginDate != nil && now.Sub(*act.LastLoginDate) >= 2*day {
		act.ActiveDays = 0
		t := now
		act.LastDailyRewardDate = &t
	}
	return nil
}
