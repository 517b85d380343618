package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"` // telegram user id
	Username     string    `db:"username" json:"username"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Country      string    `db:"country" json:"country"`
	RankID       int       `db:"rank_id" json:"rank_id"`
	ReferrerID   *int64    `db:"referrer_id" json:"referrer_id,omitempty"`
	ReferralCode string    `db:"referral_code" json:"referral_code"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Stats is the player's game balance.
type Stats struct {
	Coins           int64   `db:"coins" json:"coins"`
	Energy          float64 `db:"energy" json:"energy"`
	EarnedWeekCoins int64   `db:"earned_week_coins" json:"earned_week_coins"`
	InvitedFriends  int     `db:"invited_friends" json:"invited_friends"`
	Inspirations    int     `db:"inspirations" json:"inspirations"`
	Replenishments  int     `db:"replenishments" json:"replenishments"`
}

// Activity holds the timestamps that cooldowns are lazily computed from.
type Activity struct {
	LastLoginDate       *time.Time `db:"last_login_date" json:"last_login_date,omitempty"`
	LastDailyRewardDate *time.Time `db:"last_daily_reward_date" json:"last_daily_reward_date,omitempty"`
	ActiveDays          int        `db:"active_days" json:"active_days"`
	LastSyncEnergy      time.Time  `db:"last_sync_energy" json:"last_sync_energy"`
	NextInspirationAt   time.Time  `db:"next_inspiration_at" json:"next_inspiration_at"`
	NextMiningAt        time.Time  `db:"next_mining_at" json:"next_mining_at"`
	IsActiveMining      bool       `db:"is_active_mining" json:"is_active_mining"`
}

// Player is one user's full game-state snapshot, loaded and saved as a unit.
type Player struct {
	User     User     `json:"user"`
	Rank     Rank     `json:"rank"`
	Stats    Stats    `json:"stats"`
	Activity Activity `json:"activity"`
}

// Registration carries what the identity provider knows about a new user.
type Registration struct {
	ID           int64
	Username     string
	FirstName    string
	Country      string
	ReferralCode string // code of the inviting user, may be empty
}

// Starting values for a new player
const (
	InitialCoins  = 1000
	InitialRankID = 1
)
