package domain

import "time"

// RewardType is where a reward came from.
type RewardType string

const (
	RewardLaunchesSeries RewardType = "LAUNCHES_SERIES"
	RewardInviteFriends  RewardType = "INVITE_FRIENDS"
	RewardReferralMining RewardType = "REFERRAL_MINING"
	RewardTask           RewardType = "TASK"
	RewardLeaderboard    RewardType = "LEADERBOARD"
)

// Reward is an unclaimed grant. Claiming applies it to Stats and deletes the row.
type Reward struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	Type           RewardType `db:"type_name" json:"type_name"`
	Amount         int64      `db:"amount" json:"amount"`
	Inspirations   int        `db:"inspirations" json:"inspirations"`
	Replenishments int        `db:"replenishments" json:"replenishments"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Grant is the payload part of a reward, shared by the reward tables and task catalog.
type Grant struct {
	Amount         int64 `json:"amount" toml:"amount"`
	Inspirations   int   `json:"inspirations" toml:"inspirations"`
	Replenishments int   `json:"replenishments" toml:"replenishments"`
}

// NewReward builds an unsaved reward row for userID.
func NewReward(userID int64, t RewardType, g Grant) *Reward {
	return &Reward{
		UserID:         userID,
		Type:           t,
		Amount:         g.Amount,
		Inspirations:   g.Inspirations,
		Replenishments: g.Replenishments,
	}
}
