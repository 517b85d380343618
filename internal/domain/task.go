package domain

import "time"

// ConditionType is what the user has to do to complete a task.
type ConditionType string

const (
	ConditionVisitLink ConditionType = "VISIT_LINK"
	ConditionTgChannel ConditionType = "TG_CHANNEL"
)

// VisibilityType decides who sees a task.
type VisibilityType string

const (
	VisibilityAlways VisibilityType = "ALWAYS"
	VisibilityRank   VisibilityType = "RANK"
)

type Task struct {
	ID          int64      `db:"id" json:"id"`
	Description string     `db:"description" json:"description"`
	Reward      Grant      `json:"reward"`
	Condition   Condition  `json:"condition"`
	Visibility  Visibility `json:"visibility"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type Condition struct {
	Type    ConditionType `db:"condition_type" json:"type" toml:"type"`
	URL     string        `db:"condition_url" json:"url,omitempty" toml:"url"`
	Channel string        `db:"condition_channel" json:"channel,omitempty" toml:"channel"`
}

type Visibility struct {
	Type           VisibilityType `db:"visibility_type" json:"type" toml:"type"`
	RequiredRankID int            `db:"required_rank_id" json:"required_rank_id,omitempty" toml:"required_rank_id"`
}

// UserTask is a task the user has taken.
type UserTask struct {
	UserID      int64      `db:"user_id" json:"user_id"`
	TaskID      int64      `db:"task_id" json:"task_id"`
	StartedAt   time.Time  `db:"started_at" json:"started_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// IsCompleted reports whether the task reward was already issued.
func (ut *UserTask) IsCompleted() bool {
	return ut.CompletedAt != nil
}
