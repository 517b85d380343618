package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth     = "auth"
	AuditCategoryReferral = "referral"
	AuditCategoryEconomy  = "economy"
	AuditCategoryTask     = "task"
)

// Audit actions
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"
	AuditActionRefresh  = "refresh"

	AuditActionReferralApplied   = "referral_applied"
	AuditActionReferralMilestone = "referral_milestone"
	AuditActionReferralPayout    = "referral_payout"

	AuditActionPromote     = "promote"
	AuditActionRewardClaim = "reward_claim"
	AuditActionDailyReward = "daily_reward"

	AuditActionTaskStart    = "task_start"
	AuditActionTaskComplete = "task_complete"
)
