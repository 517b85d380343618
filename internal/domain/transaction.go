package domain

import "time"

// Transaction is one signed coin movement in the economy ledger.
type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Type      TransactionType        `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// TransactionType is the source of a coin movement.
type TransactionType string

const (
	TxClicks      TransactionType = "clicks"
	TxInspiration TransactionType = "inspiration"
	TxMining      TransactionType = "mining"
	TxPromotion   TransactionType = "promotion"
	TxRewardClaim TransactionType = "reward_claim"
)
