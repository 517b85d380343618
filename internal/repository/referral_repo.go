package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Friend is a user invited by someone.
type Friend struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	RankID    int       `json:"rank_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ReferralStats struct {
	InvitedFriends int   `json:"invited_friends"`
	PendingMining  int64 `json:"pending_mining"` // unclaimed REFERRAL_MINING share
}

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// GenerateReferralCode generates a unique referral code
func GenerateReferralCode() string {
	bytes := make([]byte, 6)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// ListInvited returns users who registered with userID's code, newest first.
func (r *ReferralRepository) ListInvited(ctx context.Context, userID int64, limit int) ([]Friend, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, username, first_name, rank_id, created_at
		 FROM users
		 WHERE referrer_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := []Friend{}
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.ID, &f.Username, &f.FirstName, &f.RankID, &f.CreatedAt); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

// GetStats returns the invite counter and the accumulated mining share.
func (r *ReferralRepository) GetStats(ctx context.Context, userID int64) (*ReferralStats, error) {
	stats := &ReferralStats{}
	err := r.db.QueryRow(ctx,
		`SELECT s.invited_friends,
		        COALESCE((SELECT amount FROM rewards
		                  WHERE user_id = s.user_id AND type_name = 'REFERRAL_MINING'), 0)
		 FROM stats s
		 WHERE s.user_id = $1`,
		userID,
	).Scan(&stats.InvitedFriends, &stats.PendingMining)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
