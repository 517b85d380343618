package repository

import (
	"context"
	"errors"

	"clicker_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rewardColumns = `id, user_id, type_name, amount, inspirations, replenishments, created_at`

type RewardRepository struct {
	db *pgxpool.Pool
}

func NewRewardRepository(db *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{db: db}
}

func scanReward(row pgx.Row) (*domain.Reward, error) {
	var rw domain.Reward
	if err := row.Scan(&rw.ID, &rw.UserID, &rw.Type, &rw.Amount, &rw.Inspirations, &rw.Replenishments, &rw.CreatedAt); err != nil {
		return nil, err
	}
	return &rw, nil
}

// Create inserts an unclaimed reward.
func (r *RewardRepository) Create(ctx context.Context, q Querier, rw *domain.Reward) error {
	return q.QueryRow(ctx,
		`INSERT INTO rewards (user_id, type_name, amount, inspirations, replenishments)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		rw.UserID, rw.Type, rw.Amount, rw.Inspirations, rw.Replenishments,
	).Scan(&rw.ID, &rw.CreatedAt)
}

// AddReferralMining adds amount to the user's single unclaimed referral
// mining reward, creating it if needed.
func (r *RewardRepository) AddReferralMining(ctx context.Context, userID, amount int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO rewards (user_id, type_name, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, type_name) WHERE type_name = 'REFERRAL_MINING'
		 DO UPDATE SET amount = rewards.amount + EXCLUDED.amount`,
		userID, domain.RewardReferralMining, amount,
	)
	return err
}

// ListByUser returns unclaimed rewards, oldest first.
func (r *RewardRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Reward, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+rewardColumns+` FROM rewards WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.Reward{}
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rw)
	}
	return res, rows.Err()
}

// Take deletes and returns the reward if it belongs to userID. Each reward
// can be taken at most once.
func (r *RewardRepository) Take(ctx context.Context, tx pgx.Tx, userID, rewardID int64) (*domain.Reward, error) {
	rw, err := scanReward(tx.QueryRow(ctx,
		`DELETE FROM rewards WHERE id = $1 AND user_id = $2 RETURNING `+rewardColumns,
		rewardID, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRewardNotFound
	}
	return rw, err
}
