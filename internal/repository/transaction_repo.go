package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"clicker_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository is the append-only coin ledger. Rows are written in
// the same transaction as the balance change they record.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Append(ctx context.Context, q Querier, entry *domain.Transaction) error {
	meta := entry.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode ledger meta: %w", err)
	}

	return q.QueryRow(ctx,
		`INSERT INTO transactions (user_id, type, amount, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		entry.UserID, entry.Type, entry.Amount, metaJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// ListByUser returns the newest ledger rows of userID.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, meta, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTransaction)
}

func scanTransaction(row pgx.CollectableRow) (*domain.Transaction, error) {
	var (
		entry    domain.Transaction
		metaJSON []byte
	)
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.Type, &entry.Amount, &metaJSON, &entry.CreatedAt); err != nil {
		return nil, err
	}
	if len(metaJSON) > 0 {
		_ = json.Unmarshal(metaJSON, &entry.Meta)
	}
	return &entry, nil
}
