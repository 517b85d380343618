package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"clicker_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditFilter selects audit entries; zero fields match everything.
type AuditFilter struct {
	UserID   int64
	Category string
	Limit    int
}

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an entry. q may be the pool or a transaction so the entry
// commits together with the change it describes.
func (r *AuditRepository) Create(ctx context.Context, q Querier, entry *domain.AuditLog) error {
	if q == nil {
		q = r.db
	}
	details := entry.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}

	return q.QueryRow(ctx,
		`INSERT INTO audit_logs (user_id, action, category, details, ip, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		entry.UserID, entry.Action, entry.Category, detailsJSON, entry.IP, entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// List returns matching entries, newest first.
func (r *AuditRepository) List(ctx context.Context, f AuditFilter) ([]*domain.AuditLog, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, action, category, details, ip, user_agent, created_at
		 FROM audit_logs
		 WHERE ($1::bigint = 0 OR user_id = $1)
		   AND ($2::text = '' OR category = $2)
		 ORDER BY created_at DESC
		 LIMIT $3`,
		f.UserID, f.Category, f.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	logs := []*domain.AuditLog{}
	for rows.Next() {
		var entry domain.AuditLog
		var detailsJSON []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.Category, &detailsJSON, &entry.IP, &entry.UserAgent, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
			entry.Details = map[string]interface{}{}
		}
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}
