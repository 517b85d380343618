package service

import (
	"context"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/logger"
	"clicker_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RequestMeta is client info attached to audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuditService handles audit logging
type AuditService struct {
	repo *repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{
		repo: repository.NewAuditRepository(db),
	}
}

// Log creates a new audit log entry. Failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	s.LogWithRequest(ctx, userID, action, category, RequestMeta{}, details)
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID int64, action, category string, meta RequestMeta, details map[string]interface{}) {
	if s == nil {
		return
	}
	log := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}

	if err := s.repo.Create(ctx, nil, log); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogLogin logs a session start (auth or refresh)
func (s *AuditService) LogLogin(ctx context.Context, userID int64, action string, meta RequestMeta, registered bool) {
	s.LogWithRequest(ctx, userID, action, domain.AuditCategoryAuth, meta, map[string]interface{}{
		"registered": registered,
	})
}

// LogReward logs a reward row being created or claimed
func (s *AuditService) LogReward(ctx context.Context, userID int64, action, category string, r *domain.Reward) {
	s.Log(ctx, userID, action, category, map[string]interface{}{
		"reward_id":      r.ID,
		"type":           r.Type,
		"amount":         r.Amount,
		"inspirations":   r.Inspirations,
		"replenishments": r.Replenishments,
	})
}

// GetUserAuditLogs returns audit logs for a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, repository.AuditFilter{UserID: userID, Limit: limit})
}

// GetLogsByCategory returns logs by category across all users
func (s *AuditService) GetLogsByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, repository.AuditFilter{Category: category, Limit: limit})
}
