package handlers

import (
	"context"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/economy"
	"clicker_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// Economy is the game-state surface used by the user, mining and reward routes.
type Economy interface {
	Profile(ctx context.Context, userID int64) (*service.Profile, error)
	SyncClicks(ctx context.Context, userID, clicks int64) (service.ClickResult, error)
	UseInspiration(ctx context.Context, userID, clicks int64) (service.ClickResult, error)
	UseReplenishment(ctx context.Context, userID int64) (*domain.Player, error)
	StartMining(ctx context.Context, userID int64) (economy.MiningSession, error)
	ClaimMining(ctx context.Context, userID int64) (service.MiningClaim, error)
	PromoteRank(ctx context.Context, userID int64) (domain.Rank, error)
	ListRewards(ctx context.Context, userID int64) ([]*domain.Reward, error)
	ClaimReward(ctx context.Context, userID, rewardID int64) (*domain.Reward, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error)
}

type Accounts interface {
	Authenticate(ctx context.Context, initData string, meta service.RequestMeta) (*service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, meta service.RequestMeta) (*service.AuthResult, error)
}

type Tasks interface {
	Available(ctx context.Context, userID int64) ([]service.TaskView, error)
	Start(ctx context.Context, userID, taskID int64) error
	Complete(ctx context.Context, userID, taskID int64) (*domain.Reward, error)
}

type Handler struct {
	Economy  Economy
	Accounts Accounts
	Tasks    Tasks
}

func NewHandler(economy Economy, accounts Accounts, tasks Tasks) *Handler {
	return &Handler{Economy: economy, Accounts: accounts, Tasks: tasks}
}

// getUserID reads the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
