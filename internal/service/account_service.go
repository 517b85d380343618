package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/economy"
	"clicker_webapp/internal/logger"
	"clicker_webapp/internal/repository"
	"clicker_webapp/internal/telegram"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthResult is returned by every session entry point.
type AuthResult struct {
	Tokens      TokenPair      `json:"tokens"`
	Player      *domain.Player `json:"player"`
	Registered  bool           `json:"registered"`
	DailyReward *domain.Reward `json:"daily_reward,omitempty"`
}

// AccountService handles registration and sessions.
type AccountService struct {
	db       *pgxpool.Pool
	players  *repository.PlayerRepository
	rewards  *repository.RewardRepository
	economy  *EconomyService
	tokens   *TokenIssuer
	audit    *AuditService
	botToken string
	maxAge   time.Duration // init data freshness window
	now      func() time.Time
}

func NewAccountService(
	db *pgxpool.Pool,
	players *repository.PlayerRepository,
	economySvc *EconomyService,
	tokens *TokenIssuer,
	audit *AuditService,
	botToken string,
) *AccountService {
	return &AccountService{
		db:       db,
		players:  players,
		rewards:  repository.NewRewardRepository(db),
		economy:  economySvc,
		tokens:   tokens,
		audit:    audit,
		botToken: botToken,
		maxAge:   time.Hour,
		now:      time.Now,
	}
}

// Authenticate validates Mini App init data, registers the user on first
// sight and starts a session.
func (s *AccountService) Authenticate(ctx context.Context, initData string, meta RequestMeta) (*AuthResult, error) {
	data, err := telegram.ValidateInitData(initData, s.botToken, s.maxAge, s.now())
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}

	registered := true
	_, err = s.Register(ctx, domain.Registration{
		ID:           data.User.ID,
		Username:     data.User.Username,
		FirstName:    data.User.FirstName,
		Country:      data.User.Country(),
		ReferralCode: telegram.ReferralCode(data.StartParam),
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		registered = false
	case err != nil:
		return nil, err
	}

	res, err := s.startSession(ctx, data.User.ID)
	if err != nil {
		return nil, err
	}
	res.Registered = registered
	s.audit.LogLogin(ctx, data.User.ID, domain.AuditActionLogin, meta, registered)
	return res, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string, meta RequestMeta) (*AuthResult, error) {
	userID, err := s.tokens.Parse(refreshToken, TokenRefresh)
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}

	res, err := s.startSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.audit.LogLogin(ctx, userID, domain.AuditActionRefresh, meta, false)
	return res, nil
}

func (s *AccountService) startSession(ctx context.Context, userID int64) (*AuthResult, error) {
	p, daily, err := s.economy.touch(ctx, userID)
	if err != nil {
		return nil, err
	}
	pair, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &AuthResult{Tokens: pair, Player: p, DailyReward: daily}, nil
}

// IssueTokens creates a session for an existing user without init data.
func (s *AccountService) IssueTokens(userID int64) (TokenPair, error) {
	return s.tokens.Issue(userID)
}

// Register creates the user, stats and activity rows in one transaction and
// credits the inviting user. Unknown referral codes are ignored.
func (s *AccountService) Register(ctx context.Context, reg domain.Registration) (*domain.Player, error) {
	rank, ok := s.economy.Engine().Ladder().Get(domain.InitialRankID)
	if !ok {
		return nil, errors.New("rank ladder has no initial rank")
	}

	now := s.now()
	p := &domain.Player{
		User: domain.User{
			ID:        reg.ID,
			Username:  reg.Username,
			FirstName: reg.FirstName,
			Country:   reg.Country,
			RankID:    rank.ID,
		},
		Rank:     rank,
		Stats:    domain.Stats{Coins: domain.InitialCoins, Energy: float64(rank.MaxEnergy)},
		Activity: domain.Activity{LastSyncEnergy: now},
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var referrerID int64
	if reg.ReferralCode != "" {
		referrerID, err = s.players.FindIDByReferralCode(ctx, tx, reg.ReferralCode)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			referrerID = 0
		case err != nil:
			return nil, err
		default:
			p.User.ReferrerID = &referrerID
		}
	}

	if err := s.players.Create(ctx, tx, p); err != nil {
		return nil, err
	}

	var milestone *domain.Reward
	invited := 0
	if p.User.ReferrerID != nil {
		invited, err = s.players.IncrementInvitedFriends(ctx, tx, referrerID)
		if err != nil {
			return nil, err
		}
		if g, ok := economy.InviteMilestone(invited); ok {
			milestone = domain.NewReward(referrerID, domain.RewardInviteFriends, g)
			if err := s.rewards.Create(ctx, tx, milestone); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	logger.WithContext(ctx).Info("user registered", "user_id", reg.ID, "referrer_id", referrerID)
	s.audit.Log(ctx, reg.ID, domain.AuditActionRegister, domain.AuditCategoryAuth, map[string]interface{}{
		"country": reg.Country,
	})
	if p.User.ReferrerID != nil {
		s.audit.Log(ctx, referrerID, domain.AuditActionReferralApplied, domain.AuditCategoryReferral, map[string]interface{}{
			"referred_id":     reg.ID,
			"invited_friends": invited,
		})
	}
	if milestone != nil {
		s.audit.LogReward(ctx, referrerID, domain.AuditActionReferralMilestone, domain.AuditCategoryReferral, milestone)
	}
	return p, nil
}
