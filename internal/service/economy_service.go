package service

import (
	"context"
	"fmt"
	"time"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/economy"
	"clicker_webapp/internal/logger"
	"clicker_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// ClickResult is the outcome of a coin-producing click batch.
type ClickResult struct {
	CoinsDelta int64   `json:"coins_delta"`
	Coins      int64   `json:"coins"`
	Energy     float64 `json:"energy"`
}

type MiningClaim struct {
	CoinsGranted int64 `json:"coins_granted"`
	Coins        int64 `json:"coins"`
}

// Profile is everything the client shows on its main screen.
type Profile struct {
	Player       *domain.Player            `json:"player"`
	NextRank     *domain.Rank              `json:"next_rank,omitempty"`
	Rewards      []*domain.Reward          `json:"rewards"`
	Referral     *repository.ReferralStats `json:"referral"`
	DailyReward  *domain.Reward            `json:"daily_reward,omitempty"`
	ReferralCode string                    `json:"referral_code"`
}

// EconomyService runs engine rules inside a per-user transaction: load the
// player row with FOR UPDATE, apply, save, commit. A rule error returns
// before any write and the deferred rollback discards the transaction.
type EconomyService struct {
	db           *pgxpool.Pool
	engine       *economy.Engine
	players      *repository.PlayerRepository
	rewards      *repository.RewardRepository
	referrals    *repository.ReferralRepository
	transactions *repository.TransactionRepository
	audit        *AuditService
	now          func() time.Time
}

func NewEconomyService(
	db *pgxpool.Pool,
	engine *economy.Engine,
	players *repository.PlayerRepository,
	audit *AuditService,
) *EconomyService {
	return &EconomyService{
		db:           db,
		engine:       engine,
		players:      players,
		rewards:      repository.NewRewardRepository(db),
		referrals:    repository.NewReferralRepository(db),
		transactions: repository.NewTransactionRepository(db),
		audit:        audit,
		now:          time.Now,
	}
}

func (s *EconomyService) Engine() *economy.Engine {
	return s.engine
}

func (s *EconomyService) withPlayer(ctx context.Context, userID int64, fn func(tx pgx.Tx, p *domain.Player, now time.Time) error) (*domain.Player, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := s.players.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := fn(tx, p, s.now()); err != nil {
		return nil, err
	}

	if err := s.players.Save(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func (s *EconomyService) record(ctx context.Context, tx pgx.Tx, userID int64, typ domain.TransactionType, amount int64, meta map[string]interface{}) error {
	if amount == 0 {
		return nil
	}
	return s.transactions.Append(ctx, tx, &domain.Transaction{
		UserID: userID,
		Type:   typ,
		Amount: amount,
		Meta:   meta,
	})
}

// SyncEnergy applies regeneration and returns the fresh snapshot.
func (s *EconomyService) SyncEnergy(ctx context.Context, userID int64) (*domain.Player, error) {
	return s.withPlayer(ctx, userID, func(_ pgx.Tx, p *domain.Player, now time.Time) error {
		s.engine.SyncEnergy(p, now)
		return nil
	})
}

// SyncClicks converts a batch of client clicks into coins.
func (s *EconomyService) SyncClicks(ctx context.Context, userID, clicks int64) (res ClickResult, err error) {
	defer func() { observe("sync_clicks", err) }()

	p, err := s.withPlayer(ctx, userID, func(tx pgx.Tx, p *domain.Player, now time.Time) error {
		x, err := s.engine.SyncClicks(p, clicks, now)
		if err != nil {
			return err
		}
		res.CoinsDelta = x
		return s.record(ctx, tx, userID, domain.TxClicks, x, map[string]interface{}{"clicks": clicks})
	})
	if err != nil {
		return ClickResult{}, err
	}

	grant(domain.TxClicks, res.CoinsDelta)
	res.Coins, res.Energy = p.Stats.Coins, p.Stats.Energy
	return res, nil
}

// UseInspiration spends an inspiration charge on an amplified click batch.
func (s *EconomyService) UseInspiration(ctx context.Context, userID, clicks int64) (res ClickResult, err error) {
	defer func() { observe("inspiration", err) }()

	p, err := s.withPlayer(ctx, userID, func(tx pgx.Tx, p *domain.Player, now time.Time) error {
		x, err := s.engine.UseInspiration(p, clicks, now)
		if err != nil {
			return err
		}
		res.CoinsDelta = x
		return s.record(ctx, tx, userID, domain.TxInspiration, x, map[string]interface{}{"clicks": clicks})
	})
	if err != nil {
		return ClickResult{}, err
	}

	grant(domain.TxInspiration, res.CoinsDelta)
	res.Coins, res.Energy = p.Stats.Coins, p.Stats.Energy
	return res, nil
}

// UseReplenishment refills energy with a replenishment charge.
func (s *EconomyService) UseReplenishment(ctx context.Context, userID int64) (p *domain.Player, err error) {
	defer func() { observe("replenishment", err) }()

	return s.withPlayer(ctx, userID, func(_ pgx.Tx, p *domain.Player, now time.Time) error {
		return s.engine.UseReplenishment(p, now)
	})
}

func (s *EconomyService) StartMining(ctx context.Context, userID int64) (session economy.MiningSession, err error) {
	defer func() { observe("mining_start", err) }()

	_, err = s.withPlayer(ctx, userID, func(_ pgx.Tx, p *domain.Player, now time.Time) error {
		var err error
		session, err = s.engine.StartMining(p, now)
		return err
	})
	if err != nil {
		return economy.MiningSession{}, err
	}
	return session, nil
}

// ClaimMining pays a finished session, then shares it with the referral
// chain. The share is paid after commit; its failures never undo the claim.
func (s *EconomyService) ClaimMining(ctx context.Context, userID int64) (res MiningClaim, err error) {
	defer func() { observe("mining_claim", err) }()

	p, err := s.withPlayer(ctx, userID, func(tx pgx.Tx, p *domain.Player, now time.Time) error {
		yield, err := s.engine.ClaimMining(p, now)
		if err != nil {
			return err
		}
		res.CoinsGranted = yield
		return s.record(ctx, tx, userID, domain.TxMining, yield, nil)
	})
	if err != nil {
		return MiningClaim{}, err
	}

	grant(domain.TxMining, res.CoinsGranted)
	res.Coins = p.Stats.Coins
	s.payReferrers(ctx, userID, p.User.ReferrerID, res.CoinsGranted)
	return res, nil
}

func (s *EconomyService) payReferrers(ctx context.Context, minerID int64, referrerID *int64, yield int64) {
	log := logger.WithContext(ctx).With("component", "referral_payout", "miner_id", minerID)

	shares := economy.MiningShares(yield)
	for level, share := range shares {
		if referrerID == nil {
			return
		}
		id := *referrerID

		if share > 0 {
			if err := s.rewards.AddReferralMining(ctx, id, share); err != nil {
				log.Error("referral payout failed", "referrer_id", id, "level", level+1, "error", err)
				return
			}
			s.audit.Log(ctx, id, domain.AuditActionReferralPayout, domain.AuditCategoryReferral, map[string]interface{}{
				"from_user_id": minerID,
				"level":        level + 1,
				"amount":       share,
			})
		}

		if level+1 == len(shares) {
			return
		}
		next, err := s.players.GetReferrerID(ctx, id)
		if err != nil {
			log.Error("referral chain lookup failed", "referrer_id", id, "error", err)
			return
		}
		referrerID = next
	}
}

// PromoteRank buys the next rank.
func (s *EconomyService) PromoteRank(ctx context.Context, userID int64) (rank domain.Rank, err error) {
	defer func() { observe("promote", err) }()

	var from int
	_, err = s.withPlayer(ctx, userID, func(tx pgx.Tx, p *domain.Player, _ time.Time) error {
		from = p.Rank.ID
		var err error
		rank, err = s.engine.Promote(p)
		if err != nil {
			return err
		}
		return s.record(ctx, tx, userID, domain.TxPromotion, -rank.Price, map[string]interface{}{"rank_id": rank.ID})
	})
	if err != nil {
		return domain.Rank{}, err
	}

	s.audit.Log(ctx, userID, domain.AuditActionPromote, domain.AuditCategoryEconomy, map[string]interface{}{
		"from_rank_id": from,
		"to_rank_id":   rank.ID,
		"price":        rank.Price,
	})
	return rank, nil
}

// touch runs the session-start rules: daily streak and energy sync.
func (s *EconomyService) touch(ctx context.Context, userID int64) (*domain.Player, *domain.Reward, error) {
	var reward *domain.Reward
	p, err := s.withPlayer(ctx, userID, func(tx pgx.Tx, p *domain.Player, now time.Time) error {
		s.engine.SyncEnergy(p, now)
		reward = s.engine.DailyLogin(p, now)
		if reward == nil {
			return nil
		}
		return s.rewards.Create(ctx, tx, reward)
	})
	if err != nil {
		return nil, nil, err
	}

	if reward != nil {
		s.audit.LogReward(ctx, userID, domain.AuditActionDailyReward, domain.AuditCategoryEconomy, reward)
	}
	return p, reward, nil
}

// ClaimDailyLogin records a session start and returns the streak reward, if
// one was granted.
func (s *EconomyService) ClaimDailyLogin(ctx context.Context, userID int64) (r *domain.Reward, err error) {
	defer func() { observe("daily_login", err) }()

	_, r, err = s.touch(ctx, userID)
	return r, err
}

// ClaimReward applies an unclaimed reward and deletes it.
func (s *EconomyService) ClaimReward(ctx context.Context, userID, rewardID int64) (r *domain.Reward, err error) {
	defer func() { observe("reward_claim", err) }()

	_, err = s.withPlayer(ctx, userID, func(tx pgx.Tx, p *domain.Player, _ time.Time) error {
		var err error
		r, err = s.rewards.Take(ctx, tx, userID, rewardID)
		if err != nil {
			return err
		}
		s.engine.ApplyReward(p, r)
		return s.record(ctx, tx, userID, domain.TxRewardClaim, r.Amount, map[string]interface{}{
			"reward_id": r.ID,
			"type":      r.Type,
		})
	})
	if err != nil {
		return nil, err
	}

	grant(domain.TxRewardClaim, r.Amount)
	s.audit.LogReward(ctx, userID, domain.AuditActionRewardClaim, domain.AuditCategoryEconomy, r)
	return r, nil
}

func (s *EconomyService) ListRewards(ctx context.Context, userID int64) ([]*domain.Reward, error) {
	return s.rewards.ListByUser(ctx, userID)
}

func (s *EconomyService) ListTransactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID, limit)
}

// Profile runs the session-start rules and then loads the side panels
// concurrently.
func (s *EconomyService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	p, daily, err := s.touch(ctx, userID)
	if err != nil {
		return nil, err
	}

	prof := &Profile{Player: p, DailyReward: daily, ReferralCode: p.User.ReferralCode}
	if next, ok := s.engine.Ladder().Next(p.Rank.ID); ok {
		prof.NextRank = &next
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prof.Rewards, err = s.rewards.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		prof.Referral, err = s.referrals.GetStats(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prof, nil
}
