package repository

import (
	"context"
	"errors"
	"fmt"

	"clicker_webapp/internal/domain"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const playerColumns = `
	u.id, u.username, u.first_name, u.country, u.rank_id, u.referrer_id, u.referral_code, u.created_at,
	r.id, r.name, r.league, r.press_force, r.max_energy, r.energy_per_sec, r.price,
	s.coins, s.energy, s.earned_week_coins, s.invited_friends, s.inspirations, s.replenishments,
	a.last_login_date, a.last_daily_reward_date, a.active_days, a.last_sync_energy,
	a.next_inspiration_at, a.next_mining_at, a.is_active_mining`

const playerFrom = `
	FROM users u
	JOIN ranks r ON r.id = u.rank_id
	JOIN stats s ON s.user_id = u.id
	JOIN activity a ON a.user_id = u.id`

// PlayerRepository loads and stores the user, stats and activity rows as one unit.
type PlayerRepository struct {
	db *pgxpool.Pool
	// referral code -> user id; codes never change once issued
	codes *lru.Cache
}

func NewPlayerRepository(db *pgxpool.Pool, codeCacheSize int) *PlayerRepository {
	if codeCacheSize <= 0 {
		codeCacheSize = 1024
	}
	cache, _ := lru.New(codeCacheSize)
	return &PlayerRepository{db: db, codes: cache}
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.User.ID, &p.User.Username, &p.User.FirstName, &p.User.Country, &p.User.RankID,
		&p.User.ReferrerID, &p.User.ReferralCode, &p.User.CreatedAt,
		&p.Rank.ID, &p.Rank.Name, &p.Rank.League, &p.Rank.PressForce, &p.Rank.MaxEnergy,
		&p.Rank.EnergyPerSecond, &p.Rank.Price,
		&p.Stats.Coins, &p.Stats.Energy, &p.Stats.EarnedWeekCoins, &p.Stats.InvitedFriends,
		&p.Stats.Inspirations, &p.Stats.Replenishments,
		&p.Activity.LastLoginDate, &p.Activity.LastDailyRewardDate, &p.Activity.ActiveDays,
		&p.Activity.LastSyncEnergy, &p.Activity.NextInspirationAt, &p.Activity.NextMiningAt,
		&p.Activity.IsActiveMining,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get reads a player without locking.
func (r *PlayerRepository) Get(ctx context.Context, userID int64) (*domain.Player, error) {
	return scanPlayer(r.db.QueryRow(ctx, `SELECT `+playerColumns+playerFrom+` WHERE u.id = $1`, userID))
}

// GetForUpdate reads a player and locks its user, stats and activity rows
// until tx ends.
func (r *PlayerRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Player, error) {
	return scanPlayer(tx.QueryRow(ctx,
		`SELECT `+playerColumns+playerFrom+` WHERE u.id = $1 FOR UPDATE OF u, s, a`, userID))
}

// Save writes back every mutable column of the snapshot.
func (r *PlayerRepository) Save(ctx context.Context, tx pgx.Tx, p *domain.Player) error {
	if _, err := tx.Exec(ctx,
		`UPDATE users SET rank_id = $1 WHERE id = $2`,
		p.User.RankID, p.User.ID,
	); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE stats
		 SET coins = $1, energy = $2, earned_week_coins = $3, invited_friends = $4,
		     inspirations = $5, replenishments = $6
		 WHERE user_id = $7`,
		p.Stats.Coins, p.Stats.Energy, p.Stats.EarnedWeekCoins, p.Stats.InvitedFriends,
		p.Stats.Inspirations, p.Stats.Replenishments, p.User.ID,
	); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}

	a := p.Activity
	if _, err := tx.Exec(ctx,
		`UPDATE activity
		 SET last_login_date = $1, last_daily_reward_date = $2, active_days = $3,
		     last_sync_energy = $4, next_inspiration_at = $5, next_mining_at = $6,
		     is_active_mining = $7
		 WHERE user_id = $8`,
		a.LastLoginDate, a.LastDailyRewardDate, a.ActiveDays, a.LastSyncEnergy,
		a.NextInspirationAt, a.NextMiningAt, a.IsActiveMining, p.User.ID,
	); err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

// Create inserts the user, stats and activity rows of a new player. A fresh
// referral code is generated when the one on p collides with another user.
func (r *PlayerRepository) Create(ctx context.Context, tx pgx.Tx, p *domain.Player) error {
	u := &p.User
	if u.ReferralCode == "" {
		u.ReferralCode = GenerateReferralCode()
	}

	inserted := false
	for i := 0; i < 5; i++ { // Try up to 5 times in case of collision
		tag, err := tx.Exec(ctx,
			`INSERT INTO users (id, username, first_name, country, rank_id, referrer_id, referral_code)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT DO NOTHING`,
			u.ID, u.Username, u.FirstName, u.Country, u.RankID, u.ReferrerID, u.ReferralCode,
		)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if tag.RowsAffected() == 1 {
			inserted = true
			break
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, u.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyRegistered
		}
		u.ReferralCode = GenerateReferralCode()
	}
	if !inserted {
		return errors.New("could not allocate a unique referral code")
	}

	if err := tx.QueryRow(ctx, `SELECT created_at FROM users WHERE id = $1`, u.ID).Scan(&u.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO stats (user_id, coins, energy, inspirations, replenishments)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, p.Stats.Coins, p.Stats.Energy, p.Stats.Inspirations, p.Stats.Replenishments,
	); err != nil {
		return fmt.Errorf("insert stats: %w", err)
	}

	a := p.Activity
	if _, err := tx.Exec(ctx,
		`INSERT INTO activity (user_id, last_sync_energy, next_inspiration_at, next_mining_at)
		 VALUES ($1, $2, $3, $4)`,
		u.ID, a.LastSyncEnergy, a.NextInspirationAt, a.NextMiningAt,
	); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// FindIDByReferralCode resolves a referral code to its owner.
func (r *PlayerRepository) FindIDByReferralCode(ctx context.Context, q Querier, code string) (int64, error) {
	if v, ok := r.codes.Get(code); ok {
		return v.(int64), nil
	}

	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE referral_code = $1`, code).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}

	r.codes.Add(code, id)
	return id, nil
}

// IncrementInvitedFriends bumps the counter and returns its new value.
func (r *PlayerRepository) IncrementInvitedFriends(ctx context.Context, q Querier, userID int64) (int, error) {
	var count int
	err := q.QueryRow(ctx,
		`UPDATE stats SET invited_friends = invited_friends + 1 WHERE user_id = $1 RETURNING invited_friends`,
		userID,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	return count, err
}

// GetReferrerID returns who invited userID, or nil.
func (r *PlayerRepository) GetReferrerID(ctx context.Context, userID int64) (*int64, error) {
	var referrerID *int64
	err := r.db.QueryRow(ctx, `SELECT referrer_id FROM users WHERE id = $1`, userID).Scan(&referrerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return referrerID, err
}

// GetReferralCode returns the user's own invite code.
func (r *PlayerRepository) GetReferralCode(ctx context.Context, userID int64) (string, error) {
	var code string
	err := r.db.QueryRow(ctx, `SELECT referral_code FROM users WHERE id = $1`, userID).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrUserNotFound
	}
	return code, err
}
