// Package app wires configuration, storage and services together. It is
// shared by the HTTP server and the clickerctl tool.
package app

import (
	"context"
	"fmt"

	"clicker_webapp/internal/catalog"
	"clicker_webapp/internal/config"
	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/economy"
	"clicker_webapp/internal/migrations"
	"clicker_webapp/internal/repository"
	"clicker_webapp/internal/service"
	"clicker_webapp/internal/telegram"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Services struct {
	Engine    *economy.Engine
	Players   *repository.PlayerRepository
	Ranks     *repository.RankRepository
	Audit     *service.AuditService
	Tokens    *service.TokenIssuer
	Economy   *service.EconomyService
	Accounts  *service.AccountService
	Tasks     *service.TaskService
	Referrals *service.ReferralService
}

// Migrate applies pending schema migrations and upserts the rank catalog.
func Migrate(ctx context.Context, db *pgxpool.Pool) (domain.RankLadder, error) {
	if _, err := migrations.Apply(ctx, db); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	ladder, err := catalog.Ranks()
	if err != nil {
		return nil, fmt.Errorf("load rank catalog: %w", err)
	}
	if err := repository.NewRankRepository(db).Seed(ctx, ladder); err != nil {
		return nil, fmt.Errorf("seed ranks: %w", err)
	}
	return ladder, nil
}

// NewServices builds the service layer over ladder. The Telegram channel
// checker is only created when cfg enables it.
func NewServices(cfg *config.Config, db *pgxpool.Pool, ladder domain.RankLadder) (*Services, error) {
	rules := economy.DefaultRules()
	rules.MiningDuration = cfg.MiningDuration
	engine := economy.NewEngine(ladder, rules)

	var channels service.ChannelMembership
	if cfg.ChannelCheckEnabled {
		checker, err := telegram.NewChannelChecker(cfg.BotToken)
		if err != nil {
			return nil, fmt.Errorf("telegram bot api: %w", err)
		}
		channels = checker
	}

	players := repository.NewPlayerRepository(db, cfg.ReferralCacheSize)
	audit := service.NewAuditService(db)
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	economySvc := service.NewEconomyService(db, engine, players, audit)

	return &Services{
		Engine:    engine,
		Players:   players,
		Ranks:     repository.NewRankRepository(db),
		Audit:     audit,
		Tokens:    tokens,
		Economy:   economySvc,
		Accounts:  service.NewAccountService(db, players, economySvc, tokens, audit, cfg.BotToken),
		Tasks:     service.NewTaskService(db, engine, players, channels, audit),
		Referrals: service.NewReferralService(players, repository.NewReferralRepository(db), cfg.BotUsername, cfg.WebAppShortName),
	}, nil
}

// SeedTasks upserts the embedded task catalog.
func (s *Services) SeedTasks(ctx context.Context) (int, error) {
	tasks, err := catalog.Tasks()
	if err != nil {
		return 0, fmt.Errorf("load task catalog: %w", err)
	}
	if err := s.Tasks.Seed(ctx, tasks); err != nil {
		return 0, fmt.Errorf("seed tasks: %w", err)
	}
	return len(tasks), nil
}
