package repository

import (
	"context"

	"clicker_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RankRepository struct {
	db *pgxpool.Pool
}

func NewRankRepository(db *pgxpool.Pool) *RankRepository {
	return &RankRepository{db: db}
}

// List returns the stored ladder ordered by id.
func (r *RankRepository) List(ctx context.Context) (domain.RankLadder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, league, press_force, max_energy, energy_per_sec, price
		 FROM ranks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ladder domain.RankLadder
	for rows.Next() {
		var rk domain.Rank
		if err := rows.Scan(&rk.ID, &rk.Name, &rk.League, &rk.PressForce, &rk.MaxEnergy, &rk.EnergyPerSecond, &rk.Price); err != nil {
			return nil, err
		}
		ladder = append(ladder, rk)
	}
	return ladder, rows.Err()
}

// Seed upserts every rank of the ladder in one transaction.
func (r *RankRepository) Seed(ctx context.Context, ladder domain.RankLadder) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rk := range ladder {
		if _, err := tx.Exec(ctx,
			`INSERT INTO ranks (id, name, league, press_force, max_energy, energy_per_sec, price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name, league = EXCLUDED.league, press_force = EXCLUDED.press_force,
			   max_energy = EXCLUDED.max_energy, energy_per_sec = EXCLUDED.energy_per_sec,
			   price = EXCLUDED.price`,
			rk.ID, rk.Name, rk.League, rk.PressForce, rk.MaxEnergy, rk.EnergyPerSecond, rk.Price,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
