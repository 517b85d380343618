package repository

import (
	"context"
	"errors"
	"time"

	"clicker_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, description, reward_amount, reward_inspirations, reward_replenishments,
	condition_type, condition_url, condition_channel, visibility_type, required_rank_id, created_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Description,
		&t.Reward.Amount, &t.Reward.Inspirations, &t.Reward.Replenishments,
		&t.Condition.Type, &t.Condition.URL, &t.Condition.Channel,
		&t.Visibility.Type, &t.Visibility.RequiredRankID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	return t, err
}

// Upsert inserts the task or refreshes the one with the same description.
func (r *TaskRepository) Upsert(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (description, reward_amount, reward_inspirations, reward_replenishments,
		                    condition_type, condition_url, condition_channel, visibility_type, required_rank_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (description) DO UPDATE SET
		   reward_amount = EXCLUDED.reward_amount,
		   reward_inspirations = EXCLUDED.reward_inspirations,
		   reward_replenishments = EXCLUDED.reward_replenishments,
		   condition_type = EXCLUDED.condition_type,
		   condition_url = EXCLUDED.condition_url,
		   condition_channel = EXCLUDED.condition_channel,
		   visibility_type = EXCLUDED.visibility_type,
		   required_rank_id = EXCLUDED.required_rank_id
		 RETURNING id, created_at`,
		t.Description, t.Reward.Amount, t.Reward.Inspirations, t.Reward.Replenishments,
		t.Condition.Type, t.Condition.URL, t.Condition.Channel,
		t.Visibility.Type, t.Visibility.RequiredRankID,
	).Scan(&t.ID, &t.CreatedAt)
}

// ListUserTasks returns the user's taken tasks keyed by task id.
func (r *TaskRepository) ListUserTasks(ctx context.Context, userID int64) (map[int64]*domain.UserTask, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, task_id, started_at, completed_at FROM user_tasks WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]*domain.UserTask)
	for rows.Next() {
		var ut domain.UserTask
		if err := rows.Scan(&ut.UserID, &ut.TaskID, &ut.StartedAt, &ut.CompletedAt); err != nil {
			return nil, err
		}
		res[ut.TaskID] = &ut
	}
	return res, rows.Err()
}

// Start records that the user took the task. It reports false when the task
// was already taken.
func (r *TaskRepository) Start(ctx context.Context, userID, taskID int64, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO user_tasks (user_id, task_id, started_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, task_id) DO NOTHING`,
		userID, taskID, now,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// GetUserTaskForUpdate locks the user's task row until tx ends.
func (r *TaskRepository) GetUserTaskForUpdate(ctx context.Context, tx pgx.Tx, userID, taskID int64) (*domain.UserTask, error) {
	var ut domain.UserTask
	err := tx.QueryRow(ctx,
		`SELECT user_id, task_id, started_at, completed_at
		 FROM user_tasks WHERE user_id = $1 AND task_id = $2
		 FOR UPDATE`,
		userID, taskID,
	).Scan(&ut.UserID, &ut.TaskID, &ut.StartedAt, &ut.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotStarted
	}
	if err != nil {
		return nil, err
	}
	return &ut, nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, userID, taskID int64, now time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE user_tasks SET completed_at = $1 WHERE user_id = $2 AND task_id = $3`,
		now, userID, taskID,
	)
	return err
}
