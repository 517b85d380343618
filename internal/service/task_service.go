package service

import (
	"context"
	"fmt"
	"time"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/economy"
	"clicker_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChannelMembership checks TG_CHANNEL task conditions.
type ChannelMembership interface {
	IsMember(ctx context.Context, channel string, userID int64) (bool, error)
}

type TaskStatus string

const (
	TaskAvailable TaskStatus = "available"
	TaskStarted   TaskStatus = "started"
	TaskCompleted TaskStatus = "completed"
)

type TaskView struct {
	Task   *domain.Task `json:"task"`
	Status TaskStatus   `json:"status"`
}

type TaskService struct {
	db       *pgxpool.Pool
	engine   *economy.Engine
	tasks    *repository.TaskRepository
	players  *repository.PlayerRepository
	rewards  *repository.RewardRepository
	channels ChannelMembership // nil disables TG_CHANNEL tasks
	audit    *AuditService
	now      func() time.Time
}

func NewTaskService(
	db *pgxpool.Pool,
	engine *economy.Engine,
	players *repository.PlayerRepository,
	channels ChannelMembership,
	audit *AuditService,
) *TaskService {
	return &TaskService{
		db:       db,
		engine:   engine,
		tasks:    repository.NewTaskRepository(db),
		players:  players,
		rewards:  repository.NewRewardRepository(db),
		channels: channels,
		audit:    audit,
		now:      time.Now,
	}
}

// Available lists the tasks visible at the user's rank with their progress.
func (s *TaskService) Available(ctx context.Context, userID int64) ([]TaskView, error) {
	p, err := s.players.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	taken, err := s.tasks.ListUserTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := []TaskView{}
	for _, t := range all {
		if !economy.TaskVisible(*t, p.Rank, s.engine.Ladder()) {
			continue
		}
		status := TaskAvailable
		if ut, ok := taken[t.ID]; ok {
			status = TaskStarted
			if ut.IsCompleted() {
				status = TaskCompleted
			}
		}
		views = append(views, TaskView{Task: t, Status: status})
	}
	return views, nil
}

func (s *TaskService) visibleTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	p, err := s.players.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !economy.TaskVisible(*t, p.Rank, s.engine.Ladder()) {
		return nil, domain.ErrTaskLocked
	}
	return t, nil
}

// Start takes a task.
func (s *TaskService) Start(ctx context.Context, userID, taskID int64) (err error) {
	defer func() { observe("task_start", err) }()

	if _, err := s.visibleTask(ctx, userID, taskID); err != nil {
		return err
	}
	ok, err := s.tasks.Start(ctx, userID, taskID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTaskAlreadyStarted
	}

	s.audit.Log(ctx, userID, domain.AuditActionTaskStart, domain.AuditCategoryTask, map[string]interface{}{"task_id": taskID})
	return nil
}

// Complete verifies the task condition and creates the TASK reward.
func (s *TaskService) Complete(ctx context.Context, userID, taskID int64) (r *domain.Reward, err error) {
	defer func() { observe("task_complete", err) }()

	t, err := s.visibleTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCondition(ctx, t, userID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ut, err := s.tasks.GetUserTaskForUpdate(ctx, tx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if ut.IsCompleted() {
		return nil, domain.ErrTaskAlreadyCompleted
	}

	if err := s.tasks.MarkCompleted(ctx, tx, userID, taskID, s.now()); err != nil {
		return nil, err
	}
	r = domain.NewReward(userID, domain.RewardTask, t.Reward)
	if err := s.rewards.Create(ctx, tx, r); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.audit.LogReward(ctx, userID, domain.AuditActionTaskComplete, domain.AuditCategoryTask, r)
	return r, nil
}

func (s *TaskService) checkCondition(ctx context.Context, t *domain.Task, userID int64) error {
	switch t.Condition.Type {
	case domain.ConditionVisitLink:
		// the client opens the link; there is nothing to verify server side
		return nil
	case domain.ConditionTgChannel:
		if s.channels == nil {
			return domain.ErrConditionUnverifiable
		}
		ok, err := s.channels.IsMember(ctx, t.Condition.Channel, userID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConditionNotMet
		}
		return nil
	default:
		return domain.ErrConditionUnverifiable
	}
}

// Seed upserts catalog tasks.
func (s *TaskService) Seed(ctx context.Context, tasks []domain.Task) error {
	for i := range tasks {
		if err := s.tasks.Upsert(ctx, &tasks[i]); err != nil {
			return fmt.Errorf("seed task %q: %w", tasks[i].Description, err)
		}
	}
	return nil
}
