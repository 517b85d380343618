// Package catalog ships the static game data (rank ladder, task list) embedded
// in the binary as TOML.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"clicker_webapp/internal/domain"
)

//go:embed ranks.toml
var ranksTOML []byte

//go:embed tasks.toml
var tasksTOML []byte

type rankFile struct {
	Ranks []domain.Rank `toml:"rank"`
}

type taskEntry struct {
	Description string            `toml:"description"`
	Reward      domain.Grant      `toml:"reward"`
	Condition   domain.Condition  `toml:"condition"`
	Visibility  domain.Visibility `toml:"visibility"`
}

type taskFile struct {
	Tasks []taskEntry `toml:"task"`
}

// Ranks decodes and validates the embedded rank ladder.
func Ranks() (domain.RankLadder, error) {
	return ParseRanks(ranksTOML)
}

// ParseRanks decodes a ladder from TOML and validates it.
func ParseRanks(data []byte) (domain.RankLadder, error) {
	var f rankFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode ranks: %w", err)
	}

	ladder := domain.RankLadder(f.Ranks)
	if err := ladder.Validate(); err != nil {
		return nil, err
	}
	return ladder, nil
}

// Tasks decodes the embedded task list. Ids are assigned by the database.
func Tasks() ([]domain.Task, error) {
	return ParseTasks(tasksTOML)
}

func ParseTasks(data []byte) ([]domain.Task, error) {
	var f taskFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(f.Tasks))
	for i, e := range f.Tasks {
		switch e.Condition.Type {
		case domain.ConditionVisitLink, domain.ConditionTgChannel:
		default:
			return nil, fmt.Errorf("task %d: unknown condition %q", i, e.Condition.Type)
		}
		switch e.Visibility.Type {
		case domain.VisibilityAlways, domain.VisibilityRank:
		default:
			return nil, fmt.Errorf("task %d: unknown visibility %q", i, e.Visibility.Type)
		}
		tasks = append(tasks, domain.Task{
			Description: e.Description,
			Reward:      e.Reward,
			Condition:   e.Condition,
			Visibility:  e.Visibility,
		})
	}
	return tasks, nil
}
