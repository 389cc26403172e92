package goals

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/fire/internal/engine"
	"github.com/cleared-dev/fire/internal/model"
)

// Dir is the goals directory below the project root.
const Dir = "goals"

const fileName = "goals.csv"

// Service provides in-memory lookup over the user's goals.
type Service struct {
	goals []model.Goal
	byID  map[string]model.Goal
}

// NewService creates a Service from a slice of goals.
func NewService(goals []model.Goal) *Service {
	byID := make(map[string]model.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}
	return &Service{goals: goals, byID: byID}
}

// Load reads goals/goals.csv from a project root and returns a Service.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, Dir, fileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening goals: %w", err)
	}
	defer f.Close()

	goals, err := ReadGoals(f)
	if err != nil {
		return nil, fmt.Errorf("reading goals: %w", err)
	}
	if err := checkUnique(goals); err != nil {
		return nil, err
	}
	return NewService(goals), nil
}

func checkUnique(goals []model.Goal) error {
	seen := make(map[string]bool, len(goals))
	for _, g := range goals {
		if seen[g.ID] {
			return fmt.Errorf("duplicate goal_id %q", g.ID)
		}
		seen[g.ID] = true
	}
	return nil
}

// All returns all goals.
func (s *Service) All() []model.Goal {
	return s.goals
}

// Get returns a goal by ID.
func (s *Service) Get(id string) (model.Goal, bool) {
	g, ok := s.byID[id]
	return g, ok
}

// Active returns the goals not yet completed.
func (s *Service) Active() []model.Goal {
	var result []model.Goal
	for _, g := range s.goals {
		if !g.Completed {
			result = append(result, g)
		}
	}
	return result
}

// Emergency returns the goal that holds the emergency buffer.
func (s *Service) Emergency() (model.Goal, bool) {
	return engine.EmergencyGoal(s.goals)
}

// Save writes the goals to goals/goals.csv.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating goals dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return fmt.Errorf("creating goals file: %w", err)
	}
	defer f.Close()

	if err := WriteGoals(f, s.goals); err != nil {
		return fmt.Errorf("writing goals: %w", err)
	}
	return nil
}
