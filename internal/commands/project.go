package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/cleared-dev/fire/internal/config"
	"github.com/cleared-dev/fire/internal/engine"
	"github.com/cleared-dev/fire/internal/goals"
	"github.com/cleared-dev/fire/internal/ledger"
	"github.com/cleared-dev/fire/internal/model"
)

// project is an initialized project directory with its configuration.
type project struct {
	root   string
	cfg    *config.Config
	engine *engine.Engine
}

func openProject(repoDir string) (*project, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	ec, err := cfg.EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.FileName, err)
	}
	return &project{root: root, cfg: cfg, engine: engine.New(ec)}, nil
}

// state is everything the planning commands read from disk.
type state struct {
	ledger *ledger.Service
	goals  *goals.Service
}

func (p *project) loadState() (*state, error) {
	led, err := ledger.Load(p.root)
	if err != nil {
		return nil, err
	}
	gs, err := goals.Load(p.root)
	if err != nil {
		return nil, err
	}
	return &state{ledger: led, goals: gs}, nil
}

// metrics computes metrics as of asOf. A zero asOf means the month of the
// latest transaction in the ledger.
func (p *project) metrics(st *state, asOf time.Time) (engine.FireMetrics, error) {
	if asOf.IsZero() {
		asOf = latestDate(st.ledger.All())
	}
	return p.engine.Metrics(engine.MetricsInput{
		Transactions: st.ledger.All(),
		Goals:        st.goals.All(),
		Accounts:     st.ledger.Accounts(),
		Adults:       p.cfg.Household.Adults,
		AsOf:         asOf,
	})
}

func latestDate(txns []model.Transaction) time.Time {
	var latest time.Time
	for _, t := range txns {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	return latest
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
