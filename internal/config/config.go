package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/fire/internal/engine"
	"github.com/cleared-dev/fire/internal/gitops"
	"github.com/cleared-dev/fire/internal/logging"
	"github.com/cleared-dev/fire/internal/money"
)

// FileName is the name of the project configuration file.
const FileName = "fire.yaml"

// Config represents the top-level fire.yaml configuration.
type Config struct {
	Household   HouseholdConfig   `yaml:"household"`
	Assumptions AssumptionsConfig `yaml:"assumptions"`
	Logging     LoggingConfig     `yaml:"logging"`
	Git         GitConfig         `yaml:"git"`
}

// HouseholdConfig describes who the plan is for.
type HouseholdConfig struct {
	Name   string `yaml:"name"`
	Adults int    `yaml:"adults"`
}

// AssumptionsConfig holds the planning assumptions. Amounts are decimal
// strings in the account currency, e.g. "150.00".
type AssumptionsConfig struct {
	PocketMoneyPerAdult   string  `yaml:"pocket_money_per_adult"`
	BufferMin             string  `yaml:"buffer_min"`
	BufferMax             string  `yaml:"buffer_max"`
	FireTargetMultiple    float64 `yaml:"fire_target_multiple"`
	SafeWithdrawalRate    float64 `yaml:"safe_withdrawal_rate"`
	AssumedReturn         float64 `yaml:"assumed_return"`
	BufferIncomeShare     float64 `yaml:"buffer_income_share"`
	LookbackMonths        int     `yaml:"lookback_months"`
	BreakdownMonths       int     `yaml:"breakdown_months"`
	RedistributeRemainder bool    `yaml:"redistribute_remainder"`
}

// LoggingConfig selects the logger profile.
type LoggingConfig struct {
	Environment string `yaml:"environment"`
	Level       string `yaml:"level,omitempty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a fire.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard assumptions for a new project.
func Default(householdName string) *Config {
	d := engine.DefaultConfig()
	return &Config{
		Household: HouseholdConfig{
			Name:   householdName,
			Adults: d.DefaultAdults,
		},
		Assumptions: AssumptionsConfig{
			PocketMoneyPerAdult:   d.PocketMoneyPerAdult.String(),
			BufferMin:             d.BufferMin.String(),
			BufferMax:             d.BufferMax.String(),
			FireTargetMultiple:    d.FireTargetMultiple,
			SafeWithdrawalRate:    d.SafeWithdrawalRate,
			AssumedReturn:         d.AssumedReturn,
			BufferIncomeShare:     d.BufferIncomeShare,
			LookbackMonths:        d.LookbackMonths,
			BreakdownMonths:       d.BreakdownMonths,
			RedistributeRemainder: d.RedistributeRemainder,
		},
		Logging: LoggingConfig{
			Environment: string(logging.EnvironmentProduction),
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "fire",
			AuthorEmail: "fire@cleared.dev",
		},
	}
}

// EngineConfig converts the assumptions into a validated engine.Config.
func (c *Config) EngineConfig() (engine.Config, error) {
	a := c.Assumptions
	ec := engine.Config{
		FireTargetMultiple:    a.FireTargetMultiple,
		SafeWithdrawalRate:    a.SafeWithdrawalRate,
		AssumedReturn:         a.AssumedReturn,
		BufferIncomeShare:     a.BufferIncomeShare,
		LookbackMonths:        a.LookbackMonths,
		BreakdownMonths:       a.BreakdownMonths,
		DefaultAdults:         c.Household.Adults,
		RedistributeRemainder: a.RedistributeRemainder,
	}

	amounts := []struct {
		name string
		src  string
		dst  *money.Cents
	}{
		{"pocket_money_per_adult", a.PocketMoneyPerAdult, &ec.PocketMoneyPerAdult},
		{"buffer_min", a.BufferMin, &ec.BufferMin},
		{"buffer_max", a.BufferMax, &ec.BufferMax},
	}
	for _, f := range amounts {
		v, err := money.ToCents(f.src)
		if err != nil {
			return engine.Config{}, fmt.Errorf("assumptions.%s: %w", f.name, err)
		}
		*f.dst = v
	}

	if err := ec.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("assumptions: %w", err)
	}
	return ec, nil
}

// LoggerConfig returns the logging settings for logging.New.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Environment: logging.Environment(c.Logging.Environment),
		Level:       c.Logging.Level,
	}
}

// GitAuthor returns the identity used for automatic commits.
func (c *Config) GitAuthor() gitops.Author {
	return gitops.Author{Name: c.Git.AuthorName, Email: c.Git.AuthorEmail}
}
