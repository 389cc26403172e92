// Package engine derives FIRE metrics and a monthly allocation plan from
// normalized transactions, goals and accounts.
//
// An Engine is a plain value holding its assumptions. It keeps no state
// between calls, does no I/O and returns identical output for identical
// input, so callers may run it after every import and in parallel.
package engine

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/fire/internal/money"
)

// Config holds the planning assumptions.
type Config struct {
	PocketMoneyPerAdult money.Cents
	BufferMin           money.Cents
	BufferMax           money.Cents

	FireTargetMultiple float64 // years of expenses to accumulate
	SafeWithdrawalRate float64
	AssumedReturn      float64 // real annual return
	BufferIncomeShare  float64 // max share of income sent to the buffer per month

	LookbackMonths  int
	BreakdownMonths int
	DefaultAdults   int

	// RedistributeRemainder spreads money left over after capping goals at
	// their deficit over the goals that can still take it.
	RedistributeRemainder bool
}

// DefaultConfig returns the standard assumptions.
func DefaultConfig() Config {
	return Config{
		PocketMoneyPerAdult: 15000,
		BufferMin:           300000,
		BufferMax:           400000,
		FireTargetMultiple:  25,
		SafeWithdrawalRate:  0.04,
		AssumedReturn:       0.07,
		BufferIncomeShare:   0.10,
		LookbackMonths:      6,
		BreakdownMonths:     6,
		DefaultAdults:       2,
	}
}

// Validate reports the first inconsistent assumption.
func (c Config) Validate() error {
	switch {
	case c.PocketMoneyPerAdult < 0:
		return errors.New("pocket money per adult must not be negative")
	case c.BufferMin < 0 || c.BufferMax < c.BufferMin:
		return fmt.Errorf("buffer band %s..%s is invalid", c.BufferMin, c.BufferMax)
	case c.FireTargetMultiple <= 0:
		return errors.New("FIRE target multiple must be positive")
	case c.SafeWithdrawalRate <= 0 || c.SafeWithdrawalRate >= 1:
		return errors.New("safe withdrawal rate must be in (0, 1)")
	case c.AssumedReturn <= 0 || c.AssumedReturn >= 1:
		return errors.New("assumed return must be in (0, 1)")
	case c.BufferIncomeShare < 0 || c.BufferIncomeShare > 1:
		return errors.New("buffer income share must be in [0, 1]")
	case c.LookbackMonths < 1 || c.BreakdownMonths < 1:
		return errors.New("lookback and breakdown months must be at least 1")
	case c.DefaultAdults < 1:
		return errors.New("default adults must be at least 1")
	}
	return nil
}

// Engine computes metrics and plans under one Config.
type Engine struct {
	cfg Config
}

// New returns an Engine using cfg.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine's assumptions.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) adults(n int) int {
	if n <= 0 {
		return e.cfg.DefaultAdults
	}
	return n
}

// PocketMoney returns the monthly pocket money for a household of adults.
func (e *Engine) PocketMoney(adults int) (money.Cents, error) {
	return money.MulCents(e.cfg.PocketMoneyPerAdult, float64(e.adults(adults)))
}

// BufferTarget is the midpoint of the buffer band.
func (e *Engine) BufferTarget() (money.Cents, error) {
	sum, err := money.AddCents(e.cfg.BufferMin, e.cfg.BufferMax)
	if err != nil {
		return 0, err
	}
	return money.MulCents(sum, 0.5)
}
