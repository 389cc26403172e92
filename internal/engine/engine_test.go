package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

func txn(date string, amount money.Cents) model.Transaction {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{Date: d, Amount: amount, Currency: "EUR", IsIncome: amount > 0}
}

func dateOf(s string) *time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, money.Cents(15000), cfg.PocketMoneyPerAdult)
	assert.Equal(t, money.Cents(300000), cfg.BufferMin)
	assert.Equal(t, money.Cents(400000), cfg.BufferMax)
	assert.InDelta(t, 25, cfg.FireTargetMultiple, 0)
	assert.InDelta(t, 0.04, cfg.SafeWithdrawalRate, 0)
	assert.InDelta(t, 0.07, cfg.AssumedReturn, 0)
	assert.InDelta(t, 0.10, cfg.BufferIncomeShare, 0)
	assert.Equal(t, 6, cfg.LookbackMonths)
	assert.Equal(t, 2, cfg.DefaultAdults)
	assert.False(t, cfg.RedistributeRemainder)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"negative pocket money", func(c *Config) { c.PocketMoneyPerAdult = -1 }, "pocket money"},
		{"inverted buffer band", func(c *Config) { c.BufferMin, c.BufferMax = 500000, 100000 }, "buffer band"},
		{"zero multiple", func(c *Config) { c.FireTargetMultiple = 0 }, "multiple"},
		{"withdrawal rate", func(c *Config) { c.SafeWithdrawalRate = 1.5 }, "withdrawal"},
		{"return", func(c *Config) { c.AssumedReturn = 0 }, "return"},
		{"buffer share", func(c *Config) { c.BufferIncomeShare = 2 }, "buffer income share"},
		{"lookback", func(c *Config) { c.LookbackMonths = 0 }, "months"},
		{"adults", func(c *Config) { c.DefaultAdults = 0 }, "adults"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestPocketMoneyAndBufferTarget(t *testing.T) {
	e := New(DefaultConfig())

	pm, err := e.PocketMoney(3)
	require.NoError(t, err)
	assert.Equal(t, "450.00", pm.String())

	pm, err = e.PocketMoney(0)
	require.NoError(t, err)
	assert.Equal(t, "300.00", pm.String(), "non-positive adults falls back to the default household")

	target, err := e.BufferTarget()
	require.NoError(t, err)
	assert.Equal(t, "3500.00", target.String())
}

func TestEnginesWithDifferentConfigsRunSideBySide(t *testing.T) {
	lean := DefaultConfig()
	lean.FireTargetMultiple = 10
	a := New(DefaultConfig())
	b := New(lean)

	in := MetricsInput{Transactions: []model.Transaction{
		txn("2025-01-10", 300000),
		txn("2025-01-20", -100000),
	}}

	ma, err := a.Metrics(in)
	require.NoError(t, err)
	mb, err := b.Metrics(in)
	require.NoError(t, err)

	assert.Equal(t, "300000.00", ma.FireTarget.String())
	assert.Equal(t, "120000.00", mb.FireTarget.String())
	assert.InDelta(t, 25, a.Config().FireTargetMultiple, 0)
}
