package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/fire/internal/money"
)

func TestGoalDeficit(t *testing.T) {
	tests := []struct {
		target, current money.Cents
		want            money.Cents
	}{
		{500000, 120000, 380000},
		{500000, 500000, 0},
		{500000, 600000, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		g := Goal{Target: tt.target, Current: tt.current}
		assert.Equal(t, tt.want, g.Deficit(), "Deficit(%s, %s)", tt.target, tt.current)
	}
}

func TestTransactionDedupKey(t *testing.T) {
	base := Transaction{
		AccountIBAN: "DE89370400440532013000",
		Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:      -4000,
		Currency:    "EUR",
		Description: "REWE Markt",
		Reference:   "E2E-1",
		StatementID: "STMT-2025-01",
	}

	same := base
	same.Merchant = "REWE"
	assert.Equal(t, base.DedupKey(), same.DedupKey(), "merchant is derived and must not affect the key")
	assert.Len(t, base.DedupKey(), 16)

	other := base
	other.Amount = -4001
	assert.NotEqual(t, base.DedupKey(), other.DedupKey())

	otherStmt := base
	otherStmt.StatementID = "STMT-2025-02"
	assert.NotEqual(t, base.DedupKey(), otherStmt.DedupKey())
}
