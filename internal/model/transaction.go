package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cleared-dev/fire/internal/money"
)

// Transaction is one booked statement entry. It is immutable once parsed.
type Transaction struct {
	AccountIBAN      string      `json:"accountIban"`
	Date             time.Time   `json:"date"`
	Amount           money.Cents `json:"amount"` // negative = expense, positive = income
	Currency         string      `json:"currency"`
	Description      string      `json:"description"`
	Merchant         string      `json:"merchant"`
	IsIncome         bool        `json:"isIncome"`
	CounterpartyName string      `json:"counterpartyName,omitempty"`
	CounterpartyIBAN string      `json:"counterpartyIban,omitempty"`
	Reference        string      `json:"reference,omitempty"`
	StatementID      string      `json:"statementId"`
}

// DedupKey returns a stable key identifying the transaction across
// re-imports of the same statement. Identical bookings in one statement
// share a key; the ledger tells them apart by occurrence.
func (t Transaction) DedupKey() string {
	h := sha256.New()
	for _, part := range []string{
		t.StatementID,
		t.AccountIBAN,
		t.Date.Format("2006-01-02"),
		t.Amount.String(),
		t.Currency,
		t.Reference,
		t.Description,
	} {
		h.Write([]byte(strings.TrimSpace(part)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
