package model

import (
	"time"

	"github.com/cleared-dev/fire/internal/money"
)

// Statement is the normalized content of one bank statement file.
type Statement struct {
	ID             string        `json:"id"`
	CreatedAt      *time.Time    `json:"createdAt,omitempty"`
	Account        Account       `json:"account"`
	OpeningBalance *money.Money  `json:"openingBalance,omitempty"` // informational only
	ClosingBalance *money.Money  `json:"closingBalance,omitempty"`
	Transactions   []Transaction `json:"transactions"`
}
