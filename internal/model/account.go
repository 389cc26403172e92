package model

import "github.com/cleared-dev/fire/internal/money"

// AccountType classifies bank accounts.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

// Account is a bank account identified by its IBAN, as read from the
// account section of a statement.
type Account struct {
	IBAN       string      `json:"iban"`
	BIC        string      `json:"bic,omitempty"`
	HolderName string      `json:"accountHolderName"`
	BankName   string      `json:"bankName"`
	Type       AccountType `json:"accountType"`
	Balance    money.Money `json:"balance"`
	Active     bool        `json:"isActive"`

	// Set by the owner after import; carried through untouched.
	CustomName string `json:"customName,omitempty"`
	Role       string `json:"role,omitempty"`
}
