package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

const (
	numAccountFields = 10
	colAcctIBAN      = 0
	colAcctBIC       = 1
	colAcctHolder    = 2
	colAcctBank      = 3
	colAcctType      = 4
	colAcctBalance   = 5
	colAcctCurrency  = 6
	colAcctActive    = 7
	colAcctName      = 8
	colAcctRole      = 9
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numAccountFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"iban", "bic", "holder_name", "bank_name", "account_type", "balance", "currency", "active", "custom_name", "role"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numAccountFields)
	row[colAcctIBAN] = acct.IBAN
	row[colAcctBIC] = acct.BIC
	row[colAcctHolder] = acct.HolderName
	row[colAcctBank] = acct.BankName
	row[colAcctType] = string(acct.Type)
	row[colAcctBalance] = acct.Balance.Amount.String()
	row[colAcctCurrency] = acct.Balance.Currency
	row[colAcctActive] = strconv.FormatBool(acct.Active)
	row[colAcctName] = acct.CustomName
	row[colAcctRole] = acct.Role
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numAccountFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numAccountFields, len(record))
	}

	balance, err := money.ToCents(record[colAcctBalance])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance: %w", err)
	}

	active, err := strconv.ParseBool(record[colAcctActive])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing active %q: %w", record[colAcctActive], err)
	}

	return model.Account{
		IBAN:       record[colAcctIBAN],
		BIC:        record[colAcctBIC],
		HolderName: record[colAcctHolder],
		BankName:   record[colAcctBank],
		Type:       model.AccountType(record[colAcctType]),
		Balance:    money.New(balance, record[colAcctCurrency]),
		Active:     active,
		CustomName: record[colAcctName],
		Role:       record[colAcctRole],
	}, nil
}
