package ledger

import (
	"fmt"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

// ValidationError describes a single problem with a statement.
type ValidationError struct {
	Check       string
	Ref         string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Check, e.Ref, e.Description)
}

// ValidateStatement checks a parsed statement before it enters the ledger.
// Opening balance plus all entries must reconcile to the closing balance
// within money.SumTolerance when both balances are present.
func ValidateStatement(stmt *model.Statement) []ValidationError {
	var errs []ValidationError

	if stmt.ID == "" {
		errs = append(errs, ValidationError{Check: "statement", Ref: "-", Description: "missing statement id"})
	}
	iban := stmt.Account.IBAN
	if iban == "" {
		errs = append(errs, ValidationError{Check: "account", Ref: stmt.ID, Description: "missing IBAN"})
	}
	currency := stmt.Account.Balance.Currency

	amounts := make([]string, 0, len(stmt.Transactions)+1)
	for i, t := range stmt.Transactions {
		ref := fmt.Sprintf("entry %d", i+1)
		if t.AccountIBAN != iban {
			errs = append(errs, ValidationError{
				Check:       "account",
				Ref:         ref,
				Description: fmt.Sprintf("IBAN %q does not match statement account %q", t.AccountIBAN, iban),
			})
		}
		if t.StatementID != stmt.ID {
			errs = append(errs, ValidationError{
				Check:       "statement",
				Ref:         ref,
				Description: fmt.Sprintf("statement id %q does not match %q", t.StatementID, stmt.ID),
			})
		}
		if currency != "" && t.Currency != currency {
			errs = append(errs, ValidationError{
				Check:       "currency",
				Ref:         ref,
				Description: fmt.Sprintf("%s differs from account currency %s", t.Currency, currency),
			})
		}
		if t.Amount.Abs() > money.MaxSafeAmount {
			errs = append(errs, ValidationError{
				Check:       "amount",
				Ref:         ref,
				Description: fmt.Sprintf("%s exceeds the safe range", t.Amount),
			})
		}
		if (t.IsIncome && t.Amount < 0) || (!t.IsIncome && t.Amount > 0) {
			errs = append(errs, ValidationError{
				Check:       "amount",
				Ref:         ref,
				Description: fmt.Sprintf("sign of %s contradicts income flag", t.Amount),
			})
		}
		amounts = append(amounts, t.Amount.String())
	}

	open, closing := stmt.OpeningBalance, stmt.ClosingBalance
	if open != nil && closing != nil && open.Currency == closing.Currency {
		amounts = append(amounts, open.Amount.String())
		if !money.ValidateSum(amounts, closing.Amount.String()) {
			errs = append(errs, ValidationError{
				Check:       "balance",
				Ref:         stmt.ID,
				Description: fmt.Sprintf("opening %s plus entries does not reconcile to closing %s", open.Amount, closing.Amount),
			})
		}
	}

	return errs
}
