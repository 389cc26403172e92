package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

// ErrMalformedDocument wraps every CAMT parse failure.
var ErrMalformedDocument = errors.New("malformed CAMT.053 document")

const (
	defaultHolderName  = "Unknown"
	defaultBankName    = "Unknown Bank"
	defaultCurrency    = "EUR"
	defaultDescription = "Transaction"

	indicatorCredit = "CRDT"
	indicatorDebit  = "DBIT"

	// End-to-end id placeholder used when the payer supplied none.
	notProvided = "NOTPROVIDED"
)

// Balance type codes, in order of preference.
var (
	closingBalanceCodes = []string{"CLBD", "CLAV"}
	openingBalanceCodes = []string{"OPBD", "PRCD"}
)

// CAMTParser parses ISO 20022 camt.053 bank-to-customer statements.
// Parsing is all-or-nothing: any error discards the whole statement.
type CAMTParser struct{}

// Format returns the parser name.
func (p *CAMTParser) Format() string { return "camt053" }

// Extensions returns the file extensions of camt.053 exports.
func (p *CAMTParser) Extensions() []string { return []string{".xml"} }

// Parse reads one camt.053 document and returns its first statement.
func (p *CAMTParser) Parse(r io.Reader) (*model.Statement, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var doc camtDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed("decoding XML: %w", err)
	}
	if doc.Report == nil || len(doc.Report.Statements) == 0 {
		return nil, malformed("missing Document/BkToCstmrStmt/Stmt")
	}

	stmt, err := parseStatement(doc.Report.Statements[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return stmt, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %w", ErrMalformedDocument, fmt.Errorf(format, args...))
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func parseStatement(s camtStatement) (*model.Statement, error) {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return nil, errors.New("missing statement Id")
	}

	acct, err := parseAccount(s.Account)
	if err != nil {
		return nil, err
	}

	closing, err := findBalance(s.Balances, closingBalanceCodes, acct.Balance.Currency)
	if err != nil {
		return nil, fmt.Errorf("closing balance: %w", err)
	}
	opening, err := findBalance(s.Balances, openingBalanceCodes, acct.Balance.Currency)
	if err != nil {
		return nil, fmt.Errorf("opening balance: %w", err)
	}
	if closing != nil {
		acct.Balance = *closing
	}

	stmt := &model.Statement{
		ID:             id,
		Account:        acct,
		OpeningBalance: opening,
		ClosingBalance: closing,
		Transactions:   make([]model.Transaction, 0, len(s.Entries)),
	}
	if s.CreatedAt != "" {
		created, err := parseDateTime(s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("statement CreDtTm: %w", err)
		}
		stmt.CreatedAt = &created
	}

	for i, e := range s.Entries {
		txn, err := parseEntry(e, acct)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		txn.StatementID = id
		stmt.Transactions = append(stmt.Transactions, txn)
	}
	return stmt, nil
}

func parseAccount(a camtAccount) (model.Account, error) {
	iban := normalizeIBAN(a.IBAN)
	if iban == "" {
		return model.Account{}, errors.New("missing Acct/Id/IBAN")
	}

	currency := strings.ToUpper(strings.TrimSpace(a.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	return model.Account{
		IBAN:       iban,
		BIC:        firstNonEmpty(a.BIC, a.BICFI),
		HolderName: firstNonEmpty(a.OwnerName, defaultHolderName),
		BankName:   firstNonEmpty(a.BankName, defaultBankName),
		Type:       model.AccountTypeChecking,
		Balance:    money.New(0, currency),
		Active:     true,
	}, nil
}

// findBalance returns the first balance matching codes in preference order,
// or nil when none is present.
func findBalance(bals []camtBalance, codes []string, currency string) (*money.Money, error) {
	for _, code := range codes {
		for _, b := range bals {
			if !strings.EqualFold(strings.TrimSpace(b.Code), code) {
				continue
			}
			m, err := signedAmount(b.Amount, b.CdtDbtInd, currency)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", code, err)
			}
			return &m, nil
		}
	}
	return nil, nil
}

func parseEntry(e camtEntry, acct model.Account) (model.Transaction, error) {
	amount, err := signedAmount(e.Amount, e.CdtDbtInd, acct.Balance.Currency)
	if err != nil {
		return model.Transaction{}, err
	}

	date, err := entryDate(e)
	if err != nil {
		return model.Transaction{}, err
	}

	var tx camtTxDetails
	if len(e.Details) > 0 {
		tx = e.Details[0]
	}

	credit := strings.EqualFold(strings.TrimSpace(e.CdtDbtInd), indicatorCredit)
	cpName, cpIBAN := counterparty(tx, credit)
	desc := description(tx, e)

	return model.Transaction{
		AccountIBAN:      acct.IBAN,
		Date:             date,
		Amount:           amount.Amount,
		Currency:         amount.Currency,
		Description:      desc,
		Merchant:         merchant(cpName, desc),
		IsIncome:         amount.Amount > 0,
		CounterpartyName: cpName,
		CounterpartyIBAN: cpIBAN,
		Reference:        reference(tx, e),
	}, nil
}

// signedAmount decodes an amount element and applies the credit/debit sign.
func signedAmount(field *amountField, indicator, fallbackCurrency string) (money.Money, error) {
	if field == nil || field.Value == nil {
		return money.Money{}, errors.New("missing Amt")
	}

	var text, currency string
	switch v := field.Value.(type) {
	case AnnotatedAmount:
		text, currency = v.Text, v.Currency
	case PlainAmount:
		text, currency = v.Text, fallbackCurrency
	default:
		return money.Money{}, fmt.Errorf("unsupported amount encoding %T", v)
	}

	cents, err := money.ToCents(text)
	if err != nil {
		return money.Money{}, fmt.Errorf("amount: %w", err)
	}
	// Direction comes from the indicator only.
	cents = cents.Abs()

	switch strings.ToUpper(strings.TrimSpace(indicator)) {
	case indicatorCredit:
	case indicatorDebit:
		cents = -cents
	case "":
		return money.Money{}, errors.New("missing CdtDbtInd")
	default:
		return money.Money{}, fmt.Errorf("unknown CdtDbtInd %q", indicator)
	}
	return money.New(cents, currency), nil
}

// entryDate prefers the value date and falls back to the booking date.
func entryDate(e camtEntry) (time.Time, error) {
	for _, d := range []camtDate{e.ValueDate, e.BookingDate} {
		if s := strings.TrimSpace(d.Date); s != "" {
			t, err := time.Parse(time.DateOnly, s)
			if err != nil {
				return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
			}
			return t, nil
		}
		if s := strings.TrimSpace(d.DateTime); s != "" {
			t, err := parseDateTime(s)
			if err != nil {
				return time.Time{}, err
			}
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.New("missing ValDt and BookgDt")
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date-time %q", s)
}

// description falls back from remittance text to additional info.
func description(tx camtTxDetails, e camtEntry) string {
	var lines []string
	for _, u := range tx.Unstructured {
		if u = strings.TrimSpace(u); u != "" {
			lines = append(lines, u)
		}
	}
	if len(lines) > 0 {
		return strings.Join(lines, " ")
	}
	return firstNonEmpty(tx.AddtlTxInf, e.AddtlNtryInf, defaultDescription)
}

// counterparty returns the other side of the entry: the debtor pays us on a
// credit, the creditor receives from us on a debit.
func counterparty(tx camtTxDetails, credit bool) (name, iban string) {
	if credit {
		return tx.Debtor.name(), normalizeIBAN(tx.DebtorAccount.IBAN)
	}
	return tx.Creditor.name(), normalizeIBAN(tx.CreditorAccount.IBAN)
}

func reference(tx camtTxDetails, e camtEntry) string {
	e2e := strings.TrimSpace(tx.EndToEndID)
	if strings.EqualFold(e2e, notProvided) {
		e2e = ""
	}
	return firstNonEmpty(tx.CreditorRef, e2e, tx.AcctSvcrRef, e.AcctSvcrRef)
}

func normalizeIBAN(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
