package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

// Header is the CSV header for transactions.csv.
const Header = "statement_id,account_iban,date,amount,currency,description,merchant,is_income,counterparty_name,counterparty_iban,reference"

const (
	numFields    = 11
	dateFormat   = "2006-01-02"
	colStmtID    = 0
	colIBAN      = 1
	colDate      = 2
	colAmount    = 3
	colCurrency  = 4
	colDesc      = 5
	colMerchant  = 6
	colIncome    = 7
	colCpartyNm  = 8
	colCpartyAcc = 9
	colRef       = 10
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a transactions.csv writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions appends transactions to an existing transactions.csv writer (no header).
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colStmtID] = t.StatementID
	row[colIBAN] = t.AccountIBAN
	row[colDate] = t.Date.Format(dateFormat)
	row[colAmount] = t.Amount.String()
	row[colCurrency] = t.Currency
	row[colDesc] = t.Description
	row[colMerchant] = t.Merchant
	row[colIncome] = strconv.FormatBool(t.IsIncome)
	row[colCpartyNm] = t.CounterpartyName
	row[colCpartyAcc] = t.CounterpartyIBAN
	row[colRef] = t.Reference
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := money.ToCents(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount: %w", err)
	}

	isIncome, err := strconv.ParseBool(record[colIncome])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing is_income %q: %w", record[colIncome], err)
	}

	return model.Transaction{
		StatementID:      record[colStmtID],
		AccountIBAN:      record[colIBAN],
		Date:             date,
		Amount:           amount,
		Currency:         record[colCurrency],
		Description:      record[colDesc],
		Merchant:         record[colMerchant],
		IsIncome:         isIncome,
		CounterpartyName: record[colCpartyNm],
		CounterpartyIBAN: record[colCpartyAcc],
		Reference:        record[colRef],
	}, nil
}
