// Package money implements exact currency arithmetic on integer minor units.
//
// Every amount that enters the system as a decimal string or a float is
// converted to Cents here, and every amount that leaves is formatted here.
// Callers never do float math on money.
package money

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// MaxSafeAmount bounds every accepted or computed amount, in cents.
	MaxSafeAmount Cents = 10_000_000_000_000

	// MaxSafeInteger is the largest integer a JSON consumer backed by
	// IEEE doubles can hold exactly.
	MaxSafeInteger Cents = 1<<53 - 1

	// MinTransferAmount and MaxTransferAmount bound a single transfer.
	MinTransferAmount Cents = 1
	MaxTransferAmount Cents = 100_000_000

	// SumTolerance is the slack ValidateSum allows for per-item rounding.
	SumTolerance Cents = 2
)

var maxSafeDecimal = decimal.NewFromInt(int64(MaxSafeAmount))

// Cents is an amount in minor currency units.
type Cents int64

// String formats c with exactly two fraction digits, e.g. "-40.00".
func (c Cents) String() string {
	sign := ""
	abs := uint64(c)
	if c < 0 {
		sign = "-"
		abs = uint64(-(c + 1)) + 1
	}
	return fmt.Sprintf("%s%d.%02d", sign, abs/100, abs%100)
}

// Decimal returns c in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Shift(-2)
}

// Float returns c in major units as a float64. Use it for statistics
// only, never to compute another amount.
func (c Cents) Float() float64 {
	return c.Decimal().InexactFloat64()
}

// Abs returns the magnitude of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// MarshalJSON encodes c as a decimal string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a decimal string or a bare JSON number.
func (c *Cents) UnmarshalJSON(data []byte) error {
	text := string(data)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	v, err := ToCents(text)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Money is an amount together with its ISO 4217 currency code.
type Money struct {
	Amount   Cents  `json:"amount"`
	Currency string `json:"currency"`
}

// New returns a Money value.
func New(amount Cents, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func (m Money) String() string {
	if m.Currency == "" {
		return m.Amount.String()
	}
	return m.Amount.String() + " " + m.Currency
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }
