package money

import (
	"errors"
	"fmt"
)

// ValidationResult reports whether a user-supplied amount is acceptable.
// It is a value, not an error: failing is the expected outcome for bad input.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateSum reports whether amounts add up to expected within
// SumTolerance. Any unparseable amount makes the sum invalid.
func ValidateSum(amounts []string, expected string) bool {
	want, err := ToCents(expected)
	if err != nil {
		return false
	}
	var total Cents
	for _, a := range amounts {
		c, err := ToCents(a)
		if err != nil {
			return false
		}
		total, err = AddCents(total, c)
		if err != nil {
			return false
		}
	}
	return (total - want).Abs() <= SumTolerance
}

// ValidateTransferAmount checks amount against the transfer bounds.
func ValidateTransferAmount(amount string) ValidationResult {
	c, err := ToCents(amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFinite):
			return ValidationResult{Reason: "amount must be a finite number"}
		case errors.Is(err, ErrOverflow):
			return ValidationResult{Reason: fmt.Sprintf("amount exceeds maximum transfer of %s", MaxTransferAmount)}
		default:
			return ValidationResult{Reason: fmt.Sprintf("amount %q is not a valid decimal number", amount)}
		}
	}
	return ValidateTransferCents(c)
}

// ValidateTransferCents checks an amount already in cents.
func ValidateTransferCents(c Cents) ValidationResult {
	switch {
	case c < MinTransferAmount:
		return ValidationResult{Reason: fmt.Sprintf("amount must be at least %s", MinTransferAmount)}
	case c > MaxTransferAmount:
		return ValidationResult{Reason: fmt.Sprintf("amount exceeds maximum transfer of %s", MaxTransferAmount)}
	}
	return ValidationResult{Valid: true}
}
