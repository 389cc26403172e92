package money

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidFormat     = errors.New("invalid amount format")
	ErrNotFinite         = errors.New("amount is not finite")
	ErrOverflow          = errors.New("amount exceeds safe range")
	ErrUnsafeInteger     = errors.New("cents outside safe integer range")
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
	ErrInvalidWeight     = errors.New("allocation weight must be positive")
)

// Error is returned by every failing money operation. It records the
// operation and the offending value so callers can log it as-is.
type Error struct {
	Op    string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op, value string, kind error) *Error {
	return &Error{Op: op, Value: value, Err: kind}
}
