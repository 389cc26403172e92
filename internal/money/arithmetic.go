package money

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// decimalPattern accepts an optional sign, digits and at most one point.
// Exponents, grouping separators and currency symbols are rejected.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

var nonFinite = map[string]bool{
	"nan":       true,
	"inf":       true,
	"+inf":      true,
	"-inf":      true,
	"infinity":  true,
	"+infinity": true,
	"-infinity": true,
}

// parseDecimal validates and parses a decimal amount string.
func parseDecimal(op, value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if nonFinite[strings.ToLower(s)] {
		return decimal.Decimal{}, newError(op, value, ErrNotFinite)
	}
	if !decimalPattern.MatchString(s) {
		return decimal.Decimal{}, newError(op, value, ErrInvalidFormat)
	}

	// Normalize "12." and ".5" forms.
	s = strings.TrimSuffix(s, ".")
	switch {
	case strings.HasPrefix(s, "."):
		s = "0" + s
	case strings.HasPrefix(s, "-."), strings.HasPrefix(s, "+."):
		s = s[:1] + "0" + s[1:]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, newError(op, value, ErrInvalidFormat)
	}
	return d, nil
}

// toSafeCents rounds a major-unit decimal half away from zero to cents.
func toSafeCents(op, value string, d decimal.Decimal) (Cents, error) {
	c := d.Shift(2).Round(0)
	if c.Abs().GreaterThan(maxSafeDecimal) {
		return 0, newError(op, value, ErrOverflow)
	}
	return Cents(c.IntPart()), nil
}

func checkSafe(op string, c Cents) (Cents, error) {
	if c.Abs() > MaxSafeAmount {
		return 0, newError(op, c.String(), ErrOverflow)
	}
	return c, nil
}

// ToCents parses a decimal amount such as "-12.345" into cents, rounding
// half away from zero.
func ToCents(value string) (Cents, error) {
	d, err := parseDecimal("ToCents", value)
	if err != nil {
		return 0, err
	}
	return toSafeCents("ToCents", value, d)
}

// FloatToCents converts a numeric amount in major units into cents.
func FloatToCents(value float64) (Cents, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, newError("FloatToCents", formatFloat(value), ErrNotFinite)
	}
	d := decimal.NewFromFloat(value)
	return toSafeCents("FloatToCents", d.String(), d)
}

// FromCents formats cents as a decimal string with two fraction digits.
func FromCents(c Cents) (string, error) {
	if c > MaxSafeInteger || c < -MaxSafeInteger {
		return "", &Error{Op: "FromCents", Value: c.String(), Err: ErrUnsafeInteger}
	}
	return c.String(), nil
}

// AddCents returns a+b, failing if the result leaves the safe range.
func AddCents(a, b Cents) (Cents, error) {
	return checkSafe("Add", a+b)
}

// SubCents returns a-b, failing if the result leaves the safe range.
func SubCents(a, b Cents) (Cents, error) {
	return checkSafe("Subtract", a-b)
}

// Sum adds all amounts with overflow checking after every step.
func Sum(amounts ...Cents) (Cents, error) {
	var total Cents
	for _, a := range amounts {
		next, err := AddCents(total, a)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// MulCents multiplies c by factor and rounds to the nearest cent.
func MulCents(c Cents, factor float64) (Cents, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return 0, newError("Multiply", formatFloat(factor), ErrNotFinite)
	}
	product := decimal.NewFromInt(int64(c)).Mul(decimal.NewFromFloat(factor))
	return toSafeCents("Multiply", product.Shift(-2).String(), product.Shift(-2))
}

// Add returns a+b as a decimal string.
func Add(a, b string) (string, error) {
	ca, cb, err := pair(a, b)
	if err != nil {
		return "", err
	}
	sum, err := AddCents(ca, cb)
	if err != nil {
		return "", err
	}
	return FromCents(sum)
}

// Subtract returns a-b as a decimal string.
func Subtract(a, b string) (string, error) {
	ca, cb, err := pair(a, b)
	if err != nil {
		return "", err
	}
	diff, err := SubCents(ca, cb)
	if err != nil {
		return "", err
	}
	return FromCents(diff)
}

// Multiply returns amount*factor rounded to the cent.
func Multiply(amount string, factor float64) (string, error) {
	c, err := ToCents(amount)
	if err != nil {
		return "", err
	}
	product, err := MulCents(c, factor)
	if err != nil {
		return "", err
	}
	return FromCents(product)
}

// Compare returns -1, 0 or 1 after rounding both operands to cents.
func Compare(a, b string) (int, error) {
	ca, cb, err := pair(a, b)
	if err != nil {
		return 0, err
	}
	switch {
	case ca < cb:
		return -1, nil
	case ca > cb:
		return 1, nil
	default:
		return 0, nil
	}
}

// Round rounds amount half away from zero to precision fraction digits.
func Round(amount string, precision int) (string, error) {
	if precision < 0 {
		return "", newError("Round", amount, ErrInvalidFormat)
	}
	d, err := parseDecimal("Round", amount)
	if err != nil {
		return "", err
	}
	if d.Shift(2).Abs().GreaterThan(maxSafeDecimal) {
		return "", newError("Round", amount, ErrOverflow)
	}
	return d.Round(int32(precision)).StringFixed(int32(precision)), nil
}

// Percentage returns pct percent of amount, pct in [0, 100].
func Percentage(amount string, pct float64) (string, error) {
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return "", newError("Percentage", formatFloat(pct), ErrInvalidPercentage)
	}
	c, err := ToCents(amount)
	if err != nil {
		return "", err
	}
	share := decimal.NewFromInt(int64(c)).Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
	result, err := toSafeCents("Percentage", amount, share.Shift(-2))
	if err != nil {
		return "", err
	}
	return FromCents(result)
}

func pair(a, b string) (Cents, Cents, error) {
	ca, err := ToCents(a)
	if err != nil {
		return 0, 0, err
	}
	cb, err := ToCents(b)
	if err != nil {
		return 0, 0, err
	}
	return ca, cb, nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return decimal.NewFromFloat(f).String()
}
