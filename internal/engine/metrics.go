package engine

import (
	"encoding/json"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

// BufferStatus places the emergency buffer relative to the buffer band.
type BufferStatus string

const (
	BufferBelow   BufferStatus = "below"
	BufferOptimal BufferStatus = "optimal"
	BufferAbove   BufferStatus = "above"
)

// Volatility classifies month-to-month income swings.
type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

const (
	highVolatilityCV   = 0.2
	mediumVolatilityCV = 0.1
	monthKeyLayout     = "2006-01"
	emergencyGoalTag   = "emergency"
)

// Years is a duration in years. +Inf means never and encodes as JSON null.
type Years float64

// IsNever reports whether the target is unreachable.
func (y Years) IsNever() bool { return math.IsInf(float64(y), 1) }

func (y Years) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(y), 0) || math.IsNaN(float64(y)) {
		return []byte("null"), nil
	}
	return json.Marshal(math.Round(float64(y)*100) / 100)
}

// MetricsInput is everything Metrics reads.
type MetricsInput struct {
	Transactions []model.Transaction
	Goals        []model.Goal
	Accounts     []model.Account
	Adults       int

	// AsOf limits transactions to the lookback window ending with AsOf's
	// month. The zero value uses every transaction given.
	AsOf time.Time
}

// MonthSummary is one month of the breakdown.
type MonthSummary struct {
	Month    string      `json:"month"` // YYYY-MM
	Income   money.Cents `json:"income"`
	Expenses money.Cents `json:"expenses"`
	Savings  money.Cents `json:"savings"`
}

// VolatilityStats carries the income statistics behind the classification.
type VolatilityStats struct {
	Level                  Volatility `json:"level"`
	IncomeStdDev           float64    `json:"incomeStdDev"`
	CoefficientOfVariation float64    `json:"coefficientOfVariation"`
}

// FireMetrics summarizes progress towards financial independence.
type FireMetrics struct {
	MonthlyIncome   money.Cents     `json:"avgMonthlyIncome"`
	MonthlyExpenses money.Cents     `json:"avgMonthlyExpenses"`
	SavingsRate     float64         `json:"savingsRate"`
	FireTarget      money.Cents     `json:"fireTarget"`
	FireProgress    float64         `json:"fireProgress"`
	TimeToFire      Years           `json:"timeToFire"`
	MonthsObserved  int             `json:"monthsObserved"`
	Breakdown       []MonthSummary  `json:"monthlyBreakdown"`
	Buffer          BufferStatus    `json:"bufferStatus"`
	BufferAmount    money.Cents     `json:"bufferAmount"`
	Volatility      VolatilityStats `json:"volatility"`
	PocketMoney     money.Cents     `json:"pocketMoney"`
	AccountBalance  money.Cents     `json:"accountBalance"`
}

// ClassifyVolatility maps a coefficient of variation to a level. The
// thresholds are exclusive lower bounds of the next level.
func ClassifyVolatility(cv float64) Volatility {
	switch {
	case cv > highVolatilityCV:
		return VolatilityHigh
	case cv > mediumVolatilityCV:
		return VolatilityMedium
	default:
		return VolatilityLow
	}
}

// ClassifyBuffer places amount relative to the configured buffer band.
func (e *Engine) ClassifyBuffer(amount money.Cents) BufferStatus {
	switch {
	case amount < e.cfg.BufferMin:
		return BufferBelow
	case amount > e.cfg.BufferMax:
		return BufferAbove
	default:
		return BufferOptimal
	}
}

// Metrics computes FIRE metrics. Sparse or empty history yields zeros, not
// an error; errors only come from amounts leaving the safe money range.
func (e *Engine) Metrics(in MetricsInput) (FireMetrics, error) {
	months, err := e.bucketByMonth(in.Transactions, in.AsOf)
	if err != nil {
		return FireMetrics{}, err
	}

	var m FireMetrics
	m.MonthsObserved = len(months)

	incomes := make([]money.Cents, len(months))
	expenses := make([]money.Cents, len(months))
	for i, s := range months {
		incomes[i] = s.Income
		expenses[i] = s.Expenses
	}
	if m.MonthlyIncome, err = mean(incomes); err != nil {
		return FireMetrics{}, err
	}
	if m.MonthlyExpenses, err = mean(expenses); err != nil {
		return FireMetrics{}, err
	}

	m.Volatility = volatility(incomes, m.MonthlyIncome)
	m.SavingsRate = savingsRate(m.MonthlyIncome, m.MonthlyExpenses)

	if m.FireTarget, err = money.MulCents(m.MonthlyExpenses, 12*e.cfg.FireTargetMultiple); err != nil {
		return FireMetrics{}, err
	}
	saved, err := sumGoals(in.Goals)
	if err != nil {
		return FireMetrics{}, err
	}
	m.FireProgress = fireProgress(saved, m.FireTarget)
	m.TimeToFire = e.timeToFire(m.SavingsRate, m.FireProgress)

	if g, ok := EmergencyGoal(in.Goals); ok {
		m.BufferAmount = g.Current
	}
	m.Buffer = e.ClassifyBuffer(m.BufferAmount)

	if m.PocketMoney, err = e.PocketMoney(in.Adults); err != nil {
		return FireMetrics{}, err
	}
	if m.AccountBalance, err = activeBalance(in.Accounts); err != nil {
		return FireMetrics{}, err
	}

	m.Breakdown = months
	if n := e.cfg.BreakdownMonths; len(m.Breakdown) > n {
		m.Breakdown = m.Breakdown[len(m.Breakdown)-n:]
	}
	return m, nil
}

// bucketByMonth sums income and expense magnitudes per calendar month and
// returns the months in chronological order.
func (e *Engine) bucketByMonth(txns []model.Transaction, asOf time.Time) ([]MonthSummary, error) {
	byMonth := make(map[string]*MonthSummary)
	for _, t := range txns {
		if !asOf.IsZero() && !e.inLookback(t.Date, asOf) {
			continue
		}
		key := t.Date.Format(monthKeyLayout)
		s, ok := byMonth[key]
		if !ok {
			s = &MonthSummary{Month: key}
			byMonth[key] = s
		}

		var err error
		switch {
		case t.Amount > 0:
			s.Income, err = money.AddCents(s.Income, t.Amount)
		case t.Amount < 0:
			s.Expenses, err = money.AddCents(s.Expenses, -t.Amount)
		}
		if err != nil {
			return nil, err
		}
	}

	months := make([]MonthSummary, 0, len(byMonth))
	for _, s := range byMonth {
		savings, err := money.SubCents(s.Income, s.Expenses)
		if err != nil {
			return nil, err
		}
		s.Savings = savings
		months = append(months, *s)
	}
	slices.SortFunc(months, func(a, b MonthSummary) int { return strings.Compare(a.Month, b.Month) })
	return months, nil
}

func (e *Engine) inLookback(date, asOf time.Time) bool {
	idx := monthIndex(date)
	end := monthIndex(asOf)
	return idx <= end && idx > end-e.cfg.LookbackMonths
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// mean returns the arithmetic mean rounded to the cent; zero for no values.
func mean(values []money.Cents) (money.Cents, error) {
	if len(values) == 0 {
		return 0, nil
	}
	total, err := money.Sum(values...)
	if err != nil {
		return 0, err
	}
	avg := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(len(values)))).Round(0)
	return money.Cents(avg.IntPart()), nil
}

// volatility uses the population standard deviation of monthly income.
func volatility(incomes []money.Cents, avg money.Cents) VolatilityStats {
	stats := VolatilityStats{Level: VolatilityLow}
	if len(incomes) == 0 {
		return stats
	}

	mu := avg.Float()
	var sq float64
	for _, c := range incomes {
		d := c.Float() - mu
		sq += d * d
	}
	stats.IncomeStdDev = math.Sqrt(sq / float64(len(incomes)))

	if avg > 0 {
		stats.CoefficientOfVariation = stats.IncomeStdDev / mu
	}
	if math.IsNaN(stats.CoefficientOfVariation) || math.IsInf(stats.CoefficientOfVariation, 0) {
		stats.CoefficientOfVariation = 0
	}
	stats.Level = ClassifyVolatility(stats.CoefficientOfVariation)
	return stats
}

func savingsRate(income, expenses money.Cents) float64 {
	if income == 0 {
		return 0
	}
	rate := (income - expenses).Float() / income.Float()
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return rate
}

func fireProgress(saved, target money.Cents) float64 {
	if target <= 0 || saved <= 0 {
		return 0
	}
	if saved >= target {
		return 1
	}
	return saved.Float() / target.Float()
}

// timeToFire solves for the years of saving at the current rate needed to
// close the remaining gap, given the withdrawal rate and real return.
func (e *Engine) timeToFire(rate, progress float64) Years {
	if rate <= 0 {
		return Years(math.Inf(1))
	}
	gap := (1 - progress) * e.cfg.FireTargetMultiple * e.cfg.SafeWithdrawalRate / rate
	years := math.Log(1+gap) / math.Log(1+e.cfg.AssumedReturn)
	if math.IsNaN(years) || years < 0 {
		return 0
	}
	return Years(years)
}

func sumGoals(goals []model.Goal) (money.Cents, error) {
	var total money.Cents
	for _, g := range goals {
		next, err := money.AddCents(total, g.Current)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

func activeBalance(accounts []model.Account) (money.Cents, error) {
	var total money.Cents
	for _, a := range accounts {
		if !a.Active {
			continue
		}
		next, err := money.AddCents(total, a.Balance.Amount)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// EmergencyGoal returns the first goal whose name mentions "emergency".
func EmergencyGoal(goals []model.Goal) (model.Goal, bool) {
	for _, g := range goals {
		if strings.Contains(strings.ToLower(g.Name), emergencyGoalTag) {
			return g, true
		}
	}
	return model.Goal{}, false
}
