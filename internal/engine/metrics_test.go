package engine

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

func TestClassifyVolatility(t *testing.T) {
	tests := []struct {
		cv   float64
		want Volatility
	}{
		{0, VolatilityLow},
		{0.05, VolatilityLow},
		{0.1, VolatilityLow},
		{0.15, VolatilityMedium},
		{0.2, VolatilityMedium},
		{0.25, VolatilityHigh},
		{1.5, VolatilityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyVolatility(tt.cv), "cv=%v", tt.cv)
	}
}

func TestClassifyBuffer(t *testing.T) {
	e := New(DefaultConfig())
	assert.Equal(t, BufferBelow, e.ClassifyBuffer(299999))
	assert.Equal(t, BufferOptimal, e.ClassifyBuffer(300000))
	assert.Equal(t, BufferOptimal, e.ClassifyBuffer(400000))
	assert.Equal(t, BufferAbove, e.ClassifyBuffer(400001))
}

func TestMetrics(t *testing.T) {
	e := New(DefaultConfig())
	in := MetricsInput{
		Transactions: []model.Transaction{
			txn("2025-03-01", 300000),
			txn("2025-03-03", -220000),
			txn("2025-01-01", 300000),
			txn("2025-01-15", -150000),
			txn("2025-01-20", -50000),
			txn("2025-02-01", 300000),
			txn("2025-02-05", -180000),
		},
		Goals: []model.Goal{
			{ID: "emergency", Name: "Emergency Fund", Target: 350000, Current: 350000},
			{ID: "house", Name: "House", Target: 5000000, Current: 1150000},
		},
		Accounts: []model.Account{
			{IBAN: "DE1", Active: true, Balance: money.New(120000, "EUR")},
			{IBAN: "DE2", Active: false, Balance: money.New(999999, "EUR")},
			{IBAN: "DE3", Active: true, Balance: money.New(30050, "EUR")},
		},
	}

	m, err := e.Metrics(in)
	require.NoError(t, err)

	assert.Equal(t, money.Cents(300000), m.MonthlyIncome)
	assert.Equal(t, money.Cents(200000), m.MonthlyExpenses)
	assert.InDelta(t, 1.0/3.0, m.SavingsRate, 1e-9)
	assert.Equal(t, "600000.00", m.FireTarget.String())
	assert.InDelta(t, 0.025, m.FireProgress, 1e-9)

	wantYears := math.Log(1+0.975*25*0.04/(1.0/3.0)) / math.Log(1.07)
	assert.InDelta(t, wantYears, float64(m.TimeToFire), 1e-9)
	assert.False(t, m.TimeToFire.IsNever())

	assert.Equal(t, 3, m.MonthsObserved)
	require.Len(t, m.Breakdown, 3)
	assert.Equal(t, []string{"2025-01", "2025-02", "2025-03"},
		[]string{m.Breakdown[0].Month, m.Breakdown[1].Month, m.Breakdown[2].Month})
	assert.Equal(t, money.Cents(100000), m.Breakdown[0].Savings)
	assert.Equal(t, money.Cents(120000), m.Breakdown[1].Savings)
	assert.Equal(t, money.Cents(80000), m.Breakdown[2].Savings)

	assert.Equal(t, BufferOptimal, m.Buffer)
	assert.Equal(t, money.Cents(350000), m.BufferAmount)
	assert.Equal(t, VolatilityLow, m.Volatility.Level)
	assert.Zero(t, m.Volatility.IncomeStdDev)
	assert.Equal(t, money.Cents(30000), m.PocketMoney)
	assert.Equal(t, money.Cents(150050), m.AccountBalance)
}

func TestMetricsEmptyHistory(t *testing.T) {
	m, err := New(DefaultConfig()).Metrics(MetricsInput{})
	require.NoError(t, err)

	assert.Zero(t, m.MonthlyIncome)
	assert.Zero(t, m.MonthlyExpenses)
	assert.Zero(t, m.SavingsRate)
	assert.Zero(t, m.FireTarget)
	assert.Zero(t, m.FireProgress)
	assert.True(t, m.TimeToFire.IsNever())
	assert.Equal(t, 0, m.MonthsObserved)
	assert.NotNil(t, m.Breakdown)
	assert.Empty(t, m.Breakdown)
	assert.Equal(t, BufferBelow, m.Buffer)
	assert.Equal(t, VolatilityLow, m.Volatility.Level)
}

func TestMetricsNonPositiveSavingsRateNeverReachesFire(t *testing.T) {
	in := MetricsInput{Transactions: []model.Transaction{
		txn("2025-04-01", 100000),
		txn("2025-04-02", -150000),
	}}
	m, err := New(DefaultConfig()).Metrics(in)
	require.NoError(t, err)

	assert.InDelta(t, -0.5, m.SavingsRate, 1e-9)
	assert.True(t, m.TimeToFire.IsNever())

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timeToFire":null`)
	assert.Contains(t, string(data), `"avgMonthlyIncome":"1000.00"`)
}

func TestMetricsVolatility(t *testing.T) {
	tests := []struct {
		name    string
		incomes []money.Cents
		want    Volatility
		cv      float64
	}{
		{"steady", []money.Cents{100000, 100000, 100000}, VolatilityLow, 0},
		{"medium", []money.Cents{100000, 140000}, VolatilityMedium, 20000.0 / 120000.0},
		{"high", []money.Cents{100000, 200000}, VolatilityHigh, 50000.0 / 150000.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txns []model.Transaction
			for i, c := range tt.incomes {
				d := time.Date(2025, time.Month(i+1), 10, 0, 0, 0, 0, time.UTC)
				txns = append(txns, model.Transaction{Date: d, Amount: c, IsIncome: true})
			}
			m, err := New(DefaultConfig()).Metrics(MetricsInput{Transactions: txns})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Volatility.Level)
			assert.InDelta(t, tt.cv, m.Volatility.CoefficientOfVariation, 1e-9)
		})
	}
}

func TestMetricsLookbackWindow(t *testing.T) {
	in := MetricsInput{
		Transactions: []model.Transaction{
			txn("2025-01-31", 900000),
			txn("2025-02-01", 100000),
			txn("2025-07-31", 300000),
			txn("2025-08-01", 500000),
		},
		AsOf: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
	}
	m, err := New(DefaultConfig()).Metrics(in)
	require.NoError(t, err)

	assert.Equal(t, 2, m.MonthsObserved)
	assert.Equal(t, money.Cents(200000), m.MonthlyIncome)
	assert.Equal(t, "2025-02", m.Breakdown[0].Month)
	assert.Equal(t, "2025-07", m.Breakdown[1].Month)
}

func TestMetricsBreakdownKeepsLatestMonths(t *testing.T) {
	var txns []model.Transaction
	for month := 1; month <= 8; month++ {
		d := time.Date(2024, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		txns = append(txns, model.Transaction{Date: d, Amount: 100000, IsIncome: true})
	}
	m, err := New(DefaultConfig()).Metrics(MetricsInput{Transactions: txns})
	require.NoError(t, err)

	assert.Equal(t, 8, m.MonthsObserved)
	require.Len(t, m.Breakdown, 6)
	assert.Equal(t, "2024-03", m.Breakdown[0].Month)
	assert.Equal(t, "2024-08", m.Breakdown[5].Month)
}

func TestMetricsProgressCapsAtOne(t *testing.T) {
	in := MetricsInput{
		Transactions: []model.Transaction{
			txn("2025-01-01", 200000),
			txn("2025-01-02", -100000),
		},
		Goals: []model.Goal{{ID: "nest", Name: "Nest egg", Target: 1, Current: 50000000}},
	}
	m, err := New(DefaultConfig()).Metrics(in)
	require.NoError(t, err)

	assert.InDelta(t, 1, m.FireProgress, 0)
	assert.InDelta(t, 0, float64(m.TimeToFire), 0)
}

func TestMetricsOverflow(t *testing.T) {
	in := MetricsInput{Transactions: []model.Transaction{
		txn("2025-01-01", money.MaxSafeAmount),
		txn("2025-01-02", money.MaxSafeAmount),
	}}
	_, err := New(DefaultConfig()).Metrics(in)
	require.ErrorIs(t, err, money.ErrOverflow)
}

func TestMetricsDeterministic(t *testing.T) {
	in := MetricsInput{Transactions: []model.Transaction{
		txn("2025-05-01", 250000),
		txn("2025-06-01", 310000),
		txn("2025-06-09", -120000),
	}}
	e := New(DefaultConfig())
	a, err := e.Metrics(in)
	require.NoError(t, err)
	b, err := e.Metrics(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestYearsJSON(t *testing.T) {
	data, err := json.Marshal(Years(12.3456))
	require.NoError(t, err)
	assert.Equal(t, "12.35", string(data))

	data, err = json.Marshal(Years(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestEmergencyGoal(t *testing.T) {
	goals := []model.Goal{
		{ID: "car", Name: "Car"},
		{ID: "ef", Name: "My EMERGENCY money"},
	}
	g, ok := EmergencyGoal(goals)
	require.True(t, ok)
	assert.Equal(t, "ef", g.ID)

	_, ok = EmergencyGoal(goals[:1])
	assert.False(t, ok)
}
