package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

func allocatedIDs(plan AllocationPlan) []string {
	ids := make([]string, len(plan.Allocations))
	for i, a := range plan.Allocations {
		ids[i] = a.GoalID
	}
	return ids
}

func assertBalanced(t *testing.T, plan AllocationPlan) {
	t.Helper()
	var sum money.Cents
	for _, a := range plan.Allocations {
		assert.LessOrEqual(t, a.Amount, a.Deficit, "goal %s over-funded", a.GoalID)
		assert.Positive(t, int64(a.Amount))
		sum += a.Amount
	}
	assert.Equal(t, plan.ExcessForGoals, sum+plan.Unallocated)
}

func TestAllocateNoExcess(t *testing.T) {
	plan, err := New(DefaultConfig()).Allocate(AllocationInput{
		MonthlyIncome:   300000,
		MonthlyExpenses: 280000,
		Goals:           []model.Goal{{ID: "car", Name: "Car", Target: 100000}},
	})
	require.NoError(t, err)

	assert.Equal(t, money.Cents(30000), plan.PocketMoney)
	assert.Equal(t, money.Cents(280000), plan.EssentialExpenses)
	assert.Equal(t, money.Cents(30000), plan.BufferAllocation, "10% of income towards an empty buffer")
	assert.Zero(t, plan.ExcessForGoals)
	assert.Zero(t, plan.Unallocated)
	assert.NotNil(t, plan.Allocations)
	assert.Empty(t, plan.Allocations)
}

func TestAllocateProportionalToDeficit(t *testing.T) {
	goals := []model.Goal{
		{ID: "b", Name: "Bike", Target: 100000, Priority: 1},
		{ID: "done", Name: "Done", Target: 50000, Current: 10000, Priority: 0, Completed: true},
		{ID: "full", Name: "Full", Target: 50000, Current: 50000, Priority: 0},
		{ID: "a", Name: "Apartment", Target: 500000, Current: 200000, Priority: 1, TargetDate: dateOf("2026-01-01")},
	}
	plan, err := New(DefaultConfig()).Allocate(AllocationInput{
		MonthlyIncome:   500000,
		MonthlyExpenses: 200000,
		CurrentBuffer:   350000,
		Goals:           goals,
		Adults:          2,
	})
	require.NoError(t, err)

	assert.Zero(t, plan.BufferAllocation, "buffer already at target")
	assert.Equal(t, money.Cents(270000), plan.ExcessForGoals)
	assert.Equal(t, []string{"a", "b"}, allocatedIDs(plan), "dated goals first within a priority")
	assert.Equal(t, money.Cents(202500), plan.Allocations[0].Amount)
	assert.Equal(t, money.Cents(300000), plan.Allocations[0].Deficit)
	assert.Equal(t, money.Cents(67500), plan.Allocations[1].Amount)
	assert.Zero(t, plan.Unallocated)
	assertBalanced(t, plan)
}

func TestAllocatePriorityOrder(t *testing.T) {
	goals := []model.Goal{
		{ID: "late", Name: "Late", Target: 1000, Priority: 3},
		{ID: "undated", Name: "Undated", Target: 1000, Priority: 1},
		{ID: "soon", Name: "Soon", Target: 1000, Priority: 1, TargetDate: dateOf("2025-06-01")},
		{ID: "sooner", Name: "Sooner", Target: 1000, Priority: 1, TargetDate: dateOf("2025-03-01")},
		{ID: "first", Name: "First", Target: 1000, Priority: 0},
	}
	assert.Equal(t, []string{"first", "sooner", "soon", "undated", "late"},
		goalIDs(fundableGoals(goals)))
}

func goalIDs(goals []model.Goal) []string {
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	return ids
}

func TestAllocateCapsAtDeficit(t *testing.T) {
	for _, redistribute := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.RedistributeRemainder = redistribute

		plan, err := New(cfg).Allocate(AllocationInput{
			MonthlyIncome:   1000000,
			MonthlyExpenses: 200000,
			CurrentBuffer:   400000,
			Goals: []model.Goal{
				{ID: "a", Name: "A", Target: 100000, Priority: 2},
				{ID: "b", Name: "B", Target: 50000, Priority: 1},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, money.Cents(770000), plan.ExcessForGoals)
		assert.Equal(t, []string{"b", "a"}, allocatedIDs(plan))
		assert.Equal(t, money.Cents(50000), plan.Allocations[0].Amount)
		assert.Equal(t, money.Cents(100000), plan.Allocations[1].Amount)
		assert.Equal(t, money.Cents(620000), plan.Unallocated)
		assertBalanced(t, plan)
	}
}

func TestAllocateRedistributesRoundingRemainder(t *testing.T) {
	goals := []model.Goal{
		{ID: "a", Name: "A", Target: 10},
		{ID: "b", Name: "B", Target: 10},
		{ID: "c", Name: "C", Target: 10},
		{ID: "d", Name: "D", Target: 10},
		{ID: "e", Name: "E", Target: 10},
		{ID: "f", Name: "F", Target: 1},
	}
	cfg := DefaultConfig()
	cfg.PocketMoneyPerAdult = 0
	cfg.BufferMin, cfg.BufferMax = 0, 0
	in := AllocationInput{MonthlyIncome: 47, Goals: goals}

	plan, err := New(cfg).Allocate(in)
	require.NoError(t, err)
	require.Len(t, plan.Allocations, 6)
	for _, a := range plan.Allocations[:5] {
		assert.Equal(t, money.Cents(9), a.Amount, a.GoalID)
	}
	assert.Equal(t, money.Cents(1), plan.Allocations[5].Amount, "capped at its deficit")
	assert.Equal(t, money.Cents(1), plan.Unallocated)
	assertBalanced(t, plan)

	cfg.RedistributeRemainder = true
	plan, err = New(cfg).Allocate(in)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(10), plan.Allocations[4].Amount)
	assert.Zero(t, plan.Unallocated)
	assertBalanced(t, plan)
}

func TestAllocateTinyExcessNeverOverspends(t *testing.T) {
	goals := []model.Goal{
		{ID: "a", Name: "A", Target: 10000},
		{ID: "b", Name: "B", Target: 10000},
		{ID: "c", Name: "C", Target: 10000},
		{ID: "d", Name: "D", Target: 10000},
	}
	for _, redistribute := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.RedistributeRemainder = redistribute

		plan, err := New(cfg).Allocate(AllocationInput{
			MonthlyIncome: 30002,
			CurrentBuffer: 400000,
			Goals:         goals,
		})
		require.NoError(t, err)

		assert.Equal(t, money.Cents(2), plan.ExcessForGoals)
		var sum money.Cents
		for _, a := range plan.Allocations {
			sum += a.Amount
		}
		assert.LessOrEqual(t, sum, plan.ExcessForGoals)
		assert.GreaterOrEqual(t, plan.Unallocated, money.Cents(0))
		assert.Equal(t, []string{"a", "b"}, allocatedIDs(plan))
		assertBalanced(t, plan)
	}
}

func TestAllocateBufferBand(t *testing.T) {
	tests := []struct {
		name    string
		income  money.Cents
		current money.Cents
		want    money.Cents
	}{
		{"limited by income share", 500000, 0, 50000},
		{"limited by remaining need", 500000, 340000, 10000},
		{"at target", 500000, 350000, 0},
		{"above band", 500000, 450000, 0},
		{"no income", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := New(DefaultConfig()).Allocate(AllocationInput{
				MonthlyIncome: tt.income,
				CurrentBuffer: tt.current,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.BufferAllocation)
		})
	}
}

func TestAllocateWithoutGoalsLeavesExcessUnallocated(t *testing.T) {
	plan, err := New(DefaultConfig()).Allocate(AllocationInput{
		MonthlyIncome:   400000,
		MonthlyExpenses: 100000,
		CurrentBuffer:   350000,
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(270000), plan.ExcessForGoals)
	assert.Equal(t, money.Cents(270000), plan.Unallocated)
	assert.Empty(t, plan.Allocations)
}

func TestPlanFromMetrics(t *testing.T) {
	e := New(DefaultConfig())
	m := FireMetrics{MonthlyIncome: 500000, MonthlyExpenses: 200000, BufferAmount: 350000}
	goals := []model.Goal{{ID: "trip", Name: "Trip", Target: 100000}}

	plan, err := e.PlanFromMetrics(m, goals, 1)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(15000), plan.PocketMoney)
	assert.Equal(t, money.Cents(285000), plan.ExcessForGoals)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, money.Cents(100000), plan.Allocations[0].Amount)
	assert.Equal(t, money.Cents(185000), plan.Unallocated)
}
