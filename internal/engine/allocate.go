package engine

import (
	"cmp"
	"slices"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

// AllocationInput is everything Allocate reads.
type AllocationInput struct {
	MonthlyIncome   money.Cents
	MonthlyExpenses money.Cents
	CurrentBuffer   money.Cents
	Goals           []model.Goal
	Adults          int
}

// GoalAllocation is the amount planned for one goal this month.
type GoalAllocation struct {
	GoalID   string      `json:"goalId"`
	GoalName string      `json:"goalName"`
	Amount   money.Cents `json:"amount"`
	Deficit  money.Cents `json:"deficit"`
}

// AllocationPlan splits one month's income.
type AllocationPlan struct {
	PocketMoney       money.Cents      `json:"pocketMoney"`
	EssentialExpenses money.Cents      `json:"essentialExpenses"`
	BufferAllocation  money.Cents      `json:"bufferAllocation"`
	ExcessForGoals    money.Cents      `json:"excessForGoals"`
	Unallocated       money.Cents      `json:"unallocated"`
	Allocations       []GoalAllocation `json:"allocations"`
}

// Allocate plans a month: pocket money and expenses first, then a buffer
// top-up, then the excess spread over open goals by deficit. No goal
// receives more than its deficit. Unless RedistributeRemainder is set, what
// capping leaves over stays in Unallocated.
func (e *Engine) Allocate(in AllocationInput) (AllocationPlan, error) {
	plan := AllocationPlan{
		EssentialExpenses: in.MonthlyExpenses,
		Allocations:       []GoalAllocation{},
	}

	var err error
	if plan.PocketMoney, err = e.PocketMoney(in.Adults); err != nil {
		return AllocationPlan{}, err
	}
	if plan.BufferAllocation, err = e.bufferAllocation(in.MonthlyIncome, in.CurrentBuffer); err != nil {
		return AllocationPlan{}, err
	}

	excess, err := money.Sum(in.MonthlyIncome, -in.MonthlyExpenses, -plan.PocketMoney, -plan.BufferAllocation)
	if err != nil {
		return AllocationPlan{}, err
	}
	if excess <= 0 {
		return plan, nil
	}
	plan.ExcessForGoals = excess

	goals := fundableGoals(in.Goals)
	amounts, err := e.distribute(excess, goals)
	if err != nil {
		return AllocationPlan{}, err
	}

	var allocated money.Cents
	for i, g := range goals {
		if amounts[i] <= 0 {
			continue
		}
		plan.Allocations = append(plan.Allocations, GoalAllocation{
			GoalID:   g.ID,
			GoalName: g.Name,
			Amount:   amounts[i],
			Deficit:  g.Deficit(),
		})
		allocated += amounts[i]
	}
	plan.Unallocated = excess - allocated
	return plan, nil
}

// PlanFromMetrics allocates using the averages and buffer found by Metrics.
func (e *Engine) PlanFromMetrics(m FireMetrics, goals []model.Goal, adults int) (AllocationPlan, error) {
	return e.Allocate(AllocationInput{
		MonthlyIncome:   m.MonthlyIncome,
		MonthlyExpenses: m.MonthlyExpenses,
		CurrentBuffer:   m.BufferAmount,
		Goals:           goals,
		Adults:          adults,
	})
}

func (e *Engine) bufferAllocation(income, current money.Cents) (money.Cents, error) {
	target, err := e.BufferTarget()
	if err != nil {
		return 0, err
	}
	limit, err := money.MulCents(income, e.cfg.BufferIncomeShare)
	if err != nil {
		return 0, err
	}
	need := max(0, target-current)
	return max(0, min(need, limit)), nil
}

// fundableGoals returns incomplete goals with a deficit, most urgent first:
// by priority, then by target date with undated goals last.
func fundableGoals(goals []model.Goal) []model.Goal {
	var open []model.Goal
	for _, g := range goals {
		if g.Completed || g.Deficit() <= 0 {
			continue
		}
		open = append(open, g)
	}
	slices.SortStableFunc(open, func(a, b model.Goal) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		switch {
		case a.TargetDate == nil && b.TargetDate == nil:
			return 0
		case a.TargetDate == nil:
			return 1
		case b.TargetDate == nil:
			return -1
		}
		return a.TargetDate.Compare(*b.TargetDate)
	})
	return open
}

// distribute returns the amount for each goal, in goal order.
func (e *Engine) distribute(excess money.Cents, goals []model.Goal) ([]money.Cents, error) {
	amounts := make([]money.Cents, len(goals))
	remaining := excess

	// One pass by default. With redistribution every further pass fills at
	// least one goal or spends everything, so len(goals) passes suffice.
	passes := 1
	if e.cfg.RedistributeRemainder {
		passes = len(goals)
	}

	for pass := 0; pass < passes && remaining > 0; pass++ {
		var idx []int
		var allocs []money.Allocation
		for i, g := range goals {
			if room := g.Deficit() - amounts[i]; room > 0 {
				idx = append(idx, i)
				allocs = append(allocs, money.Allocation{ID: g.ID, Weight: float64(room)})
			}
		}
		if len(allocs) == 0 {
			break
		}

		shares, err := money.DistributeCents(remaining, allocs)
		if err != nil {
			return nil, err
		}
		for j, s := range shares {
			i := idx[j]
			room := goals[i].Deficit() - amounts[i]
			got := max(0, min(s.Amount, room))
			amounts[i] += got
			remaining -= got
		}
	}
	return amounts, nil
}
