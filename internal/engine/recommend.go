package engine

import (
	"fmt"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

const roleIncome = "income"

// TransferRecommendation is one suggested transfer for the month.
type TransferRecommendation struct {
	GoalID   string      `json:"goalId,omitempty"`
	GoalName string      `json:"goalName,omitempty"`
	FromIBAN string      `json:"fromIban,omitempty"`
	ToIBAN   string      `json:"toIban,omitempty"`
	Amount   money.Cents `json:"amount"`
	Reason   string      `json:"reason"`
}

// Recommend turns a plan into transfers from the primary account: the
// buffer top-up towards the emergency goal first, then one per goal
// allocation. Amounts outside the transfer bounds are left out.
func (e *Engine) Recommend(plan AllocationPlan, goals []model.Goal, accounts []model.Account) []TransferRecommendation {
	from := PrimaryAccount(accounts)
	recs := []TransferRecommendation{}

	add := func(r TransferRecommendation) {
		if !money.ValidateTransferCents(r.Amount).Valid {
			return
		}
		r.FromIBAN = from.IBAN
		recs = append(recs, r)
	}

	if plan.BufferAllocation > 0 {
		r := TransferRecommendation{
			Amount: plan.BufferAllocation,
			Reason: "top up emergency buffer",
		}
		if g, ok := EmergencyGoal(goals); ok {
			r.GoalID, r.GoalName, r.ToIBAN = g.ID, g.Name, g.LinkedAccountIBAN
		}
		add(r)
	}

	byID := make(map[string]model.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}
	for _, a := range plan.Allocations {
		g := byID[a.GoalID]
		add(TransferRecommendation{
			GoalID:   a.GoalID,
			GoalName: a.GoalName,
			ToIBAN:   g.LinkedAccountIBAN,
			Amount:   a.Amount,
			Reason:   fmt.Sprintf("fund goal %q (%s missing)", a.GoalName, a.Deficit),
		})
	}
	return recs
}

// PrimaryAccount is the first active account with the income role, else
// the first active checking account. The zero Account means none.
func PrimaryAccount(accounts []model.Account) model.Account {
	for _, a := range accounts {
		if a.Active && a.Role == roleIncome {
			return a
		}
	}
	for _, a := range accounts {
		if a.Active && a.Type == model.AccountTypeChecking {
			return a
		}
	}
	return model.Account{}
}
