package model

import (
	"time"

	"github.com/cleared-dev/fire/internal/money"
)

// Goal is a savings target owned by the user.
type Goal struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Target            money.Cents `json:"targetAmount"`
	Current           money.Cents `json:"currentAmount"`
	Priority          int         `json:"priority"` // lower = more urgent
	TargetDate        *time.Time  `json:"targetDate,omitempty"`
	LinkedAccountIBAN string      `json:"linkedAccountIban,omitempty"`
	Completed         bool        `json:"isCompleted"`
}

// Deficit returns how much is still missing to reach the target, never negative.
func (g Goal) Deficit() money.Cents {
	if g.Current >= g.Target {
		return 0
	}
	return g.Target - g.Current
}
