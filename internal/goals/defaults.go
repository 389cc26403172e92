package goals

import "github.com/cleared-dev/fire/internal/model"

// StarterGoals returns the goals written by fire init.
func StarterGoals() []model.Goal {
	return []model.Goal{
		{ID: "emergency-fund", Name: "Emergency Fund", Target: 350000, Priority: 1},
		{ID: "fire-portfolio", Name: "FIRE Portfolio", Target: 50000000, Priority: 2},
	}
}
