package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fire/internal/engine"
	"github.com/cleared-dev/fire/internal/money"
)

type allocateOutput struct {
	Plan            engine.AllocationPlan           `json:"plan"`
	Recommendations []engine.TransferRecommendation `json:"recommendations"`
}

func newAllocateCommand() *cobra.Command {
	var repoDir, asOf, income, expenses string

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Plan this month's income across pocket money, buffer and goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			p, err := openProject(repoDir)
			if err != nil {
				return err
			}
			st, err := p.loadState()
			if err != nil {
				return err
			}

			m, err := p.metrics(st, at)
			if err != nil {
				return err
			}
			if err := override(&m.MonthlyIncome, "--income", income); err != nil {
				return err
			}
			if err := override(&m.MonthlyExpenses, "--expenses", expenses); err != nil {
				return err
			}

			plan, err := p.engine.PlanFromMetrics(m, st.goals.All(), p.cfg.Household.Adults)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), allocateOutput{
				Plan:            plan,
				Recommendations: p.engine.Recommend(plan, st.goals.All(), st.ledger.Accounts()),
			})
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&asOf, "as-of", "", "last month of the lookback window, YYYY-MM-DD (default: latest transaction)")
	cmd.Flags().StringVar(&income, "income", "", "monthly income to plan with, e.g. 4200.00 (default: average)")
	cmd.Flags().StringVar(&expenses, "expenses", "", "monthly essential expenses (default: average)")

	return cmd
}

func override(dst *money.Cents, flag, value string) error {
	if value == "" {
		return nil
	}
	c, err := money.ToCents(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", flag, err)
	}
	if c < 0 {
		return fmt.Errorf("invalid %s: must not be negative", flag)
	}
	*dst = c
	return nil
}
