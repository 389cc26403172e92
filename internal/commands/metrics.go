package commands

import (
	"github.com/spf13/cobra"
)

func newMetricsCommand() *cobra.Command {
	var repoDir string
	var asOf string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print FIRE metrics computed from the ledger and goals",
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
			return writeJSON(cmd.OutOrStdout(), m)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&asOf, "as-of", "", "last month of the lookback window, YYYY-MM-DD (default: latest transaction)")

	return cmd
}
