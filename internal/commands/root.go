package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fire/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fire",
		Short:   "Track bank statements and plan towards financial independence",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newMetricsCommand())
	rootCmd.AddCommand(newAllocateCommand())

	return rootCmd
}
