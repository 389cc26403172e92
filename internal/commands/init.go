package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fire/internal/config"
	"github.com/cleared-dev/fire/internal/gitops"
	"github.com/cleared-dev/fire/internal/goals"
	"github.com/cleared-dev/fire/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var name string
	var adults int
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new FIRE project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if adults < 1 {
				return fmt.Errorf("--adults must be at least 1, got %d", adults)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, adults, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "household name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().IntVar(&adults, "adults", 2, "number of adults in the household")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name string, adults int, withGit bool) error {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	// Create directory structure.
	dirs := []string{
		"import",
		filepath.Join("import", "processed"),
		ledger.Dir,
		goals.Dir,
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	cfg.Household.Adults = adults
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := goals.NewService(goals.StarterGoals()).Save(dir); err != nil {
		return fmt.Errorf("writing starter goals: %w", err)
	}

	// Statement files hold raw bank data; the ledger is the tracked record.
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("import/\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !withGit {
		fmt.Fprintf(out, "Initialized FIRE project at %s\n", dir)
		return nil
	}

	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, cfg.GitAuthor())
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized FIRE project at %s (%s)\n", dir, hash)
	return nil
}
