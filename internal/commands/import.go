package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/fire/internal/gitops"
	"github.com/cleared-dev/fire/internal/importer"
	"github.com/cleared-dev/fire/internal/importlog"
	"github.com/cleared-dev/fire/internal/ledger"
	"github.com/cleared-dev/fire/internal/logging"
)

func newImportCommand() *cobra.Command {
	var dryRun bool
	var repoDir string
	var format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import statement files from import/ into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(repoDir)
			if err != nil {
				return err
			}
			log, err := logging.New(p.cfg.LoggerConfig(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			reg := importer.DefaultRegistry()
			parser := reg.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown statement format %q (known: %s)", format, strings.Join(reg.Formats(), ", "))
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), log, p, parser, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse files without changing the project")
	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&format, "format", "camt053", "statement format")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, log *zap.Logger, p *project, parser importer.Parser, dryRun bool) error {
	files, err := importer.Scan(p.root, parser)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statement files to import.")
		return nil
	}

	led, err := ledger.Load(p.root)
	if err != nil {
		return err
	}

	var entries []importlog.Entry
	var failed, imported int
	for _, f := range files {
		flog := log.With(zap.String("file", f.Name))
		entry := importlog.Entry{Timestamp: time.Now(), File: f.Name}

		stmt, err := importer.ParseFile(parser, f.Path)
		if err != nil {
			flog.Error("parsing statement failed", zap.Error(err))
			fmt.Fprintf(out, "%s: failed: %v\n", f.Name, err)
			entry.Status, entry.Detail = importlog.StatusFailed, err.Error()
			entries = append(entries, entry)
			failed++
			continue
		}
		entry.StatementID = stmt.ID
		flog = flog.With(zap.String("statement", stmt.ID))

		if dryRun {
			flog.Info("parsed statement", zap.Int("transactions", len(stmt.Transactions)))
			fmt.Fprintf(out, "%s: statement %s, %d transactions (dry run)\n", f.Name, stmt.ID, len(stmt.Transactions))
			continue
		}

		res, err := led.Append(stmt)
		if err != nil {
			flog.Error("appending to ledger failed", zap.Error(err))
			fmt.Fprintf(out, "%s: failed: %v\n", f.Name, err)
			entry.Status, entry.Detail = importlog.StatusFailed, err.Error()
			entries = append(entries, entry)
			failed++
			continue
		}

		entry.Added, entry.Duplicates = res.Added, res.Duplicates
		if res.AlreadyImported {
			entry.Status = importlog.StatusSkipped
			flog.Warn("statement already imported")
			fmt.Fprintf(out, "%s: statement %s already imported\n", f.Name, stmt.ID)
		} else {
			entry.Status = importlog.StatusImported
			imported++
			flog.Info("imported statement", zap.Int("added", res.Added), zap.Int("duplicates", res.Duplicates))
			fmt.Fprintf(out, "%s: statement %s, %d added, %d duplicates\n", f.Name, stmt.ID, res.Added, res.Duplicates)
		}
		entries = append(entries, entry)

		// The ledger already holds the statement, so a file left behind is
		// skipped on the next run.
		stored, err := importer.MarkProcessed(p.root, f.Name)
		if err != nil {
			flog.Warn("moving file to processed failed", zap.Error(err))
		} else if stored != f.Name {
			flog.Info("processed file renamed", zap.String("stored_as", stored))
		}
	}

	if !dryRun {
		if err := importlog.Append(p.root, entries); err != nil {
			return fmt.Errorf("writing import log: %w", err)
		}
		if err := commitImport(ctx, log, p, imported); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(files))
	}
	return nil
}

func commitImport(ctx context.Context, log *zap.Logger, p *project, imported int) error {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.root) {
		return nil
	}
	dirty, err := gitops.Dirty(ctx, p.root)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}

	hash, err := gitops.CommitAll(ctx, p.root, fmt.Sprintf("import: %d statement(s)", imported), p.cfg.GitAuthor())
	if err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	log.Info("committed import", zap.String("commit", hash))
	return nil
}
