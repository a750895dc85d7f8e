package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
	"github.com/crewcall-app/crewcall-engine/pkg/config"
	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/importer"
)

var (
	importDump       string
	importPrefix     string
	importLayout     string
	importMigrations string
	importSample     int
	importDryRun     bool
	importJSON       bool
	importYes        bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Run the full import pipeline against a legacy export",
	Long: `Run the reconstruction pipeline: validate the export, snapshot the
current store, clear it, import every entity type in dependency order
and verify the result.

The run is destructive: every imported table is emptied before the
import writes. A snapshot is written first and can be replayed with
'crewctl restore'. Use --dry-run to see what a run would import without
touching the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		opts := importOptions(rt.cfg)

		if !opts.DryRun && !importYes {
			prompt := fmt.Sprintf(
				"This clears every imported table in %q and re-imports from %s. Continue? [y/N] ",
				rt.cfg.Database.Database, opts.DumpPath)
			if !confirm(cmd, prompt) {
				return apperrors.ErrRunAborted
			}
		}

		// The pipeline assumes the schema exists; applying pending
		// migrations first is idempotent.
		if !opts.DryRun {
			sqlDB, err := openSQL(ctx, rt.cfg)
			if err != nil {
				return err
			}
			err = database.RunMigrations(sqlDB, importMigrations, rt.logger)
			sqlDB.Close()
			if err != nil {
				return err
			}
		}

		report, runErr := importer.New(rt.db, rt.logger, opts).Run(ctx)
		if err := printReport(cmd, report, importJSON); err != nil {
			return err
		}
		return runErr
	},
}

func init() {
	importCmd.Flags().StringVar(&importDump, "dump", "", "path to the legacy mysqldump export (required)")
	importCmd.Flags().StringVar(&importPrefix, "prefix", "", "source table prefix, overrides config")
	importCmd.Flags().StringVar(&importLayout, "layout", "", "source table layout YAML, overrides the embedded layouts")
	importCmd.Flags().IntVar(&importSample, "sample", 0, "verification sample size per entity type, overrides config")
	importCmd.Flags().StringVar(&importMigrations, "migrations", "migrations", "schema migrations directory")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse, validate and plan without touching the store")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "emit the run report as JSON")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "skip the confirmation prompt")
	importCmd.MarkFlagRequired("dump")

	rootCmd.AddCommand(importCmd)
}

// importOptions merges config defaults with command flags.
func importOptions(cfg *config.Config) importer.Options {
	opts := importer.Options{
		DumpPath:    importDump,
		TablePrefix: cfg.Import.TablePrefix,
		LayoutPath:  cfg.Import.LayoutPath,
		BackupDir:   cfg.Import.BackupDir,
		SampleSize:  cfg.Import.VerifySampleSize,
		DryRun:      importDryRun,
	}
	if importPrefix != "" {
		opts.TablePrefix = importPrefix
	}
	if importLayout != "" {
		opts.LayoutPath = importLayout
	}
	if importSample > 0 {
		opts.SampleSize = importSample
	}
	return opts
}

// confirm prompts on stdout and reads one line from stdin. Anything but
// an explicit yes declines.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printReport(cmd *cobra.Command, report *importer.RunReport, asJSON bool) error {
	if report == nil {
		return nil
	}
	if asJSON {
		b, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}
	return report.WriteText(cmd.OutOrStdout())
}
