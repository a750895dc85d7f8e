package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
	"github.com/crewcall-app/crewcall-engine/pkg/importer"
)

var (
	restoreDir string
	restoreYes bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the store contents with a snapshot",
	Long: `Clear every imported table and replay the snapshot written by
'crewctl backup' or by a previous import run. The whole restore runs in
one transaction: it either replaces everything or changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		if !restoreYes {
			prompt := fmt.Sprintf(
				"This clears every imported table in %q and replays %s. Continue? [y/N] ",
				rt.cfg.Database.Database, restoreDir)
			if !confirm(cmd, prompt) {
				return apperrors.ErrRunAborted
			}
		}

		counts, err := importer.RestoreSnapshot(ctx, rt.db, restoreDir, rt.logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "restored %d rows from %s\n", counts.Total(), restoreDir)
		fmt.Fprintf(out, "  skills: %d, brands: %d, languages: %d, people: %d\n",
			counts.Skills, counts.Brands, counts.Languages, counts.People)
		fmt.Fprintf(out, "  job postings: %d, schedule entries: %d, skill assignments: %d, language assignments: %d\n",
			counts.JobPostings, counts.ScheduleEntries, counts.SkillAssignments, counts.LanguageAssignments)
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringVar(&restoreDir, "dir", "", "snapshot directory to replay (required)")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "skip the confirmation prompt")
	restoreCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(restoreCmd)
}
