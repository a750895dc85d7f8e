package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewcall-app/crewcall-engine/pkg/importer"
)

var backupDir string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a snapshot of the current store",
	Long: `Dump every imported table to a timestamped directory of JSONL files,
one file per table. The snapshot is self-contained and can be replayed
with 'crewctl restore'. The import pipeline writes the same snapshot
automatically before it clears anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := setup(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		dir := rt.cfg.Import.BackupDir
		if backupDir != "" {
			dir = backupDir
		}

		path, err := importer.WriteSnapshot(ctx, rt.db, dir, rt.logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupDir, "dir", "", "snapshot parent directory, overrides config")
	rootCmd.AddCommand(backupCmd)
}
