package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewcall-app/crewcall-engine/pkg/database"
)

var (
	migratePath   string
	migrateStatus bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Bring the store schema up to date. Only pending migrations run, so
the command is safe to repeat. With --status the current schema version
is printed instead and nothing changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logger, err := loadBase()
		if err != nil {
			return err
		}
		defer logger.Sync()

		sqlDB, err := openSQL(ctx, cfg)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if migrateStatus {
			version, dirty, ok, err := database.MigrationStatus(sqlDB, migratePath, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case !ok:
				fmt.Fprintln(out, "schema version: none (no migrations applied)")
			case dirty:
				fmt.Fprintf(out, "schema version: %d (dirty)\n", version)
				return fmt.Errorf("schema version %d is dirty, repair it before importing", version)
			default:
				fmt.Fprintf(out, "schema version: %d\n", version)
			}
			return nil
		}

		return database.RunMigrations(sqlDB, migratePath, logger)
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migratePath, "path", "migrations", "schema migrations directory")
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "print the current schema version without migrating")

	rootCmd.AddCommand(migrateCmd)
}
