package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/config"
	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "crewctl",
	Short: "CrewCall legacy import toolkit",
	Long: `crewctl rebuilds a CrewCall store from a legacy site export.

It parses the mysqldump file the old site produced, reconstructs the
normalized model (skills, brands, languages, people, job postings and
assignments) and imports it into PostgreSQL, preserving legacy ids.
Every import clears the store first; a snapshot is written before
anything is deleted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug detail to stderr")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runtime bundles what every store-touching command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB
}

// loadBase loads configuration and builds the logger.
func loadBase() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(Version)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.NewLogger(cfg.Logging, flagVerbose), nil
}

// setup loads configuration, builds the logger and opens the pool.
func setup(ctx context.Context) (*runtime, error) {
	cfg, logger, err := loadBase()
	if err != nil {
		return nil, err
	}

	connStr := cfg.Database.ConnectionString()
	logger.Info("Connecting to database",
		zap.String("dsn", logging.SanitizeConnectionString(connStr)))

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, db: db}, nil
}

func (rt *runtime) close() {
	rt.db.Close()
	_ = rt.logger.Sync()
}

// openSQL opens a database/sql handle for the migration tooling, which
// cannot drive a pgx pool directly.
func openSQL(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
