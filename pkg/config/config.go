package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for crewcall-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (PGPASSWORD) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Import pipeline defaults, overridable per run by crewctl flags
	Import ImportConfig `yaml:"import"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"crewcall"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"crewcall_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ImportConfig holds import pipeline settings.
type ImportConfig struct {
	// TablePrefix is the source site's table prefix including the trailing
	// underscore, e.g. "wp_k7x2q_". Every site export randomizes it.
	TablePrefix string `yaml:"table_prefix" env:"IMPORT_TABLE_PREFIX" env-default:"wp_"`

	// LayoutPath points at a YAML file overriding the embedded source table
	// layouts. Empty uses the embedded layouts.
	LayoutPath string `yaml:"layout_path" env:"IMPORT_LAYOUT_PATH" env-default:""`

	// BackupDir is where pre-import snapshots are written.
	BackupDir string `yaml:"backup_dir" env:"IMPORT_BACKUP_DIR" env-default:"backups"`

	// VerifySampleSize is how many legacy ids per entity type the verify
	// phase round-trips against the store.
	VerifySampleSize int `yaml:"verify_sample_size" env:"IMPORT_VERIFY_SAMPLE_SIZE" env-default:"25"`
}

// LoggingConfig controls crewctl log output.
type LoggingConfig struct {
	// File is the rotating log file path. Empty disables file logging.
	File       string `yaml:"file" env:"LOG_FILE" env-default:"crewctl.log"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"20"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"3"`
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The file is optional for a CLI run: when it is absent,
// environment variables and defaults apply alone. The version parameter is
// injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string. Loopback hosts
// are rewritten for containerized runs, see ResolveHost.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ResolveHost(c.Host), c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
