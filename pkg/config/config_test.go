package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp switches the working directory to a fresh temp dir so Load()
// resolves config.yaml there, restoring the original dir on cleanup.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
	return tmpDir
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE",
		"PGMAX_CONNECTIONS", "PGSSLMODE", "IMPORT_TABLE_PREFIX", "IMPORT_LAYOUT_PATH",
		"IMPORT_BACKUP_DIR", "IMPORT_VERIFY_SAMPLE_SIZE", "LOG_FILE", "LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := chdirTemp(t)
	clearConfigEnv(t)

	yamlContent := `
env: "test"
database:
  host: "db.example.com"
  port: 5432
  user: "importer"
  database: "crewcall_test"
import:
  table_prefix: "wp_k7x2q_"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set env vars to override YAML values
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PGHOST", "prod-db.internal")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("expected Env=production (from env), got %s", cfg.Env)
	}
	if cfg.Database.Host != "prod-db.internal" {
		t.Errorf("expected Database.Host=prod-db.internal (from env), got %s", cfg.Database.Host)
	}

	// Verify version was set
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}

	// Verify YAML value used where no env override exists
	if cfg.Database.User != "importer" {
		t.Errorf("expected Database.User=importer (from yaml), got %s", cfg.Database.User)
	}
	if cfg.Import.TablePrefix != "wp_k7x2q_" {
		t.Errorf("expected Import.TablePrefix=wp_k7x2q_ (from yaml), got %s", cfg.Import.TablePrefix)
	}
}

func TestLoad_MissingConfigFileUsesDefaults(t *testing.T) {
	chdirTemp(t)
	clearConfigEnv(t)

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed without config.yaml: %v", err)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("expected Database.Host=localhost (default), got %s", cfg.Database.Host)
	}
	if cfg.Database.Database != "crewcall_engine" {
		t.Errorf("expected Database.Database=crewcall_engine (default), got %s", cfg.Database.Database)
	}
	if cfg.Import.TablePrefix != "wp_" {
		t.Errorf("expected Import.TablePrefix=wp_ (default), got %s", cfg.Import.TablePrefix)
	}
	if cfg.Import.BackupDir != "backups" {
		t.Errorf("expected Import.BackupDir=backups (default), got %s", cfg.Import.BackupDir)
	}
	if cfg.Import.VerifySampleSize != 25 {
		t.Errorf("expected Import.VerifySampleSize=25 (default), got %d", cfg.Import.VerifySampleSize)
	}
	if cfg.Logging.File != "crewctl.log" {
		t.Errorf("expected Logging.File=crewctl.log (default), got %s", cfg.Logging.File)
	}
}

func TestLoad_MissingConfigFileReadsEnv(t *testing.T) {
	chdirTemp(t)
	clearConfigEnv(t)

	t.Setenv("PGDATABASE", "crewcall_staging")
	t.Setenv("IMPORT_BACKUP_DIR", "/var/backups/crewcall")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Database != "crewcall_staging" {
		t.Errorf("expected Database.Database=crewcall_staging (from env), got %s", cfg.Database.Database)
	}
	if cfg.Import.BackupDir != "/var/backups/crewcall" {
		t.Errorf("expected Import.BackupDir=/var/backups/crewcall (from env), got %s", cfg.Import.BackupDir)
	}
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.internal.example",
		Port:     5433,
		User:     "crewcall",
		Password: "secret",
		Database: "crewcall_engine",
		SSLMode:  "disable",
	}

	got := c.ConnectionString()
	want := "host=db.internal.example port=5433 user=crewcall password=secret dbname=crewcall_engine sslmode=disable"
	if got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
	if !strings.Contains(got, "password=secret") {
		t.Errorf("expected password in connection string, got %q", got)
	}
}
