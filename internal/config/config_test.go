// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "./test.db"

bridge:
  transport: "direct"
  startup_timeout: "3s"

logging:
  level: "debug"
  format: "json"

backup:
  dir: "./backups"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Bridge.Transport != TransportDirect {
		t.Errorf("Bridge.Transport = %q, want %q", cfg.Bridge.Transport, TransportDirect)
	}
	if cfg.Bridge.StartupTimeout != 3*time.Second {
		t.Errorf("Bridge.StartupTimeout = %v, want 3s", cfg.Bridge.StartupTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
	if cfg.Backup.Dir != "./backups" {
		t.Errorf("Backup.Dir = %q, want %q", cfg.Backup.Dir, "./backups")
	}
}

func TestLoad_DefaultsApply(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "./test.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Bridge.Transport != TransportHost {
		t.Errorf("Bridge.Transport = %q, want default %q", cfg.Bridge.Transport, TransportHost)
	}
	if cfg.Bridge.StartupTimeout != 10*time.Second {
		t.Errorf("Bridge.StartupTimeout = %v, want default 10s", cfg.Bridge.StartupTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TENDRIL_TEST_DB", "/tmp/expanded.db")

	configPath := writeConfig(t, `
database:
  path: "${TENDRIL_TEST_DB}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/expanded.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/expanded.db")
	}
}

func TestLoad_UnsetEnvVarBecomesEmpty(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "${TENDRIL_DEFINITELY_UNSET_VAR}"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected validation error for empty database path")
	}
	if !strings.Contains(err.Error(), "database.path is required") {
		t.Errorf("Load() error = %v, want database.path validation failure", err)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "./test.db"
bridge:
  startup_timeout: "not-a-duration"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "startup_timeout") {
		t.Errorf("Load() error = %v, want startup_timeout parse failure", err)
	}
}

func TestLoad_InvalidTransport(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "./test.db"
bridge:
  transport: "carrier-pigeon"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid transport")
	}
	if !strings.Contains(err.Error(), "bridge.transport") {
		t.Errorf("Load() error = %v, want transport validation failure", err)
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "./test.db"
logging:
  format: "xml"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid log format")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() config fails validation: %v", err)
	}
}
