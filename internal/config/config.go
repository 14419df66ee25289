// ABOUTME: Configuration loading and parsing for tendril
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport modes for the persistence bridge.
const (
	TransportHost   = "host"
	TransportDirect = "direct"
)

// Config represents the complete tendril configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	Logging  LoggingConfig  `yaml:"logging"`
	Backup   BackupConfig   `yaml:"backup"`
}

// DatabaseConfig holds store location configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// BridgeConfig holds persistence bridge configuration.
type BridgeConfig struct {
	// Transport selects how commands reach the engine: "host" runs the
	// engine on its own goroutine, "direct" runs it inline.
	Transport string `yaml:"transport"`

	StartupTimeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	StartupTimeoutRaw string `yaml:"startup_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BackupConfig holds export/backup defaults.
type BackupConfig struct {
	// Dir is where exports land when no explicit path is given.
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(home, ".local", "share", "tendril", "tendril.db"),
		},
		Bridge: BridgeConfig{
			Transport:      TransportHost,
			StartupTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Backup: BackupConfig{
			Dir: filepath.Join(home, ".local", "share", "tendril", "backups"),
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
// Fields left unset fall back to Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Bridge.Transport != TransportHost && c.Bridge.Transport != TransportDirect {
		return fmt.Errorf("bridge.transport must be %q or %q, got %q",
			TransportHost, TransportDirect, c.Bridge.Transport)
	}

	if c.Bridge.StartupTimeout <= 0 {
		return fmt.Errorf("bridge.startup_timeout must be positive")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Bridge.StartupTimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.Bridge.StartupTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing startup_timeout %q: %w", cfg.Bridge.StartupTimeoutRaw, err)
		}
		cfg.Bridge.StartupTimeout = d
	}
	return nil
}
