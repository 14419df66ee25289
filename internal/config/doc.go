// Package config handles configuration loading for tendril.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from TENDRIL_CONFIG environment variable
//  2. ~/.config/tendril/config.yaml
//
// When no file exists, Default() values apply.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${TENDRIL_DB_PATH}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	bridge:
//	  startup_timeout: "10s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "~/.local/share/tendril/tendril.db"
//
// Bridge:
//
//	bridge:
//	  transport: "host"        # host, direct
//	  startup_timeout: "10s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Backup:
//
//	backup:
//	  dir: "~/.local/share/tendril/backups"
//
// # Validation
//
// Load() validates:
//
//   - Database path presence
//   - Transport mode values
//   - Duration format validity
//   - Logging format values
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/home/me/.config/tendril/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
