// ABOUTME: User preference loading for the tendril CLI
// ABOUTME: Loads TOML prefs from XDG path with environment variable expansion

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// UserPrefs holds display and oracle preferences. These are cosmetic
// knobs separate from the main config: losing this file never affects
// stored data.
type UserPrefs struct {
	Display DisplayPrefs `toml:"display"`
	Oracle  OraclePrefs  `toml:"oracle"`
}

type DisplayPrefs struct {
	// DateFormat is a Go reference layout for printing dates.
	DateFormat string `toml:"date_format"`
	Color      bool   `toml:"color"`
}

type OraclePrefs struct {
	// MaxMinutes caps suggestion length when the draw command gets no
	// explicit --max flag. Zero means no cap.
	MaxMinutes int `toml:"max_minutes"`
	// ExcludedCategories are category ids never drawn from.
	ExcludedCategories []string `toml:"excluded_categories"`
}

func defaultPrefs() *UserPrefs {
	return &UserPrefs{
		Display: DisplayPrefs{
			DateFormat: "2006-01-02",
			Color:      true,
		},
	}
}

func prefsPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tendril", "prefs.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "prefs.toml"
	}
	return filepath.Join(home, ".config", "tendril", "prefs.toml")
}

// loadPrefs reads user preferences, expanding environment variables.
// A missing file yields defaults.
func loadPrefs() (*UserPrefs, error) {
	path := prefsPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultPrefs(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading prefs file: %w", err)
	}

	expanded := expandPrefsEnvVars(string(data))

	prefs := defaultPrefs()
	if _, err := toml.Decode(expanded, prefs); err != nil {
		return nil, fmt.Errorf("parsing prefs: %w", err)
	}

	if prefs.Oracle.MaxMinutes < 0 {
		return nil, fmt.Errorf("oracle.max_minutes must not be negative")
	}
	if prefs.Display.DateFormat == "" {
		prefs.Display.DateFormat = "2006-01-02"
	}

	return prefs, nil
}

// expandPrefsEnvVars replaces ${VAR} with environment variable values.
func expandPrefsEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}
