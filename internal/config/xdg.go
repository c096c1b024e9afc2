// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DataDirEnv names the environment variable that points at the artifact directory.
const DataDirEnv = "QS_DATA"

// DefaultDataDir is used when neither flag, config, nor environment set a data directory.
const DefaultDataDir = "data"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the default path for the SQLite run history.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "mcpi", "mcpi.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "mcpi", "config.toml")
}

// EnvDataDir returns the data directory from the environment, or DefaultDataDir.
func EnvDataDir() string {
	if v := strings.TrimSpace(os.Getenv(DataDirEnv)); v != "" {
		return v
	}
	return DefaultDataDir
}
