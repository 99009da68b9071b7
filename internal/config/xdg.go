// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

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

// DefaultDataDir returns the default directory for recorded paths.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), "trailcap")
}

// PathsFile returns the per-sample CSV path inside a data directory.
func PathsFile(dataDir string) string {
	return filepath.Join(dataDir, "paths.csv")
}

// PropsFile returns the per-trial metadata CSV path inside a data directory.
func PropsFile(dataDir string) string {
	return filepath.Join(dataDir, "paths_props.csv")
}

// InterpolatedFile returns the interpolated-paths CSV path inside a data directory.
func InterpolatedFile(dataDir string) string {
	return filepath.Join(dataDir, "paths_interpolated.csv")
}

// DBPath returns the trial journal path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "trailcap.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "trailcap", "config.toml")
}
