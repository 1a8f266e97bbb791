// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and any $VAR environment references in a
// file path.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath returns the default location for the case database.
func DefaultDatabasePath() string {
	return "$HOME/.local/share/fraudlens/fraudlens.db"
}

// DefaultOutputDir returns the default directory for generated reports.
func DefaultOutputDir() string {
	return "$HOME/.local/share/fraudlens/reports"
}
