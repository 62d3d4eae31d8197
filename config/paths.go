// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for tabdock configuration and record storage.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

const configName = "tabdock.toml"

func configRoot() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tabdock"), nil
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, configName), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return expanded, nil
}

// StorePath returns the configured record store location, falling back to a
// backend-specific default under the config directory.
func (c Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return ExpandPath(c.Store.Path)
	}
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	switch c.Store.Backend {
	case BackendSQLite:
		return filepath.Join(root, "records.db"), nil
	case BackendDiskv:
		return filepath.Join(root, "records"), nil
	default:
		return filepath.Join(root, "records.json"), nil
	}
}
