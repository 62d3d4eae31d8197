// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Typed configuration for the layout engine, drag tracker, restorer and record store.

package config

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/framegrace/tabdock/defaults"
)

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// Config is the full tabdock configuration.
type Config struct {
	Layout  Layout  `toml:"layout" json:"layout"`
	Drag    Drag    `toml:"drag" json:"drag"`
	Restore Restore `toml:"restore" json:"restore"`
	Store   Store   `toml:"store" json:"store"`
}

type Layout struct {
	DefaultProportion float64 `toml:"default_proportion" json:"default_proportion"`
	RealizeAttempts   int     `toml:"realize_attempts" json:"realize_attempts"`
}

type Drag struct {
	ZoneThickness int `toml:"zone_thickness" json:"zone_thickness"`
}

type Restore struct {
	FirstItemAlwaysPlaced bool `toml:"first_item_always_placed" json:"first_item_always_placed"`
}

// Store selects where item location records are persisted.
type Store struct {
	Backend string `toml:"backend" json:"backend"`
	// Path is a file for json and sqlite, a directory for diskv.
	Path string `toml:"path" json:"path"`
}

var (
	defaultsOnce sync.Once
	embedded     Config
)

// builtin mirrors defaults/tabdock.toml and is used only if the embedded
// copy cannot be decoded.
var builtin = Config{
	Layout:  Layout{DefaultProportion: 0.5, RealizeAttempts: 3},
	Drag:    Drag{ZoneThickness: 3},
	Restore: Restore{FirstItemAlwaysPlaced: true},
	Store:   Store{Backend: BackendJSON},
}

// Default returns the embedded default configuration.
func Default() Config {
	defaultsOnce.Do(func() {
		embedded = builtin
		data, err := defaults.Config()
		if err != nil {
			log.Printf("Config: Failed to read embedded defaults: %v", err)
			return
		}
		var cfg Config
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			log.Printf("Config: Failed to decode embedded defaults: %v", err)
			return
		}
		embedded = cfg
	})
	return embedded
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	p := c.Layout.DefaultProportion
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("layout.default_proportion %v outside [0,1]", p)
	}
	if c.Layout.RealizeAttempts < 0 {
		return fmt.Errorf("layout.realize_attempts must not be negative, got %d", c.Layout.RealizeAttempts)
	}
	if c.Drag.ZoneThickness < 1 {
		return fmt.Errorf("drag.zone_thickness must be at least 1, got %d", c.Drag.ZoneThickness)
	}
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite, BackendDiskv:
	default:
		return fmt.Errorf("store.backend %q is not one of json, sqlite, diskv", c.Store.Backend)
	}
	return nil
}
