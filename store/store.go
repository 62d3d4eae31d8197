// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/store.go
// Summary: Persistence contract for item location records and backend selection.
// Usage: Open(cfg) picks a backend; Recorder keeps it current; Apply hydrates items before restore.

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/framegrace/tabdock/config"
	"github.com/framegrace/tabdock/dock"
)

// ErrCorrupt is returned when a stored file fails its integrity check.
var ErrCorrupt = errors.New("store: corrupt data")

// Entry is one persisted record.
type Entry struct {
	ItemID  string                  `json:"item_id" yaml:"item_id"`
	Title   string                  `json:"title,omitempty" yaml:"title,omitempty"`
	Record  dock.ItemLocationRecord `json:"record" yaml:"record"`
	Updated time.Time               `json:"updated" yaml:"updated"`
}

// Store persists the last known placement of each item.
type Store interface {
	Save(e Entry) error
	// Load returns false when no record exists for itemID.
	Load(itemID string) (Entry, bool, error)
	// List returns every entry ordered by item ID.
	List(ctx context.Context) ([]Entry, error)
	Delete(itemID string) error
	Close() error
}

// Open builds the backend named by cfg.
func Open(cfg config.Config) (Store, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case config.BackendJSON, "":
		return OpenJSON(path)
	case config.BackendSQLite:
		return OpenSQLite(path)
	case config.BackendDiskv:
		return OpenDiskv(path)
	}
	return nil, fmt.Errorf("store: unknown backend %q", cfg.Store.Backend)
}

// Apply copies stored records onto items and returns how many matched.
func Apply(s Store, items []*dock.Item) (int, error) {
	n := 0
	for _, it := range items {
		if it == nil {
			continue
		}
		e, ok, err := s.Load(it.ID)
		if err != nil {
			return n, fmt.Errorf("load record for %q: %w", it.ID, err)
		}
		if !ok {
			continue
		}
		it.Record = e.Record
		n++
	}
	return n, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ItemID < entries[j].ItemID
	})
}
