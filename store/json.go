// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/json.go
// Summary: Single-file JSON record store with a content hash for integrity checks.

package store

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JSONStore keeps all records in memory and rewrites the file on each change.
type JSONStore struct {
	path    string
	mu      sync.Mutex
	entries map[string]Entry
}

// storedFile is the serialized representation written to disk.
type storedFile struct {
	Timestamp time.Time `json:"timestamp"`
	Hash      string    `json:"hash"`
	Entries   []Entry   `json:"entries"`
}

// OpenJSON loads path if it exists.
func OpenJSON(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, entries: make(map[string]Entry)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	var stored storedFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if stored.Hash != hashEntries(stored.Entries) {
		return nil, fmt.Errorf("%w: %s: hash mismatch", ErrCorrupt, path)
	}
	for _, e := range stored.Entries {
		s.entries[e.ItemID] = e
	}
	return s, nil
}

// hashEntries length-prefixes every field so adjacent fields cannot run
// into each other.
func hashEntries(entries []Entry) string {
	hasher := sha1.New()
	field := func(v string) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(v)))
		hasher.Write(n[:])
		hasher.Write([]byte(v))
	}
	for _, e := range entries {
		field(e.ItemID)
		field(e.Title)
		field(e.Record.Location.String())
		field(e.Record.LayoutRootName)
		field(e.Record.TabGroupName)
		if e.Record.IsMainWindow {
			hasher.Write([]byte{1})
		} else {
			hasher.Write([]byte{0})
		}
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func (s *JSONStore) Save(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Updated.IsZero() {
		e.Updated = time.Now().UTC()
	}
	prev, had := s.entries[e.ItemID]
	s.entries[e.ItemID] = e
	if err := s.flushLocked(); err != nil {
		if had {
			s.entries[e.ItemID] = prev
		} else {
			delete(s.entries, e.ItemID)
		}
		return err
	}
	return nil
}

func (s *JSONStore) Load(itemID string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[itemID]
	return e, ok, nil
}

func (s *JSONStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.sortedLocked(), nil
}

func (s *JSONStore) Delete(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.entries[itemID]
	if !ok {
		return nil
	}
	delete(s.entries, itemID)
	if err := s.flushLocked(); err != nil {
		s.entries[itemID] = prev
		return err
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) sortedLocked() []Entry {
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries
}

func (s *JSONStore) flushLocked() error {
	entries := s.sortedLocked()
	stored := storedFile{
		Timestamp: time.Now().UTC(),
		Hash:      hashEntries(entries),
		Entries:   entries,
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
