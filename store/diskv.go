// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/diskv.go
// Summary: One-file-per-item record store backed by diskv.

package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

const diskvRecordDir = "records"

// DiskvStore writes each entry as a JSON file named after its item ID.
type DiskvStore struct {
	d        *diskv.Diskv
	basePath string
}

func OpenDiskv(basePath string) (*DiskvStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("store: diskv needs a base path")
	}
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      256 * 1024,
	}), basePath: basePath}, nil
}

// Item IDs may contain path separators, so keys are their base64 form.
func itemKey(itemID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(itemID))
}

func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{diskvRecordDir}, FileName: key + ".json"}
}

func pathToKeyTransform(pk *diskv.PathKey) string {
	name := pk.FileName
	if len(name) > len(".json") {
		name = name[:len(name)-len(".json")]
	}
	return name
}

func (s *DiskvStore) Save(e Entry) error {
	if e.Updated.IsZero() {
		e.Updated = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.d.Write(itemKey(e.ItemID), data)
}

func (s *DiskvStore) Load(itemID string) (Entry, bool, error) {
	key := itemKey(itemID)
	if !s.d.Has(key) {
		return Entry{}, false, nil
	}
	e, err := s.read(key)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *DiskvStore) read(key string) (Entry, error) {
	val, err := s.d.Read(key)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return e, nil
}

func (s *DiskvStore) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	for key := range s.d.Keys(ctx.Done()) {
		e, err := s.read(key)
		if err != nil {
			log.Printf("Store: Skipping %s: %v", key, err)
			continue
		}
		entries = append(entries, e)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

func (s *DiskvStore) Delete(itemID string) error {
	key := itemKey(itemID)
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

func (s *DiskvStore) Close() error {
	return nil
}
