// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/framegrace/tabdock/config"
	"github.com/framegrace/tabdock/dock"
)

func openAll(t *testing.T) map[string]func() Store {
	t.Helper()
	dir := t.TempDir()
	open := func(backend string) func() Store {
		return func() Store {
			cfg := config.Default()
			cfg.Store.Backend = backend
			cfg.Store.Path = filepath.Join(dir, backend, "records")
			s, err := Open(cfg)
			if err != nil {
				t.Fatalf("%s: open: %v", backend, err)
			}
			return s
		}
	}
	return map[string]func() Store{
		config.BackendJSON:   open(config.BackendJSON),
		config.BackendSQLite: open(config.BackendSQLite),
		config.BackendDiskv:  open(config.BackendDiskv),
	}
}

func TestStoresPersistAcrossReopen(t *testing.T) {
	for backend, open := range openAll(t) {
		s := open()
		right := dock.ItemLocationRecord{Location: dock.LocationRight, LayoutRootName: "R", IsMainWindow: true, TabGroupName: "X"}
		if err := s.Save(Entry{ItemID: "docs/readme", Title: "README", Record: right}); err != nil {
			t.Fatalf("%s: save: %v", backend, err)
		}
		if err := s.Save(Entry{ItemID: "a", Record: dock.ItemLocationRecord{Location: dock.LocationTop}}); err != nil {
			t.Fatalf("%s: save a: %v", backend, err)
		}
		// Overwrite keeps one entry per item.
		right.TabGroupName = "Y"
		if err := s.Save(Entry{ItemID: "docs/readme", Title: "README", Record: right}); err != nil {
			t.Fatalf("%s: resave: %v", backend, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("%s: close: %v", backend, err)
		}

		s = open()
		defer s.Close()
		got, ok, err := s.Load("docs/readme")
		if err != nil || !ok {
			t.Fatalf("%s: load: %v %v", backend, ok, err)
		}
		if got.Record != right || got.Title != "README" || got.Updated.IsZero() {
			t.Fatalf("%s: unexpected entry %+v", backend, got)
		}
		entries, err := s.List(testContext(t))
		if err != nil {
			t.Fatalf("%s: list: %v", backend, err)
		}
		if len(entries) != 2 || entries[0].ItemID != "a" || entries[1].ItemID != "docs/readme" {
			t.Fatalf("%s: unexpected list %+v", backend, entries)
		}
		if entries[0].Record.Location != dock.LocationTop || entries[0].Record.Location.Orientation() != dock.Vertical {
			t.Fatalf("%s: location lost: %+v", backend, entries[0].Record)
		}

		if err := s.Delete("a"); err != nil {
			t.Fatalf("%s: delete: %v", backend, err)
		}
		if err := s.Delete("never-saved"); err != nil {
			t.Fatalf("%s: deleting a missing item should be a no-op: %v", backend, err)
		}
		if _, ok, _ := s.Load("a"); ok {
			t.Fatalf("%s: deleted entry still present", backend)
		}
	}
}

func TestJSONStoreDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	s, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(Entry{ItemID: "a", Record: dock.ItemLocationRecord{Location: dock.LocationLeft, LayoutRootName: "R"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tampered := strings.Replace(string(data), `"layoutRootName": "R"`, `"layoutRootName": "Q"`, 1)
	if tampered == string(data) {
		t.Fatalf("fixture did not contain the root name")
	}
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenJSON(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected corrupt error, got %v", err)
	}
}

func TestHashSeparatesAdjacentFields(t *testing.T) {
	a := hashEntries([]Entry{{ItemID: "ab", Title: "c"}})
	b := hashEntries([]Entry{{ItemID: "a", Title: "bc"}})
	if a == b {
		t.Fatalf("shifted field boundary produced the same hash %s", a)
	}
	c := hashEntries([]Entry{{ItemID: "a", Record: dock.ItemLocationRecord{LayoutRootName: "R", TabGroupName: ""}}})
	d := hashEntries([]Entry{{ItemID: "a", Record: dock.ItemLocationRecord{LayoutRootName: "", TabGroupName: "R"}}})
	if c == d {
		t.Fatalf("root and group names hashed alike")
	}
}

func TestApplyHydratesMatchingItems(t *testing.T) {
	s, err := OpenJSON(filepath.Join(t.TempDir(), "records.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := dock.ItemLocationRecord{Location: dock.LocationBottom, LayoutRootName: "R", IsMainWindow: false}
	if err := s.Save(Entry{ItemID: "b", Record: rec}); err != nil {
		t.Fatalf("save: %v", err)
	}
	a, b := dock.NewItem("a", "A"), dock.NewItem("b", "B")
	n, err := Apply(s, []*dock.Item{a, b, nil})
	if err != nil || n != 1 {
		t.Fatalf("apply: %d %v", n, err)
	}
	if b.Record != rec {
		t.Fatalf("record not applied: %+v", b.Record)
	}
	if a.Record.Location != dock.LocationUnset || !a.Record.IsMainWindow {
		t.Fatalf("unmatched item should keep its default record: %+v", a.Record)
	}
}

func TestRecorderSavesMovedItems(t *testing.T) {
	s, err := OpenJSON(filepath.Join(t.TempDir(), "records.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := NewRecorder(s)
	item := dock.NewItem("x", "X")
	moved := dock.ItemLocationRecord{Location: dock.LocationRight, LayoutRootName: "R", IsMainWindow: true, TabGroupName: "G"}

	rec.OnEvent(dock.Event{Type: dock.EventTreeChanged})
	rec.OnEvent(dock.Event{Type: dock.EventItemMoved, Payload: dock.ItemMovedPayload{Item: item, Record: moved}})
	if rec.Saved() != 1 || rec.Err() != nil {
		t.Fatalf("expected one save, got %d (%v)", rec.Saved(), rec.Err())
	}
	got, ok, _ := s.Load("x")
	if !ok || got.Record != moved || got.Title != "X" {
		t.Fatalf("unexpected stored entry %+v", got)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "redis"
	cfg.Store.Path = filepath.Join(t.TempDir(), "x")
	if _, err := Open(cfg); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
