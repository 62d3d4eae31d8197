// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/recorder.go
// Summary: Listener that persists an item's record whenever the engine moves it.

package store

import (
	"log"
	"sync"

	"github.com/framegrace/tabdock/dock"
)

// Recorder saves ItemMoved events to a Store. Subscribe it to an engine.
type Recorder struct {
	store Store

	mu      sync.Mutex
	saved   int
	lastErr error
}

func NewRecorder(s Store) *Recorder {
	return &Recorder{store: s}
}

func (r *Recorder) OnEvent(ev dock.Event) {
	if ev.Type != dock.EventItemMoved {
		return
	}
	p, ok := ev.Payload.(dock.ItemMovedPayload)
	if !ok || p.Item == nil {
		return
	}
	err := r.store.Save(Entry{ItemID: p.Item.ID, Title: p.Item.Title, Record: p.Record})

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		log.Printf("Store: Failed to record item %q: %v", p.Item.ID, err)
		r.lastErr = err
		return
	}
	r.saved++
}

// Saved returns how many records were written.
func (r *Recorder) Saved() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved
}

// Err returns the most recent save failure.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
