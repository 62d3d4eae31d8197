// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/restore.go
// Summary: Replays persisted item placement records to rebuild layouts on load.
// Usage: Called once per load with the group that initially hosts every saved item.

package dock

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// RestorePolicy tunes how saved placements are replayed.
type RestorePolicy struct {
	// FirstItemAlwaysPlaced applies the first item's recorded location even
	// when it is flagged as living outside the main window. This establishes
	// the baseline layout.
	FirstItemAlwaysPlaced bool
}

func DefaultRestorePolicy() RestorePolicy {
	return RestorePolicy{FirstItemAlwaysPlaced: true}
}

// ItemFailure records an item that could not be restored.
type ItemFailure struct {
	Item *Item
	Err  error
}

// RestoreReport summarizes a RestoreAll pass.
type RestoreReport struct {
	// Placed items were docked into a tree.
	Placed []*Item
	// Detached items were moved to a new top-level window.
	Detached []*Item
	// InPlace items had no recorded location and stayed where they were.
	InPlace []*Item
	Failed  []ItemFailure
}

// Err joins every per-item failure, or returns nil.
func (r RestoreReport) Err() error {
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// Restorer rebuilds layouts through the same engine primitives as drag.
type Restorer struct {
	engine *Engine
	policy RestorePolicy
}

func NewRestorer(engine *Engine, policy RestorePolicy) *Restorer {
	return &Restorer{engine: engine, policy: policy}
}

type outcomeKind int

const (
	outcomeInPlace outcomeKind = iota
	outcomePlaced
	outcomeDetached
)

type restoreOutcome struct {
	kind   outcomeKind
	group  *TabGroup
	window WindowID
}

// RestoreOne replays a single item's record. A non-main-window item that is
// not being restored is moved into a newly created window which is shown
// immediately; an Unset location leaves the item in place.
func (r *Restorer) RestoreOne(ctx context.Context, target *TabGroup, item *Item, isRestoring bool) (bool, error) {
	out, err := r.restoreOne(ctx, target, item, isRestoring)
	if err != nil {
		return false, err
	}
	if out.kind == outcomeDetached {
		r.engine.windows.ShowWindow(out.window)
	}
	return true, nil
}

func (r *Restorer) restoreOne(ctx context.Context, target *TabGroup, item *Item, isRestoring bool) (restoreOutcome, error) {
	if item == nil {
		return restoreOutcome{}, fmt.Errorf("%w: nil item", ErrRestore)
	}
	if err := ctx.Err(); err != nil {
		return restoreOutcome{}, fmt.Errorf("%w: item %q: %w", ErrRestore, item.ID, err)
	}
	rec := item.Record
	e := r.engine

	if !rec.IsMainWindow && !isRestoring {
		if e.windows == nil {
			return restoreOutcome{}, fmt.Errorf("%w: item %q needs its own window but no window host is set", ErrRestore, item.ID)
		}
		w, group, err := e.windows.CreateWindow(partitionOf(target))
		if err != nil {
			return restoreOutcome{}, fmt.Errorf("%w: item %q: %w", ErrRestore, item.ID, err)
		}
		if group == nil {
			return restoreOutcome{}, fmt.Errorf("%w: item %q: window %q has no group", ErrRestore, item.ID, w)
		}
		group.Add(item)
		group.Select(item)
		e.events.Broadcast(Event{Type: EventWindowDeferred, Payload: WindowDeferredPayload{Window: w, Item: item}})
		return restoreOutcome{kind: outcomeDetached, group: group, window: w}, nil
	}

	if rec.Location == LocationUnset {
		return restoreOutcome{kind: outcomeInPlace}, nil
	}

	root := e.registry.Lookup(rec.LayoutRootName)
	if root == nil {
		if report, err := e.registry.Find(target); err == nil {
			root = report.Root
		}
	}
	if root == nil {
		return restoreOutcome{}, fmt.Errorf("%w: item %q: no loaded root named %q", ErrRestore, item.ID, rec.LayoutRootName)
	}

	group, err := e.materialize(ctx, root.Partition, target)
	if err != nil {
		return restoreOutcome{}, fmt.Errorf("%w: item %q: %w", ErrRestore, item.ID, err)
	}
	e.dock(root, rec.Location, item, group, rec.TabGroupName)
	return restoreOutcome{kind: outcomePlaced, group: group}, nil
}

// RestoreAll replays items in order. Items sharing a tab group name form a
// batch: one driver item creates the group and the rest are merged into it
// without further branching. Windows created for a batch are shown once the
// batch finishes. Failures are reported per item and never stop the pass.
func (r *Restorer) RestoreAll(ctx context.Context, target *TabGroup, items []*Item) RestoreReport {
	var report RestoreReport
	if len(items) == 0 {
		return report
	}
	first := items[0]

	for _, batch := range batchByGroupName(items) {
		var deferred []WindowID
		driver := batch[0]
		if !containsItem(batch, first) {
			for _, it := range batch {
				if it.Record.IsMainWindow {
					driver = it
					break
				}
			}
		} else {
			driver = first
		}

		out, err := r.restoreOne(ctx, target, driver, r.isRestoring(driver, first))
		r.record(&report, driver, out, err)
		if out.kind == outcomeDetached {
			deferred = append(deferred, out.window)
		}

		for _, it := range batch {
			if it == driver {
				continue
			}
			if err == nil && out.kind != outcomeInPlace {
				r.merge(&report, it, driver, out)
				continue
			}
			itOut, itErr := r.restoreOne(ctx, target, it, r.isRestoring(it, first))
			r.record(&report, it, itOut, itErr)
			if itOut.kind == outcomeDetached {
				deferred = append(deferred, itOut.window)
			}
			// The first item that actually lands somewhere drives the rest.
			if itErr == nil && itOut.kind != outcomeInPlace {
				driver, out, err = it, itOut, nil
			}
		}

		for _, w := range deferred {
			r.engine.windows.ShowWindow(w)
		}
	}
	return report
}

func (r *Restorer) isRestoring(item, first *Item) bool {
	return item == first && r.policy.FirstItemAlwaysPlaced
}

// merge moves item into the group its batch driver produced.
func (r *Restorer) merge(report *RestoreReport, item, driver *Item, out restoreOutcome) {
	out.group.Add(item)
	switch out.kind {
	case outcomePlaced:
		item.Record = driver.Record
		report.Placed = append(report.Placed, item)
		r.engine.events.Broadcast(Event{Type: EventItemMoved, Payload: ItemMovedPayload{Item: item, Record: item.Record}})
	case outcomeDetached:
		report.Detached = append(report.Detached, item)
	}
}

func (r *Restorer) record(report *RestoreReport, item *Item, out restoreOutcome, err error) {
	if err != nil {
		log.Printf("Restore: Skipping item: %v", err)
		report.Failed = append(report.Failed, ItemFailure{Item: item, Err: err})
		return
	}
	switch out.kind {
	case outcomePlaced:
		report.Placed = append(report.Placed, item)
	case outcomeDetached:
		report.Detached = append(report.Detached, item)
	default:
		report.InPlace = append(report.InPlace, item)
	}
}

// batchByGroupName groups items by record tab group name, keeping the order
// of first appearance. Items without a name form batches of one.
func batchByGroupName(items []*Item) [][]*Item {
	var batches [][]*Item
	index := make(map[string]int)
	for _, it := range items {
		if it == nil {
			continue
		}
		name := it.Record.TabGroupName
		if name == "" {
			batches = append(batches, []*Item{it})
			continue
		}
		if i, ok := index[name]; ok {
			batches[i] = append(batches[i], it)
			continue
		}
		index[name] = len(batches)
		batches = append(batches, []*Item{it})
	}
	return batches
}

func containsItem(items []*Item, item *Item) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}

func partitionOf(g *TabGroup) string {
	if g == nil {
		return ""
	}
	return g.Partition
}
