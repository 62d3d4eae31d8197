// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/drag.go
// Summary: Tracks an in-progress drag across every loaded root and which drop zone is offered.
// Usage: Hosts forward drag start/delta/completion events; completion may dock the dragged item.

package dock

import (
	"context"
	"fmt"
	"log"
)

// DragState is the tracker's position in the drag lifecycle.
type DragState int

const (
	DragIdle DragState = iota
	DragStarted
	DragArmed
	DragTracking
	DragDone
)

func (s DragState) String() string {
	switch s {
	case DragStarted:
		return "DragStarted"
	case DragArmed:
		return "Armed"
	case DragTracking:
		return "Tracking"
	case DragDone:
		return "Completed"
	default:
		return "Idle"
	}
}

// OfferedZone is the single drop zone currently offered to the user.
type OfferedZone struct {
	Root *Root
	Zone *DropZone
}

// DragSession holds the transient state of one drag.
type DragSession struct {
	Item            *Item
	SourcePartition string
	SourceWindow    WindowID
	Participants    []*Root
	// Offered is nil while no zone is under the cursor.
	Offered *OfferedZone

	pendingWireup bool
}

// PendingWireup reports whether participating roots are still to be chosen.
func (s *DragSession) PendingWireup() bool {
	return s.pendingWireup
}

// DragDelta is one cursor movement in screen coordinates.
type DragDelta struct {
	Cursor    Point
	Cancelled bool
}

// DragCompleted ends a drag.
type DragCompleted struct {
	// DroppedOnTabStrip is set when the item landed on a tab strip, which is
	// handled outside the docking engine.
	DroppedOnTabStrip bool
}

// Tracker runs the drag state machine. It is not safe for concurrent use;
// hosts call it from their event loop.
type Tracker struct {
	engine  *Engine
	hit     HitTester
	state   DragState
	session *DragSession
}

func NewTracker(engine *Engine, hit HitTester) *Tracker {
	if hit == nil {
		hit = RectHitTester{}
	}
	return &Tracker{engine: engine, hit: hit}
}

func (t *Tracker) State() DragState {
	return t.state
}

// Session returns the active session, or nil when idle.
func (t *Tracker) Session() *DragSession {
	return t.session
}

// Start begins a drag of item. Root scanning waits for the first delta since
// the source may not have settled its partition yet.
func (t *Tracker) Start(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: nil drag item", ErrInvalidArgument)
	}
	if t.session != nil {
		log.Printf("Drag: Start while a drag is active, discarding previous session")
		t.reset()
	}
	t.session = &DragSession{Item: item, pendingWireup: true}
	t.state = DragStarted
	debugLog.Printf("Drag: Started item %q", item.ID)
	return nil
}

// Delta processes one drag movement. Cancelled deltas are ignored without
// ending the session.
func (t *Tracker) Delta(ev DragDelta) {
	s := t.session
	if s == nil || ev.Cancelled {
		return
	}
	if s.pendingWireup {
		t.arm()
		t.state = DragArmed
	} else {
		t.state = DragTracking
	}

	windows := t.engine.windows
	for _, r := range t.engine.registry.roots {
		if !r.participating {
			continue
		}
		local := ev.Cursor
		if windows != nil {
			var ok bool
			local, ok = windows.ToWindow(r.Window, ev.Cursor)
			if !ok {
				// The window is gone or hidden; it cannot keep an offer.
				for _, z := range r.zones {
					if z.offered {
						t.clear(r, z)
					}
				}
				continue
			}
		}
		for _, z := range r.zones {
			if z.Rect.Empty() {
				continue
			}
			if t.hit.HitTest(z.Rect, local) {
				t.offer(r, z)
			} else if z.offered {
				t.clear(r, z)
			}
		}
	}
}

func (t *Tracker) arm() {
	s := t.session
	s.pendingWireup = false
	if g := s.Item.group; g != nil {
		s.SourcePartition = g.Partition
		s.SourceWindow = g.Window
	}
	s.Participants = s.Participants[:0]
	for _, r := range t.engine.registry.roots {
		if r.Partition != s.SourcePartition || r.Window == s.SourceWindow {
			continue
		}
		r.participating = true
		s.Participants = append(s.Participants, r)
	}
	log.Printf("Drag: Armed with %d participating roots (partition=%q)", len(s.Participants), s.SourcePartition)
	t.engine.events.Broadcast(Event{Type: EventParticipationChanged, Payload: ParticipationPayload{Roots: s.Participants}})
}

func (t *Tracker) offer(r *Root, z *DropZone) {
	s := t.session
	if s.Offered != nil && s.Offered.Zone == z {
		return
	}
	if s.Offered != nil {
		prev := s.Offered
		prev.Zone.offered = false
		t.engine.events.Broadcast(Event{Type: EventZoneCleared, Payload: ZonePayload{Root: prev.Root, Location: prev.Zone.Location}})
	}
	z.offered = true
	s.Offered = &OfferedZone{Root: r, Zone: z}
	debugLog.Printf("Drag: Offered %s zone of root %q", z.Location, r.Name)
	t.engine.events.Broadcast(Event{Type: EventZoneOffered, Payload: ZonePayload{Root: r, Location: z.Location}})
}

func (t *Tracker) clear(r *Root, z *DropZone) {
	s := t.session
	z.offered = false
	if s.Offered != nil && s.Offered.Zone == z {
		s.Offered = nil
	}
	debugLog.Printf("Drag: Cleared %s zone of root %q", z.Location, r.Name)
	t.engine.events.Broadcast(Event{Type: EventZoneCleared, Payload: ZonePayload{Root: r, Location: z.Location}})
}

// Complete ends the drag. When a zone is offered and the dragged item's group
// holds at most one item, the item is docked on that zone; docked reports
// whether that happened. A failed dock leaves the item where it was.
func (t *Tracker) Complete(ctx context.Context, ev DragCompleted) (result BranchResult, docked bool, err error) {
	s := t.session
	if s == nil {
		return BranchResult{}, false, nil
	}
	t.state = DragDone
	offered := s.Offered
	t.reset()

	if offered == nil || ev.DroppedOnTabStrip {
		return BranchResult{}, false, nil
	}
	source := s.Item.group
	if source == nil || source.Len() > 1 {
		return BranchResult{}, false, nil
	}
	result, err = t.engine.BranchAtZone(ctx, offered.Root, offered.Zone.Location, s.Item)
	if err != nil {
		log.Printf("Drag: Drop of %q on %s zone of root %q aborted: %v", s.Item.ID, offered.Zone.Location, offered.Root.Name, err)
		return BranchResult{}, false, err
	}
	return result, true, nil
}

// reset clears participation and the offered zone on every loaded root and
// returns the tracker to Idle.
func (t *Tracker) reset() {
	for _, r := range t.engine.registry.roots {
		r.participating = false
	}
	if s := t.session; s != nil && s.Offered != nil {
		s.Offered.Zone.offered = false
		s.Offered = nil
	}
	t.session = nil
	t.state = DragIdle
	t.engine.events.Broadcast(Event{Type: EventParticipationChanged, Payload: ParticipationPayload{}})
}
