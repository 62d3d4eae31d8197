// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/dispatcher.go
// Summary: Broadcasts engine events (tree changes, moved items, offered zones) to listeners.
// Usage: Hosts subscribe to redraw; the record store subscribes to persist item moves.

package dock

import "sync"

// EventType defines the type of an event.
type EventType int

const (
	EventTreeChanged EventType = iota
	EventItemMoved
	EventZoneOffered
	EventZoneCleared
	EventParticipationChanged
	EventWindowDeferred
)

// Event represents a message passed through the system.
type Event struct {
	Type    EventType
	Payload interface{}
}

// TreeChangedPayload accompanies EventTreeChanged.
type TreeChangedPayload struct {
	Root *Root
}

// ItemMovedPayload accompanies EventItemMoved. Record is the item's new
// placement and is what save/restore persists.
type ItemMovedPayload struct {
	Item   *Item
	Record ItemLocationRecord
}

// ZonePayload accompanies EventZoneOffered and EventZoneCleared.
type ZonePayload struct {
	Root     *Root
	Location Location
}

// ParticipationPayload lists the roots taking part in the current drag; it
// is empty once the drag completes.
type ParticipationPayload struct {
	Roots []*Root
}

// WindowDeferredPayload reports a restored item parked in a window that is
// not shown yet.
type WindowDeferredPayload struct {
	Window WindowID
	Item   *Item
}

// Listener is an interface that any component can implement to receive events.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(event Event) { f(event) }

// EventDispatcher manages a list of listeners and broadcasts events to them.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		listeners: make([]Listener, 0),
	}
}

func (d *EventDispatcher) Subscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, listener)
}

// Unsubscribe removes a listener. Function listeners cannot be compared and
// stay subscribed for the dispatcher's lifetime.
func (d *EventDispatcher) Unsubscribe(listener Listener) {
	if _, ok := listener.(ListenerFunc); ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if _, ok := l.(ListenerFunc); ok {
			continue
		}
		if l == listener {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to all subscribed listeners.
func (d *EventDispatcher) Broadcast(event Event) {
	d.mu.RLock()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()
	for _, l := range listeners {
		l.OnEvent(event)
	}
}
