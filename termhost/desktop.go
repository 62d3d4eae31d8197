// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: termhost/desktop.go
// Summary: Terminal host that maps layout roots onto windows drawn on one tcell screen.
// Usage: NewDesktop(screen, cfg) then AddWindow for the main window; Run drives input and drawing.

package termhost

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/framegrace/tabdock/config"
	"github.com/framegrace/tabdock/dock"
)

// Window is a top-level window: a rectangle of the screen hosting one root.
type Window struct {
	ID      dock.WindowID
	Title   string
	Bounds  dock.Rect
	Root    *dock.Root
	Visible bool
}

// Desktop implements the dock collaborators (windows, group host and
// scheduler) on top of a terminal screen.
type Desktop struct {
	screen   tcell.Screen
	cfg      config.Config
	registry *dock.Registry
	engine   *dock.Engine
	tracker  *dock.Tracker
	restorer *dock.Restorer

	windows []*Window // back to front
	main    dock.WindowID
	nextWin int

	names   uuid.UUID
	nextSeq int

	realizeDelay int
	pending      []*pendingContainer
	ticks        int

	leaves     map[*dock.TabGroup]dock.Rect
	separators map[dock.WindowID][]dock.Rect
	focus      *dock.TabGroup
	drag       *dragState
	lastErr    error

	reload chan config.Config
}

// NewDesktop wires a layout engine to screen.
func NewDesktop(screen tcell.Screen, cfg config.Config) *Desktop {
	d := &Desktop{
		screen:     screen,
		cfg:        cfg,
		registry:   dock.NewRegistry(),
		names:      uuid.New(),
		leaves:     make(map[*dock.TabGroup]dock.Rect),
		separators: make(map[dock.WindowID][]dock.Rect),
		reload:     make(chan config.Config, 1),
	}
	d.engine = dock.NewEngine(d.registry, d, d)
	d.engine.SetScheduler(d)
	d.engine.SetRealizeAttempts(cfg.Layout.RealizeAttempts)
	d.tracker = dock.NewTracker(d.engine, dock.RectHitTester{})
	d.restorer = dock.NewRestorer(d.engine, dock.RestorePolicy{FirstItemAlwaysPlaced: cfg.Restore.FirstItemAlwaysPlaced})
	d.engine.Subscribe(dock.ListenerFunc(d.onEvent))
	return d
}

// Reload queues cfg to be applied by the event loop. It is safe to call
// from other goroutines; only the newest pending config is kept.
func (d *Desktop) Reload(cfg config.Config) {
	for {
		select {
		case d.reload <- cfg:
			return
		default:
		}
		select {
		case <-d.reload:
		default:
		}
	}
}

func (d *Desktop) applyConfig(cfg config.Config) {
	d.cfg = cfg
	d.engine.SetRealizeAttempts(cfg.Layout.RealizeAttempts)
	d.restorer = dock.NewRestorer(d.engine, dock.RestorePolicy{FirstItemAlwaysPlaced: cfg.Restore.FirstItemAlwaysPlaced})
	d.Layout()
	log.Printf("Desktop: Applied reloaded config")
}

// SetNameSeed makes generated group names reproducible.
func (d *Desktop) SetNameSeed(seed string) {
	d.names = uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
	d.nextSeq = 0
}

func (d *Desktop) Engine() *dock.Engine     { return d.engine }
func (d *Desktop) Tracker() *dock.Tracker   { return d.tracker }
func (d *Desktop) Restorer() *dock.Restorer { return d.restorer }
func (d *Desktop) Registry() *dock.Registry { return d.registry }

// ScreenSize returns the screen dimensions in cells.
func (d *Desktop) ScreenSize() (int, int) {
	return d.screen.Size()
}

// Err returns the last error raised by an interactive operation.
func (d *Desktop) Err() error { return d.lastErr }

// Windows returns the windows back to front.
func (d *Desktop) Windows() []*Window {
	out := make([]*Window, len(d.windows))
	copy(out, d.windows)
	return out
}

// Window looks up a window by ID.
func (d *Desktop) Window(id dock.WindowID) *Window {
	for _, w := range d.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// AddWindow creates a visible window at bounds whose root is named name and
// holds one group with items. The first window added is the main window.
func (d *Desktop) AddWindow(name string, bounds dock.Rect, items ...*dock.Item) (*Window, error) {
	d.nextWin++
	id := dock.WindowID(fmt.Sprintf("win-%d", d.nextWin))
	group := dock.NewTabGroup(d.newGroupName(), "", id)
	for _, it := range items {
		group.Add(it)
	}
	w, err := d.attachWindow(id, name, bounds, group)
	if err != nil {
		return nil, err
	}
	w.Visible = true
	if d.main == "" {
		d.main = id
	}
	if d.focus == nil {
		d.focus = group
	}
	d.Layout()
	return w, nil
}

func (d *Desktop) attachWindow(id dock.WindowID, name string, bounds dock.Rect, group *dock.TabGroup) (*Window, error) {
	if name == "" {
		name = string(id)
	}
	root := dock.NewRoot(name, group.Partition, id, group)
	if err := d.registry.Register(root); err != nil {
		return nil, err
	}
	w := &Window{ID: id, Title: name, Bounds: bounds, Root: root}
	d.windows = append(d.windows, w)
	return w, nil
}

func (d *Desktop) newGroupName() string {
	d.nextSeq++
	id := uuid.NewSHA1(d.names, []byte(fmt.Sprintf("group-%d", d.nextSeq)))
	return "g-" + id.String()[:8]
}

// MainWindow implements dock.Windows.
func (d *Desktop) MainWindow() dock.WindowID {
	return d.main
}

// ToWindow implements dock.Windows. Points outside the window translate to
// coordinates outside its bounds.
func (d *Desktop) ToWindow(id dock.WindowID, p dock.Point) (dock.Point, bool) {
	w := d.Window(id)
	if w == nil || !w.Visible {
		return dock.Point{}, false
	}
	return dock.Point{X: p.X - w.Bounds.X, Y: p.Y - w.Bounds.Y}, true
}

// CreateWindow implements dock.Windows. New windows cascade from the main
// window and stay hidden until shown.
func (d *Desktop) CreateWindow(partition string) (dock.WindowID, *dock.TabGroup, error) {
	d.nextWin++
	id := dock.WindowID(fmt.Sprintf("win-%d", d.nextWin))
	bounds := d.cascadeBounds()
	group := dock.NewTabGroup(d.newGroupName(), partition, id)
	if _, err := d.attachWindow(id, "", bounds, group); err != nil {
		return "", nil, err
	}
	log.Printf("Desktop: Created window %s at %+v", id, bounds)
	return id, group, nil
}

func (d *Desktop) cascadeBounds() dock.Rect {
	sw, sh := d.screen.Size()
	offset := 2 * len(d.windows)
	w, h := sw/2, sh/2
	if w < 20 {
		w = sw
	}
	if h < 8 {
		h = sh
	}
	x, y := offset%max(1, sw-w+1), offset%max(1, sh-h+1)
	return dock.Rect{X: x, Y: y, W: w, H: h}
}

// ShowWindow implements dock.Windows and raises the window.
func (d *Desktop) ShowWindow(id dock.WindowID) {
	for i, w := range d.windows {
		if w.ID != id {
			continue
		}
		w.Visible = true
		d.windows = append(append(d.windows[:i:i], d.windows[i+1:]...), w)
		d.Layout()
		return
	}
}

// CloseWindow implements dock.Windows.
func (d *Desktop) CloseWindow(id dock.WindowID) {
	for i, w := range d.windows {
		if w.ID != id {
			continue
		}
		d.registry.Unregister(w.Root)
		d.windows = append(d.windows[:i], d.windows[i+1:]...)
		if d.focus != nil && d.focus.Window == id {
			d.focus = nil
		}
		log.Printf("Desktop: Closed window %s", id)
		d.Layout()
		return
	}
}

// MoveWindow repositions a window on the screen.
func (d *Desktop) MoveWindow(id dock.WindowID, bounds dock.Rect) {
	if w := d.Window(id); w != nil {
		w.Bounds = bounds
		d.Layout()
	}
}

func (d *Desktop) onEvent(ev dock.Event) {
	switch ev.Type {
	case dock.EventTreeChanged:
		d.Layout()
	case dock.EventItemMoved:
		if p, ok := ev.Payload.(dock.ItemMovedPayload); ok && p.Item != nil {
			d.focus = p.Item.Group()
		}
	}
}
