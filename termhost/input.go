// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: termhost/input.go
// Summary: Event loop; turns mouse drags on tabs into drag tracker events.

package termhost

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/tabdock/dock"
)

// dragState follows a pressed tab until the button is released. The
// tracker is started once the cursor leaves the tab's strip so plain clicks
// and small wiggles only select.
type dragState struct {
	item    *dock.Item
	start   dock.Point
	started bool
	torn    dock.WindowID // window the item was torn into, if any
}

// tornSize is the size of the window a tab is torn into.
var tornSize = dock.Point{X: 24, Y: 6}

// Run processes screen events until ctx is done or the user quits.
func (d *Desktop) Run(ctx context.Context) error {
	d.screen.EnableMouse()
	d.screen.HideCursor()

	quit := make(chan struct{})
	defer close(quit)
	eventChan := make(chan tcell.Event, 10)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	d.Layout()
	d.Render()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if d.HandleEvent(ctx, ev) {
				return nil
			}
			d.Render()
		case cfg := <-d.reload:
			d.applyConfig(cfg)
			d.Render()
		case <-ticker.C:
			if len(d.pending) > 0 {
				d.Tick()
				d.Render()
			}
		}
	}
}

// HandleEvent applies one screen event and reports whether to quit.
func (d *Desktop) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		d.screen.Sync()
		d.Layout()
	case *tcell.EventKey:
		return d.handleKey(ctx, ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		d.handleMouse(ctx, dock.Point{X: x, Y: y}, ev.Buttons())
	}
	return false
}

func (d *Desktop) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return false
	}
	switch ev.Rune() {
	case 'q':
		return true
	case 'h':
		d.split(ctx, dock.Horizontal)
	case 'v':
		d.split(ctx, dock.Vertical)
	case 'x':
		d.closeFocused()
	}
	return false
}

// closeFocused consolidates the focused group away and focuses the leaf that
// takes its place. Groups still holding tabs are left alone.
func (d *Desktop) closeFocused() {
	g := d.focus
	if g == nil {
		return
	}
	if g.Len() > 0 {
		d.fail("consolidate", fmt.Errorf("%w: group %q still holds %d tabs", dock.ErrInvalidArgument, g.Name, g.Len()))
		return
	}
	leaf := g.Leaf()
	if leaf == nil || leaf.Parent() == nil {
		return
	}
	survivor := leaf.Parent().First()
	if survivor == leaf {
		survivor = leaf.Parent().Second()
	}
	ok, err := d.engine.ConsolidateGroup(g)
	if err != nil {
		d.fail("consolidate", err)
		return
	}
	if !ok {
		return
	}
	for survivor != nil && !survivor.IsLeaf() {
		survivor = survivor.First()
	}
	d.focus = nil
	if survivor != nil {
		d.focus = survivor.Group()
	}
}

// split branches the focused group with the configured proportion.
func (d *Desktop) split(ctx context.Context, o dock.Orientation) {
	if d.focus == nil {
		return
	}
	res, err := d.engine.Branch(ctx, d.focus, o, false, d.cfg.Layout.DefaultProportion, nil)
	if err != nil {
		d.fail("split", err)
		return
	}
	d.focus = res.Group
}

func (d *Desktop) handleMouse(ctx context.Context, p dock.Point, buttons tcell.ButtonMask) {
	pressed := buttons&tcell.Button1 != 0
	switch {
	case pressed && d.drag == nil:
		g, it, ok := d.TabAt(p)
		if !ok {
			if g != nil {
				d.focus = g
			}
			return
		}
		g.Select(it)
		d.focus = g
		d.drag = &dragState{item: it, start: p}
	case pressed:
		if !d.drag.started {
			if g, ok := d.stripAt(p); ok && g == d.drag.item.Group() {
				return
			}
			if !d.beginDrag(p) {
				d.drag = nil
				return
			}
		}
		if d.drag.torn != "" {
			d.MoveWindow(d.drag.torn, tornBounds(p))
		}
		d.tracker.Delta(dock.DragDelta{Cursor: p})
	case d.drag != nil:
		drag := d.drag
		d.drag = nil
		if !drag.started {
			return
		}
		_, onStrip := d.stripAt(p)
		if _, _, err := d.tracker.Complete(ctx, dock.DragCompleted{DroppedOnTabStrip: onStrip}); err != nil {
			d.fail("drop", err)
		}
	}
}

// beginDrag starts tracking the pressed tab. A tab sharing its group with
// others is first torn into its own window, which then follows the cursor.
func (d *Desktop) beginDrag(p dock.Point) bool {
	it := d.drag.item
	if g := it.Group(); g != nil && g.Len() > 1 {
		w, _, err := d.engine.TearOut(it)
		if err != nil {
			d.fail("tear out", err)
			return false
		}
		d.drag.torn = w
		d.MoveWindow(w, tornBounds(p))
	}
	if err := d.tracker.Start(it); err != nil {
		d.fail("drag", err)
		return false
	}
	d.drag.started = true
	return true
}

// tornBounds places a torn-out window just below and right of the cursor so
// that it never covers the point being hit-tested.
func tornBounds(p dock.Point) dock.Rect {
	return dock.Rect{X: p.X + 1, Y: p.Y + 1, W: tornSize.X, H: tornSize.Y}
}

// TabAt returns the group under p and, when p is on one of its tabs, that
// tab's item. Windows are searched front to back.
func (d *Desktop) TabAt(p dock.Point) (*dock.TabGroup, *dock.Item, bool) {
	for i := len(d.windows) - 1; i >= 0; i-- {
		w := d.windows[i]
		if !w.Visible || !w.Bounds.Contains(p) {
			continue
		}
		for _, g := range w.Root.Groups() {
			rect, ok := d.leaves[g]
			if !ok || !rect.Contains(p) {
				continue
			}
			if p.Y != rect.Y {
				return g, nil, false
			}
			for _, span := range tabSpans(g, rect) {
				if p.X >= span.x0 && p.X < span.x1 {
					return g, span.item, true
				}
			}
			return g, nil, false
		}
		return nil, nil, false
	}
	return nil, nil, false
}

// stripAt reports the group whose tab strip row contains p.
func (d *Desktop) stripAt(p dock.Point) (*dock.TabGroup, bool) {
	g, _, _ := d.TabAt(p)
	if g == nil {
		return nil, false
	}
	if rect := d.leaves[g]; p.Y == rect.Y {
		return g, true
	}
	return nil, false
}

func (d *Desktop) fail(op string, err error) {
	log.Printf("Desktop: %s failed: %v", op, err)
	d.lastErr = err
}
