// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: termhost/layout.go
// Summary: Computes leaf rectangles from branch proportions and places edge drop zones.

package termhost

import (
	"github.com/framegrace/tabdock/dock"
)

// titleRows is the height of each window's title bar.
const titleRows = 1

// Layout recomputes leaf rectangles for every visible window and the drop
// zone rectangles of every root.
func (d *Desktop) Layout() {
	clear(d.leaves)
	clear(d.separators)
	for _, w := range d.windows {
		content := contentRect(w.Bounds.W, w.Bounds.H)
		placeZones(w.Root, content, d.zoneThickness())
		if !w.Visible {
			continue
		}
		screenContent := content
		screenContent.X += w.Bounds.X
		screenContent.Y += w.Bounds.Y
		var seps []dock.Rect
		layoutNode(w.Root.Content(), screenContent, d.leaves, &seps)
		d.separators[w.ID] = seps
	}
}

func (d *Desktop) zoneThickness() int {
	if t := d.cfg.Drag.ZoneThickness; t > 0 {
		return t
	}
	return 1
}

// LeafRect returns the screen rectangle of group, or false when it is not
// visible.
func (d *Desktop) LeafRect(group *dock.TabGroup) (dock.Rect, bool) {
	r, ok := d.leaves[group]
	return r, ok
}

// contentRect is the window-local area below the title bar.
func contentRect(w, h int) dock.Rect {
	return dock.Rect{X: 0, Y: titleRows, W: w, H: h - titleRows}
}

// layoutNode splits r between a branch's children. Horizontal branches
// divide the width, vertical branches the height. The second child takes
// the remainder so no cell is lost to rounding; side-by-side children are
// divided by a one-column separator taken from the second child.
func layoutNode(n *dock.Node, r dock.Rect, out map[*dock.TabGroup]dock.Rect, seps *[]dock.Rect) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		if g := n.Group(); g != nil {
			out[g] = r
		}
		return
	}
	first, second := r, r
	if n.Orientation() == dock.Horizontal {
		first.W = int(float64(r.W) * n.Proportion())
		second.X = r.X + first.W
		second.W = r.W - first.W
		if first.W > 0 && second.W > 0 {
			*seps = append(*seps, dock.Rect{X: second.X, Y: r.Y, W: 1, H: r.H})
			second.X++
			second.W--
		}
	} else {
		first.H = int(float64(r.H) * n.Proportion())
		second.Y = r.Y + first.H
		second.H = r.H - first.H
	}
	layoutNode(n.First(), first, out, seps)
	layoutNode(n.Second(), second, out, seps)
}

// placeZones lays out the four edge zones inside content, leaving the
// corners to no zone so that at most one edge claims any cell.
func placeZones(root *dock.Root, content dock.Rect, t int) {
	if 2*t > content.W || 2*t > content.H {
		t = min(content.W, content.H) / 2
	}
	innerW := content.W - 2*t
	innerH := content.H - 2*t
	root.SetZoneRect(dock.LocationTop, dock.Rect{X: content.X + t, Y: content.Y, W: innerW, H: t})
	root.SetZoneRect(dock.LocationBottom, dock.Rect{X: content.X + t, Y: content.Y + content.H - t, W: innerW, H: t})
	root.SetZoneRect(dock.LocationLeft, dock.Rect{X: content.X, Y: content.Y + t, W: t, H: innerH})
	root.SetZoneRect(dock.LocationRight, dock.Rect{X: content.X + content.W - t, Y: content.Y + t, W: t, H: innerH})
}
