// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: termhost/render.go
// Summary: Draws windows, tab strips and drop zones onto the tcell screen.

package termhost

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/tabdock/dock"
)

const (
	topLeftMark   = '*'
	zoneMark      = '·'
	offeredMark   = '▓'
	separatorMark = '│'
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Reverse(true)
	styleMain     = tcell.StyleDefault.Reverse(true).Bold(true)
	styleTab      = tcell.StyleDefault.Underline(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleFocused  = tcell.StyleDefault.Reverse(true).Bold(true)
	styleZone     = tcell.StyleDefault.Dim(true)
	styleOffered  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// tabSpan is the screen extent of one tab in a strip.
type tabSpan struct {
	item   *dock.Item
	x0, x1 int // [x0, x1)
}

// tabSpans lays out the tab strip of group inside rect. The first cell is
// reserved for the top-left marker.
func tabSpans(group *dock.TabGroup, rect dock.Rect) []tabSpan {
	var spans []tabSpan
	x := rect.X + 1
	limit := rect.X + rect.W
	for _, it := range group.Items() {
		if x >= limit {
			break
		}
		w := runewidth.StringWidth(tabLabel(it, limit-x))
		spans = append(spans, tabSpan{item: it, x0: x, x1: x + w})
		x += w
	}
	return spans
}

func tabLabel(it *dock.Item, room int) string {
	label := " " + it.Title + " "
	if it.Title == "" {
		label = " " + it.ID + " "
	}
	return runewidth.Truncate(label, room, "…")
}

// Render draws every visible window back to front and shows the screen.
func (d *Desktop) Render() {
	d.screen.Clear()
	for _, w := range d.windows {
		if w.Visible {
			d.drawWindow(w)
		}
	}
	d.screen.Show()
}

func (d *Desktop) drawWindow(w *Window) {
	b := w.Bounds
	d.fill(b, ' ', styleDefault)

	title := w.Title
	style := styleTitle
	if w.ID == d.main {
		title += " [main]"
		style = styleMain
	}
	d.fill(dock.Rect{X: b.X, Y: b.Y, W: b.W, H: titleRows}, ' ', style)
	d.drawText(b.X+1, b.Y, b.W-1, title, style)

	for _, sep := range d.separators[w.ID] {
		d.fill(sep, separatorMark, styleDefault)
	}
	for _, g := range w.Root.Groups() {
		if rect, ok := d.leaves[g]; ok && !rect.Empty() {
			d.drawLeaf(g, rect)
		}
	}
	d.drawZones(w)
}

func (d *Desktop) drawLeaf(g *dock.TabGroup, rect dock.Rect) {
	d.fill(dock.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: 1}, ' ', styleTab)
	if g.IsTopLeft() {
		d.screen.SetContent(rect.X, rect.Y, topLeftMark, nil, styleTab)
	}
	for _, span := range tabSpans(g, rect) {
		style := styleTab
		if span.item == g.Selected() {
			style = styleSelected
			if g == d.focus {
				style = styleFocused
			}
		}
		d.drawText(span.x0, rect.Y, span.x1-span.x0, tabLabel(span.item, rect.X+rect.W-span.x0), style)
	}
	if sel := g.Selected(); sel != nil && rect.H > 2 {
		d.drawText(rect.X+1, rect.Y+2, rect.W-2, sel.Title, styleDefault)
	}
}

// drawZones shades the drop zones of a root taking part in a drag.
func (d *Desktop) drawZones(w *Window) {
	r := w.Root
	if !r.IsParticipatingInDrag() {
		return
	}
	for _, z := range r.Zones() {
		if z.Rect.Empty() {
			continue
		}
		rect := z.Rect
		rect.X += w.Bounds.X
		rect.Y += w.Bounds.Y
		if z.IsOffered() {
			d.fill(rect, offeredMark, styleOffered)
		} else {
			d.fill(rect, zoneMark, styleZone)
		}
	}
}

func (d *Desktop) fill(r dock.Rect, ch rune, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			d.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

// drawText writes s starting at x, clipped to width display cells.
func (d *Desktop) drawText(x, y, width int, s string, style tcell.Style) {
	if width <= 0 {
		return
	}
	s = runewidth.Truncate(s, width, "…")
	for _, r := range s {
		d.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// Lines returns the screen contents as text, trailing spaces trimmed.
func (d *Desktop) Lines() []string {
	w, h := d.screen.Size()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			ch, _, _, width := d.screen.GetContent(x, y)
			if ch == 0 {
				ch = ' '
			}
			sb.WriteRune(ch)
			if width > 1 {
				x += width - 1
			}
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}
