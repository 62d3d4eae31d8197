// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/tree.go
// Summary: Implements the docking layout tree: tab groups, leaf/branch nodes and roots.
// Usage: Every structural operation in the engine reads and writes these types.

package dock

import (
	"fmt"
	"math"
	"strings"
)

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// Location names a drop zone edge, or Unset for items that never moved.
type Location int

const (
	LocationUnset Location = iota
	LocationLeft
	LocationRight
	LocationTop
	LocationBottom
)

// zoneOrder is the order in which a root's drop zones are hit-tested.
var zoneOrder = [4]Location{LocationTop, LocationRight, LocationBottom, LocationLeft}

func (l Location) String() string {
	switch l {
	case LocationLeft:
		return "Left"
	case LocationRight:
		return "Right"
	case LocationTop:
		return "Top"
	case LocationBottom:
		return "Bottom"
	default:
		return "Unset"
	}
}

// ParseLocation is the inverse of Location.String and is case-insensitive.
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset":
		return LocationUnset, nil
	case "left":
		return LocationLeft, nil
	case "right":
		return LocationRight, nil
	case "top":
		return LocationTop, nil
	case "bottom":
		return LocationBottom, nil
	}
	return LocationUnset, fmt.Errorf("%w: unknown location %q", ErrInvalidArgument, s)
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(text []byte) error {
	parsed, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Orientation returns the split direction a drop on this edge produces.
func (l Location) Orientation() Orientation {
	if l == LocationLeft || l == LocationRight {
		return Horizontal
	}
	return Vertical
}

// newContentFirst reports whether dropped content becomes the first child.
func (l Location) newContentFirst() bool {
	return l == LocationLeft || l == LocationTop
}

func (l Location) zoneIndex() int {
	for i, loc := range zoneOrder {
		if loc == l {
			return i
		}
	}
	return -1
}

// WindowID identifies a top-level window owned by the host.
type WindowID string

// ItemLocationRecord is the persisted placement of a single tab item.
type ItemLocationRecord struct {
	Location       Location `json:"location" yaml:"location"`
	LayoutRootName string   `json:"layoutRootName" yaml:"layoutRootName"`
	IsMainWindow   bool     `json:"isMainWindow" yaml:"isMainWindow"`
	TabGroupName   string   `json:"tabGroupName" yaml:"tabGroupName"`
}

// Item is a single tab hosted by a TabGroup.
type Item struct {
	ID     string
	Title  string
	Record ItemLocationRecord

	group *TabGroup
}

// NewItem creates a detached item whose record places it in the main window
// without a recorded location.
func NewItem(id, title string) *Item {
	return &Item{
		ID:     id,
		Title:  title,
		Record: ItemLocationRecord{IsMainWindow: true},
	}
}

// Group returns the group currently hosting the item, or nil.
func (i *Item) Group() *TabGroup {
	return i.group
}

// TabGroup is an ordered collection of items displayed as one tab strip.
type TabGroup struct {
	Name      string
	Partition string
	Window    WindowID

	items    []*Item
	selected *Item
	topLeft  bool
	leaf     *Node
}

func NewTabGroup(name, partition string, window WindowID) *TabGroup {
	return &TabGroup{Name: name, Partition: partition, Window: window}
}

// Add appends the item, detaching it from any previous group first.
func (g *TabGroup) Add(item *Item) {
	g.Insert(len(g.items), item)
}

// Insert places the item at index, clamped to the valid range.
func (g *TabGroup) Insert(index int, item *Item) {
	if item == nil {
		return
	}
	if item.group != nil {
		item.group.Remove(item)
	}
	if index < 0 {
		index = 0
	}
	if index > len(g.items) {
		index = len(g.items)
	}
	g.items = append(g.items, nil)
	copy(g.items[index+1:], g.items[index:])
	g.items[index] = item
	item.group = g
	if g.selected == nil {
		g.selected = item
	}
}

// Remove detaches the item. When the selected item goes away the selection
// moves to the item that took its place, or the new last item.
func (g *TabGroup) Remove(item *Item) bool {
	idx := g.indexOf(item)
	if idx < 0 {
		return false
	}
	g.items = append(g.items[:idx], g.items[idx+1:]...)
	item.group = nil
	if g.selected == item {
		g.selected = nil
		if len(g.items) > 0 {
			if idx >= len(g.items) {
				idx = len(g.items) - 1
			}
			g.selected = g.items[idx]
		}
	}
	return true
}

func (g *TabGroup) indexOf(item *Item) int {
	for i, it := range g.items {
		if it == item {
			return i
		}
	}
	return -1
}

// Items returns a copy of the items in insertion order.
func (g *TabGroup) Items() []*Item {
	out := make([]*Item, len(g.items))
	copy(out, g.items)
	return out
}

func (g *TabGroup) Len() int {
	return len(g.items)
}

func (g *TabGroup) Contains(item *Item) bool {
	return g.indexOf(item) >= 0
}

// Select makes item the selected tab. It returns false if the item is not
// hosted by this group.
func (g *TabGroup) Select(item *Item) bool {
	if item == nil || g.indexOf(item) < 0 {
		return false
	}
	g.selected = item
	return true
}

func (g *TabGroup) Selected() *Item {
	return g.selected
}

// IsTopLeft reports whether the group is its root's top-left leaf.
func (g *TabGroup) IsTopLeft() bool {
	return g.topLeft
}

// Leaf returns the tree node hosting the group, or nil when detached.
func (g *TabGroup) Leaf() *Node {
	return g.leaf
}

// Node is either a leaf hosting a TabGroup or a branch splitting space
// between two children.
type Node struct {
	parent *Node
	owner  *Root // set only on a root's content node

	group *TabGroup

	orientation Orientation
	proportion  float64
	first       *Node
	second      *Node
}

func newLeaf(g *TabGroup) *Node {
	n := &Node{group: g}
	g.leaf = n
	return n
}

func newBranch(orientation Orientation, proportion float64, first, second *Node) *Node {
	n := &Node{orientation: orientation, proportion: proportion}
	n.setFirst(first)
	n.setSecond(second)
	return n
}

func (n *Node) IsLeaf() bool {
	return n.group != nil
}

func (n *Node) Group() *TabGroup {
	return n.group
}

func (n *Node) Orientation() Orientation {
	return n.orientation
}

// Proportion is the fraction of space given to First.
func (n *Node) Proportion() float64 {
	return n.proportion
}

// SecondProportion is derived; it is never stored.
func (n *Node) SecondProportion() float64 {
	return 1 - n.proportion
}

func (n *Node) First() *Node {
	return n.first
}

func (n *Node) Second() *Node {
	return n.second
}

// Parent returns the owning branch, or nil for a root's content node.
func (n *Node) Parent() *Node {
	return n.parent
}

// SetProportion resizes a branch.
func (n *Node) SetProportion(p float64) error {
	if n.IsLeaf() {
		return fmt.Errorf("%w: leaf has no proportion", ErrInvalidArgument)
	}
	if err := validateProportion(p); err != nil {
		return err
	}
	n.proportion = p
	return nil
}

func (n *Node) setFirst(child *Node) {
	n.first = child
	attach(child, n)
}

func (n *Node) setSecond(child *Node) {
	n.second = child
	attach(child, n)
}

func attach(child, parent *Node) {
	if child == nil {
		return
	}
	child.parent = parent
	child.owner = nil
}

// detach severs a node from its parent and owner without touching the slot
// it used to occupy.
func (n *Node) detach() {
	n.parent = nil
	n.owner = nil
}

func validateProportion(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: proportion %v must be within [0,1]", ErrInvalidArgument, p)
	}
	return nil
}

// DropZone is one edge region of a root used to choose split orientation
// and side during a drag.
type DropZone struct {
	Location Location
	Rect     Rect

	offered bool
}

func (z *DropZone) IsOffered() bool {
	return z.offered
}

// Root owns one layout tree for a top-level window.
type Root struct {
	Name      string
	Partition string
	Window    WindowID

	content       *Node
	zones         [4]*DropZone
	participating bool
	topLeft       *TabGroup
}

// NewRoot creates a root whose content is a single leaf hosting group.
func NewRoot(name, partition string, window WindowID, group *TabGroup) *Root {
	r := &Root{Name: name, Partition: partition, Window: window}
	for i, loc := range zoneOrder {
		r.zones[i] = &DropZone{Location: loc}
	}
	if group != nil {
		r.setContent(newLeaf(group))
	}
	return r
}

// Content returns the node filling the root.
func (r *Root) Content() *Node {
	return r.content
}

func (r *Root) setContent(n *Node) {
	if r.content != nil && r.content.owner == r {
		r.content.owner = nil
	}
	r.content = n
	if n != nil {
		n.parent = nil
		n.owner = r
	}
}

// Zone returns the drop zone on the given edge, or nil for LocationUnset.
func (r *Root) Zone(loc Location) *DropZone {
	idx := loc.zoneIndex()
	if idx < 0 {
		return nil
	}
	return r.zones[idx]
}

// Zones returns the four drop zones in hit-test order.
func (r *Root) Zones() []*DropZone {
	return []*DropZone{r.zones[0], r.zones[1], r.zones[2], r.zones[3]}
}

// SetZoneRect records where the host placed a drop zone, in window space.
func (r *Root) SetZoneRect(loc Location, rect Rect) {
	if z := r.Zone(loc); z != nil {
		z.Rect = rect
	}
}

func (r *Root) IsParticipatingInDrag() bool {
	return r.participating
}

// TopLeft returns the group currently marked top-left.
func (r *Root) TopLeft() *TabGroup {
	return r.topLeft
}

// Groups lists every leaf group, first children before second children.
func (r *Root) Groups() []*TabGroup {
	var out []*TabGroup
	walkLeaves(r.content, func(g *TabGroup) {
		out = append(out, g)
	})
	return out
}

func walkLeaves(n *Node, fn func(*TabGroup)) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		fn(n.group)
		return
	}
	walkLeaves(n.first, fn)
	walkLeaves(n.second, fn)
}
