// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/branch.go
// Summary: Implements branching (splitting a node in two) and consolidation (removing a redundant split).
// Usage: Driven interactively by the drag tracker and at load time by the restorer.

package dock

import (
	"context"
	"fmt"
	"log"
)

const (
	// DefaultProportion splits space evenly between both children.
	DefaultProportion = 0.5
	// DefaultRealizeAttempts bounds how many scheduler ticks the engine waits
	// for an asynchronously realized group.
	DefaultRealizeAttempts = 3
)

// BranchResult is returned by the branch operations. Branch is nil when a
// drop replaced an empty root content instead of splitting it.
type BranchResult struct {
	Branch *Node
	Group  *TabGroup
}

// Engine performs every structural mutation of the loaded trees.
type Engine struct {
	registry        *Registry
	host            HostProvider
	windows         Windows
	scheduler       Scheduler
	events          *EventDispatcher
	realizeAttempts int
	emptied         func(*TabGroup) EmptiedResponse
}

// NewEngine wires an engine to the roots in registry. windows may be nil for
// hosts without multiple top-level windows.
func NewEngine(registry *Registry, host HostProvider, windows Windows) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Engine{
		registry:        registry,
		host:            host,
		windows:         windows,
		scheduler:       ImmediateScheduler{},
		events:          NewEventDispatcher(),
		realizeAttempts: DefaultRealizeAttempts,
	}
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

func (e *Engine) Windows() Windows {
	return e.windows
}

func (e *Engine) SetScheduler(s Scheduler) {
	if s == nil {
		s = ImmediateScheduler{}
	}
	e.scheduler = s
}

// SetRealizeAttempts changes the retry bound for asynchronous realization.
func (e *Engine) SetRealizeAttempts(n int) {
	if n < 0 {
		n = 0
	}
	e.realizeAttempts = n
}

// SetEmptiedHandler decides what happens to a group a drag left empty.
func (e *Engine) SetEmptiedHandler(fn func(*TabGroup) EmptiedResponse) {
	e.emptied = fn
}

func (e *Engine) Subscribe(listener Listener) {
	e.events.Subscribe(listener)
}

func (e *Engine) Unsubscribe(listener Listener) {
	e.events.Unsubscribe(listener)
}

func (e *Engine) broadcastTreeChanged(r *Root) {
	e.events.Broadcast(Event{Type: EventTreeChanged, Payload: TreeChangedPayload{Root: r}})
}

// BranchDefault splits target evenly.
func (e *Engine) BranchDefault(ctx context.Context, target *TabGroup, orientation Orientation, makeSecond bool) (BranchResult, error) {
	return e.Branch(ctx, target, orientation, makeSecond, DefaultProportion, nil)
}

// Branch splits the slot occupied by target into a branch holding target and
// a new group. With makeSecond false the existing content stays first.
// newSibling, when given, is used instead of asking the host for a group.
func (e *Engine) Branch(ctx context.Context, target *TabGroup, orientation Orientation, makeSecond bool, proportion float64, newSibling *TabGroup) (BranchResult, error) {
	if err := validateProportion(proportion); err != nil {
		return BranchResult{}, err
	}
	report, err := e.registry.Find(target)
	if err != nil {
		return BranchResult{}, err
	}
	existing := target.leaf
	at, err := slotOf(existing)
	if err != nil {
		return BranchResult{}, err
	}

	var group *TabGroup
	if newSibling != nil {
		if isAttached(newSibling) {
			return BranchResult{}, fmt.Errorf("%w: sibling %q is already in a tree", ErrInvalidArgument, newSibling.Name)
		}
		group = newSibling
	} else {
		group, err = e.materialize(ctx, report.Root.Partition, target)
		if err != nil {
			return BranchResult{}, err
		}
	}
	group.Window = report.Root.Window

	// Nothing below can fail: the tree is published in one step.
	selected := target.Selected()
	first, second := existing, newLeaf(group)
	if makeSecond {
		first, second = second, first
	}
	branch := newBranch(orientation, proportion, first, second)
	at.put(branch)
	target.Select(selected)
	MarkTopLeft(report.Root)

	log.Printf("Branch: Split group %q (%s, proportion=%.3f) with new group %q in root %q",
		target.Name, orientation, proportion, group.Name, report.Root.Name)
	e.broadcastTreeChanged(report.Root)
	return BranchResult{Branch: branch, Group: group}, nil
}

// BranchAtZone moves item out of its group into a new group docked on the
// given edge of root. This is what completing a drag onto a drop zone does.
func (e *Engine) BranchAtZone(ctx context.Context, root *Root, location Location, item *Item) (BranchResult, error) {
	if location == LocationUnset {
		return BranchResult{}, fmt.Errorf("%w: drop location is unset", ErrInvalidArgument)
	}
	if item == nil || item.group == nil {
		return BranchResult{}, fmt.Errorf("%w: item is not hosted by a group", ErrInvalidArgument)
	}
	if !e.registry.Contains(root) {
		return BranchResult{}, fmt.Errorf("%w: root is not loaded", ErrNotFound)
	}
	source := item.group
	group, err := e.materialize(ctx, root.Partition, source)
	if err != nil {
		return BranchResult{}, err
	}
	result := e.dock(root, location, item, group, "")
	e.handleEmptied(source)
	return result, nil
}

// TearOut moves item out of a group holding other tabs into a new, shown
// top-level window, as when a tab is dragged off its strip. The item's record
// is reset to an unplaced, non-main-window location in the new root.
func (e *Engine) TearOut(item *Item) (WindowID, *TabGroup, error) {
	if item == nil || item.group == nil {
		return "", nil, fmt.Errorf("%w: item is not hosted by a group", ErrInvalidArgument)
	}
	source := item.group
	if source.Len() < 2 {
		return "", nil, fmt.Errorf("%w: item %q is the only tab of group %q", ErrInvalidArgument, item.ID, source.Name)
	}
	if e.windows == nil {
		return "", nil, fmt.Errorf("%w: no window host to tear %q into", ErrStructural, item.ID)
	}
	w, group, err := e.windows.CreateWindow(source.Partition)
	if err != nil {
		return "", nil, fmt.Errorf("%w: tear out %q: %w", ErrStructural, item.ID, err)
	}
	if group == nil {
		return "", nil, fmt.Errorf("%w: window %q has no group", ErrStructural, w)
	}

	group.Add(item)
	group.Select(item)
	rootName := ""
	root := e.registry.RootForWindow(w)
	if root != nil {
		rootName = root.Name
		MarkTopLeft(root)
	}
	item.Record = ItemLocationRecord{
		LayoutRootName: rootName,
		IsMainWindow:   e.isMainWindow(w),
		TabGroupName:   group.Name,
	}
	e.windows.ShowWindow(w)

	log.Printf("Branch: Tore %q out of group %q into window %q", item.ID, source.Name, w)
	if root != nil {
		e.broadcastTreeChanged(root)
	}
	e.events.Broadcast(Event{Type: EventItemMoved, Payload: ItemMovedPayload{Item: item, Record: item.Record}})
	return w, group, nil
}

// dock moves item into group and attaches group on the location edge of
// root. Callers have already done everything that can fail.
func (e *Engine) dock(root *Root, location Location, item *Item, group *TabGroup, nameHint string) BranchResult {
	group.Window = root.Window
	if nameHint != "" && group.Name != nameHint && e.registry.GroupNamed(nameHint) == nil {
		group.Name = nameHint
	}
	group.Add(item)
	group.Select(item)
	item.Record = ItemLocationRecord{
		Location:       location,
		LayoutRootName: root.Name,
		IsMainWindow:   e.isMainWindow(root.Window),
		TabGroupName:   group.Name,
	}

	var result BranchResult
	leaf := newLeaf(group)
	if c := root.content; c == nil || (c.IsLeaf() && c.group.Len() == 0) {
		if c != nil {
			c.detach()
		}
		root.setContent(leaf)
		result = BranchResult{Group: group}
		log.Printf("Branch: Replaced empty content of root %q with group %q", root.Name, group.Name)
	} else {
		first, second := c, leaf
		if location.newContentFirst() {
			first, second = leaf, c
		}
		branch := newBranch(location.Orientation(), DefaultProportion, first, second)
		root.setContent(branch)
		result = BranchResult{Branch: branch, Group: group}
		log.Printf("Branch: Docked group %q on %s edge of root %q", group.Name, location, root.Name)
	}
	MarkTopLeft(root)

	e.broadcastTreeChanged(root)
	e.events.Broadcast(Event{Type: EventItemMoved, Payload: ItemMovedPayload{Item: item, Record: item.Record}})
	return result
}

func (e *Engine) handleEmptied(source *TabGroup) {
	if source == nil || source.Len() > 0 || !isAttached(source) {
		return
	}
	response := CloseWindowOrLayoutBranch
	if e.emptied != nil {
		response = e.emptied(source)
	}
	if response != CloseWindowOrLayoutBranch {
		return
	}
	consolidated, err := e.Consolidate(source.leaf)
	if err != nil {
		log.Printf("Branch: Failed to consolidate emptied group %q: %v", source.Name, err)
		return
	}
	if !consolidated && e.windows != nil && source.Window != "" {
		log.Printf("Branch: Group %q emptied its window %q, closing it", source.Name, source.Window)
		e.windows.CloseWindow(source.Window)
	}
}

// ConsolidateGroup removes the leaf hosting group.
func (e *Engine) ConsolidateGroup(group *TabGroup) (bool, error) {
	if group == nil || group.leaf == nil {
		return false, fmt.Errorf("%w: group is not attached to a tree", ErrNotFound)
	}
	return e.Consolidate(group.leaf)
}

// Consolidate removes redundant from its owning branch and promotes the
// surviving sibling into the branch's slot. It returns false without
// mutating anything when redundant has no owning branch.
func (e *Engine) Consolidate(redundant *Node) (bool, error) {
	if redundant == nil {
		return false, fmt.Errorf("%w: nil node", ErrInvalidArgument)
	}
	owner := redundant.parent
	if owner == nil {
		return false, nil
	}
	var survivor *Node
	switch redundant {
	case owner.second:
		survivor = owner.first
	case owner.first:
		survivor = owner.second
	default:
		return false, fmt.Errorf("%w: node is not a child of its parent branch", ErrStructural)
	}
	if survivor == nil {
		return false, fmt.Errorf("%w: branch has a single child", ErrStructural)
	}
	at, err := slotOf(owner)
	if err != nil {
		return false, err
	}
	root := rootOf(owner)
	if root == nil {
		return false, fmt.Errorf("%w: branch is not owned by a root", ErrStructural)
	}

	at.put(survivor)
	owner.first, owner.second = nil, nil
	owner.detach()
	redundant.detach()
	MarkTopLeft(root)

	log.Printf("Consolidate: Removed branch in root %q", root.Name)
	e.broadcastTreeChanged(root)
	return true, nil
}

// materialize asks the host for a new group, waiting a bounded number of
// scheduler ticks when the host realizes it asynchronously.
func (e *Engine) materialize(ctx context.Context, partition string, existing *TabGroup) (*TabGroup, error) {
	if e.host == nil {
		return nil, fmt.Errorf("%w: host not provided", ErrStructural)
	}
	nh := e.host.GetNewHost(partition, existing)
	if nh == nil {
		return nil, fmt.Errorf("%w: host not provided", ErrStructural)
	}
	group := nh.Group
	if group == nil {
		if nh.Container == nil {
			return nil, fmt.Errorf("%w: host returned no container", ErrStructural)
		}
		group = nh.Container.RealizedGroup()
	}
	for attempt := 0; group == nil && attempt < e.realizeAttempts; attempt++ {
		if err := e.scheduler.Yield(ctx); err != nil {
			return nil, fmt.Errorf("%w: waiting for new group: %v", ErrStructural, err)
		}
		group = nh.Container.RealizedGroup()
	}
	if group == nil {
		return nil, fmt.Errorf("%w: new group not realized after %d attempts", ErrStructural, e.realizeAttempts)
	}
	if isAttached(group) {
		return nil, fmt.Errorf("%w: host returned group %q that is already in a tree", ErrStructural, group.Name)
	}
	if group.Partition == "" {
		group.Partition = partition
	}
	return group, nil
}

func (e *Engine) isMainWindow(w WindowID) bool {
	return e.windows != nil && e.windows.MainWindow() == w
}

func isAttached(g *TabGroup) bool {
	return g.leaf != nil && (g.leaf.parent != nil || g.leaf.owner != nil)
}

// slot is the place a node occupies: a root's content or one side of a branch.
type slot struct {
	root   *Root
	parent *Node
	second bool
}

func slotOf(n *Node) (slot, error) {
	if n == nil {
		return slot{}, fmt.Errorf("%w: nil node", ErrStructural)
	}
	if n.parent == nil {
		if n.owner == nil || n.owner.content != n {
			return slot{}, fmt.Errorf("%w: node has neither a parent branch nor a root", ErrStructural)
		}
		return slot{root: n.owner}, nil
	}
	switch n {
	case n.parent.first:
		return slot{parent: n.parent}, nil
	case n.parent.second:
		return slot{parent: n.parent, second: true}, nil
	}
	return slot{}, fmt.Errorf("%w: parent chain is broken", ErrStructural)
}

func (s slot) put(n *Node) {
	switch {
	case s.parent == nil:
		s.root.setContent(n)
	case s.second:
		s.parent.setSecond(n)
	default:
		s.parent.setFirst(n)
	}
}
