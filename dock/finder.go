// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/finder.go
// Summary: Locates a tab group's slot within its owning tree.

package dock

import "fmt"

// LocationReport describes where a group sits inside its root.
type LocationReport struct {
	Root *Root
	// IsLeaf is true when the group is the root's entire content, with no
	// branch above it.
	IsLeaf bool
	// ParentBranch is the branch owning the group's leaf; nil when IsLeaf.
	ParentBranch  *Node
	IsSecondChild bool
}

// Find walks parent back-references from the group's leaf up to its root.
func (reg *Registry) Find(group *TabGroup) (LocationReport, error) {
	if group == nil || group.leaf == nil {
		return LocationReport{}, fmt.Errorf("%w: group is not attached to a tree", ErrNotFound)
	}
	leaf := group.leaf
	top := leaf
	for top.parent != nil {
		top = top.parent
	}
	root := top.owner
	if root == nil || root.content != top || !reg.Contains(root) {
		return LocationReport{}, fmt.Errorf("%w: group %q is not in a loaded root", ErrNotFound, group.Name)
	}

	report := LocationReport{Root: root}
	if leaf.parent == nil {
		report.IsLeaf = true
		return report, nil
	}
	report.ParentBranch = leaf.parent
	report.IsSecondChild = leaf.parent.second == leaf
	return report, nil
}

// rootOf returns the root owning n without requiring registration.
func rootOf(n *Node) *Root {
	for n != nil && n.parent != nil {
		n = n.parent
	}
	if n == nil {
		return nil
	}
	return n.owner
}
