// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/marker.go
// Summary: Recomputes the canonical top-left leaf of a root.

package dock

// MarkTopLeft descends a root's content through First until it reaches a
// leaf, marks that leaf's group top-left and clears the flag everywhere else.
func MarkTopLeft(r *Root) {
	if r == nil {
		return
	}
	walkLeaves(r.content, func(g *TabGroup) {
		g.topLeft = false
	})
	r.topLeft = nil

	n := r.content
	for n != nil && !n.IsLeaf() {
		n = n.first
	}
	if n == nil {
		return
	}
	n.group.topLeft = true
	r.topLeft = n.group
}
