// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/geometry.go
// Summary: Integer points and rectangles used for drop-zone hit testing.

package dock

// Point is a position in either screen or window-local coordinates.
type Point struct {
	X, Y int
}

// Rect spans [X, X+W) horizontally and [Y, Y+H) vertically.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// HitTester answers whether a cursor, already translated into window space,
// falls on a drop zone.
type HitTester interface {
	HitTest(zone Rect, cursor Point) bool
}

// RectHitTester is a HitTester based on plain rectangle containment.
type RectHitTester struct{}

func (RectHitTester) HitTest(zone Rect, cursor Point) bool {
	return zone.Contains(cursor)
}
