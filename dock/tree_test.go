// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/tree_test.go
// Summary: Exercises tab groups, the registry and the finder.
// Usage: Executed during `go test` to guard against regressions.

package dock

import (
	"errors"
	"testing"
)

func TestTabGroupInsertRemoveSelection(t *testing.T) {
	g := newGroup("g", "", "main", "a", "b", "c")
	if g.Selected().ID != "a" {
		t.Fatalf("expected first added item selected, got %q", g.Selected().ID)
	}
	b := itemByID(g, "b")
	g.Select(b)
	g.Remove(b)
	if g.Selected() == nil || g.Selected().ID != "c" {
		t.Fatalf("expected selection to move to c, got %+v", g.Selected())
	}
	if b.Group() != nil {
		t.Fatalf("removed item still references its group")
	}

	g.Insert(0, b)
	ids := []string{}
	for _, it := range g.Items() {
		ids = append(ids, it.ID)
	}
	if len(ids) != 3 || ids[0] != "b" || ids[1] != "a" || ids[2] != "c" {
		t.Fatalf("unexpected order %v", ids)
	}

	other := NewTabGroup("other", "", "main")
	other.Add(b)
	if g.Contains(b) || !other.Contains(b) || b.Group() != other {
		t.Fatalf("adding to another group should move the item")
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in   string
		want Location
	}{
		{"", LocationUnset},
		{"Left", LocationLeft},
		{"right", LocationRight},
		{" TOP ", LocationTop},
		{"bottom", LocationBottom},
	}
	for _, tt := range tests {
		got, err := ParseLocation(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseLocation(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLocation("middle"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	reg := NewRegistry()
	r1 := NewRoot("R", "", "main", newGroup("a", "", "main"))
	r2 := NewRoot("R", "", "other", newGroup("b", "", "other"))
	mustRegister(t, reg, r1)
	if err := reg.Register(r1); err != nil {
		t.Fatalf("re-registering the same root should be a no-op, got %v", err)
	}
	if err := reg.Register(r2); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected duplicate name rejection, got %v", err)
	}
	if len(reg.Roots()) != 1 {
		t.Fatalf("expected one root, got %d", len(reg.Roots()))
	}
	if !r1.Groups()[0].IsTopLeft() {
		t.Fatalf("registering should mark the top-left leaf")
	}
}

func TestFindReportsSlot(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	reg := engine.Registry()
	a := newGroup("a", "", "main", "a1")
	root := mustRegister(t, reg, NewRoot("R", "", "main", a))

	report, err := reg.Find(a)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if report.Root != root || !report.IsLeaf || report.ParentBranch != nil {
		t.Fatalf("unexpected report for root content: %+v", report)
	}

	res, err := engine.BranchDefault(testContext(t), a, Horizontal, false)
	if err != nil {
		t.Fatalf("branch: %v", err)
	}
	report, err = reg.Find(res.Group)
	if err != nil {
		t.Fatalf("find new group: %v", err)
	}
	if report.IsLeaf || report.ParentBranch != res.Branch || !report.IsSecondChild {
		t.Fatalf("unexpected report for second child: %+v", report)
	}
	report, _ = reg.Find(a)
	if report.IsSecondChild {
		t.Fatalf("existing group should be the first child")
	}

	if _, err := reg.Find(NewTabGroup("loose", "", "")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for detached group, got %v", err)
	}
	reg.Unregister(root)
	if _, err := reg.Find(a); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after unregister, got %v", err)
	}
}

func TestCaptureEqualIgnoresSelection(t *testing.T) {
	a := newGroup("a", "", "main", "a1", "a2")
	root := NewRoot("R", "", "main", a)
	before := Capture(root)
	a.Select(itemByID(a, "a2"))
	after := Capture(root)
	if !Equal(before.Content, after.Content) {
		t.Fatalf("selection change should not affect content equality")
	}
	a.Remove(itemByID(a, "a1"))
	if Equal(before.Content, Capture(root).Content) {
		t.Fatalf("removing an item should change content")
	}
}
