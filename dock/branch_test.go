// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/branch_test.go
// Summary: Exercises branching, consolidation and top-left marking.
// Usage: Executed during `go test` to guard against regressions.

package dock

import (
	"errors"
	"testing"
)

// buildThreeWay returns R = Branch{V, 0.5, a, Branch{H, 0.3, b, c}}.
func buildThreeWay(t *testing.T, engine *Engine) (*Root, *TabGroup, *TabGroup, *TabGroup) {
	t.Helper()
	a := newGroup("a", "", "main", "a1")
	b := newGroup("b", "", "", "b1", "b2")
	c := newGroup("c", "", "", "c1")
	root := mustRegister(t, engine.Registry(), NewRoot("R", "", "main", a))
	if _, err := engine.Branch(testContext(t), a, Vertical, false, 0.5, b); err != nil {
		t.Fatalf("branch a: %v", err)
	}
	if _, err := engine.Branch(testContext(t), b, Horizontal, false, 0.3, c); err != nil {
		t.Fatalf("branch b: %v", err)
	}
	return root, a, b, c
}

func TestBranchRejectsProportionOutOfRange(t *testing.T) {
	engine, host, _ := newTestEngine(t)
	root, a, _, _ := buildThreeWay(t, engine)
	before := Capture(root)

	for _, p := range []float64{-0.01, 1.01} {
		if _, err := engine.Branch(testContext(t), a, Horizontal, false, p, nil); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("proportion %v: expected invalid argument, got %v", p, err)
		}
	}
	if host.calls != 0 {
		t.Fatalf("host should not be asked for a group, got %d calls", host.calls)
	}
	if !Equal(before.Content, Capture(root).Content) {
		t.Fatalf("tree mutated by rejected branch")
	}
}

func TestBranchProportionIsExact(t *testing.T) {
	for _, p := range []float64{0, 0.25, 0.5, 0.7, 1} {
		engine, _, _ := newTestEngine(t)
		a := newGroup("a", "", "main", "a1")
		mustRegister(t, engine.Registry(), NewRoot("R", "", "main", a))
		res, err := engine.Branch(testContext(t), a, Horizontal, false, p, nil)
		if err != nil {
			t.Fatalf("p=%v: %v", p, err)
		}
		if res.Branch.Proportion() != p {
			t.Fatalf("p=%v: stored %v", p, res.Branch.Proportion())
		}
		if res.Branch.SecondProportion() != 1-p {
			t.Fatalf("p=%v: second fraction %v", p, res.Branch.SecondProportion())
		}
	}
}

func TestBranchThenConsolidateRoundTrip(t *testing.T) {
	for _, target := range []string{"a", "b", "c"} {
		for _, o := range []Orientation{Horizontal, Vertical} {
			for _, p := range []float64{0, 0.4, 1} {
				engine, _, _ := newTestEngine(t)
				root, a, b, c := buildThreeWay(t, engine)
				g := map[string]*TabGroup{"a": a, "b": b, "c": c}[target]
				before := Capture(root)

				res, err := engine.Branch(testContext(t), g, o, false, p, nil)
				if err != nil {
					t.Fatalf("%s/%s/%v: branch: %v", target, o, p, err)
				}
				ok, err := engine.Consolidate(res.Group.Leaf())
				if err != nil || !ok {
					t.Fatalf("%s/%s/%v: consolidate = %v, %v", target, o, p, ok, err)
				}
				after := Capture(root)
				if !Equal(before.Content, after.Content) {
					t.Fatalf("%s/%s/%v: round trip changed the tree", target, o, p)
				}
				if countTopLeft(root) != 1 || !a.IsTopLeft() {
					t.Fatalf("%s/%s/%v: expected a to stay top-left", target, o, p)
				}
			}
		}
	}
}

func TestBranchMakeSecondOrdersChildren(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	a := newGroup("a", "", "main", "a1")
	root := mustRegister(t, engine.Registry(), NewRoot("R", "", "main", a))

	res, err := engine.Branch(testContext(t), a, Vertical, true, 0.5, nil)
	if err != nil {
		t.Fatalf("branch: %v", err)
	}
	if root.Content() != res.Branch {
		t.Fatalf("branch should replace the root content")
	}
	if res.Branch.First().Group() != res.Group || res.Branch.Second().Group() != a {
		t.Fatalf("makeSecond should push the existing group second")
	}
	if !res.Group.IsTopLeft() || a.IsTopLeft() {
		t.Fatalf("new first child should become top-left")
	}
	if res.Group.Window != "main" {
		t.Fatalf("new group should adopt the root window, got %q", res.Group.Window)
	}
}

func TestBranchKeepsSelection(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	a := newGroup("a", "", "main", "a1", "a2", "a3")
	mustRegister(t, engine.Registry(), NewRoot("R", "", "main", a))
	a.Select(itemByID(a, "a2"))
	if _, err := engine.BranchDefault(testContext(t), a, Horizontal, false); err != nil {
		t.Fatalf("branch: %v", err)
	}
	if a.Selected().ID != "a2" {
		t.Fatalf("selection lost, got %q", a.Selected().ID)
	}
}

func TestBranchWithSibling(t *testing.T) {
	engine, host, _ := newTestEngine(t)
	root, a, b, _ := buildThreeWay(t, engine)
	if host.calls != 0 {
		t.Fatalf("sibling branches should not use the host")
	}
	if _, err := engine.Branch(testContext(t), a, Horizontal, false, 0.5, b); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected attached sibling to be rejected, got %v", err)
	}
	if len(root.Groups()) != 3 {
		t.Fatalf("expected three groups, got %d", len(root.Groups()))
	}
}

func TestBranchHostNotProvided(t *testing.T) {
	engine, host, _ := newTestEngine(t)
	root, _, b, _ := buildThreeWay(t, engine)
	before := Capture(root)
	host.fail = true

	_, err := engine.BranchDefault(testContext(t), b, Horizontal, false)
	if !errors.Is(err, ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
	if !Equal(before.Content, Capture(root).Content) {
		t.Fatalf("failed branch must not publish a partial tree")
	}
}

func TestBranchWaitsForAsyncRealization(t *testing.T) {
	engine, host, _ := newTestEngine(t)
	a := newGroup("a", "", "main", "a1")
	mustRegister(t, engine.Registry(), NewRoot("R", "", "main", a))
	host.delay = 2

	res, err := engine.BranchDefault(testContext(t), a, Horizontal, false)
	if err != nil {
		t.Fatalf("branch: %v", err)
	}
	if res.Group == nil || host.ticks != 2 {
		t.Fatalf("expected realization after 2 ticks, got group=%v ticks=%d", res.Group, host.ticks)
	}
}

func TestBranchRealizationTimeout(t *testing.T) {
	engine, host, _ := newTestEngine(t)
	root, a, _, _ := buildThreeWay(t, engine)
	before := Capture(root)
	host.delay = DefaultRealizeAttempts + 1

	_, err := engine.BranchDefault(testContext(t), a, Horizontal, false)
	if !errors.Is(err, ErrStructural) {
		t.Fatalf("expected structural timeout, got %v", err)
	}
	if host.ticks != DefaultRealizeAttempts {
		t.Fatalf("expected %d attempts, got %d", DefaultRealizeAttempts, host.ticks)
	}
	if !Equal(before.Content, Capture(root).Content) {
		t.Fatalf("timed out branch must leave the tree untouched")
	}
}

func TestConsolidateRootLevelReturnsFalse(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	a := newGroup("a", "", "main", "a1")
	root := mustRegister(t, engine.Registry(), NewRoot("R", "", "main", a))
	ok, err := engine.ConsolidateGroup(a)
	if ok || err != nil {
		t.Fatalf("expected false, nil; got %v, %v", ok, err)
	}
	if root.Content().Group() != a {
		t.Fatalf("root content changed")
	}
}

func TestConsolidatePromotesIntoGrandparent(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	root, a, b, c := buildThreeWay(t, engine)

	ok, err := engine.ConsolidateGroup(b)
	if err != nil || !ok {
		t.Fatalf("consolidate: %v %v", ok, err)
	}
	top := root.Content()
	if top.IsLeaf() || top.First().Group() != a || top.Second().Group() != c {
		t.Fatalf("expected c promoted into the second slot of the top branch")
	}
	if c.Leaf().Parent() != top {
		t.Fatalf("promoted node's parent back-reference not updated")
	}
	if _, err := engine.Registry().Find(b); !errors.Is(err, ErrNotFound) {
		t.Fatalf("removed group should no longer be found, got %v", err)
	}

	ok, err = engine.ConsolidateGroup(a)
	if err != nil || !ok {
		t.Fatalf("consolidate a: %v %v", ok, err)
	}
	if root.Content() != c.Leaf() || !c.IsTopLeft() {
		t.Fatalf("expected c to become the root content and top-left")
	}
}

func TestConsolidateBrokenChain(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, _, b, c := buildThreeWay(t, engine)
	owner := b.Leaf().Parent()
	owner.parent = &Node{}

	_, err := engine.ConsolidateGroup(b)
	if !errors.Is(err, ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
	if owner.First().Group() != b || owner.Second().Group() != c {
		t.Fatalf("failed consolidate mutated the branch")
	}
}

func TestTopLeftMarkedAfterEveryMutation(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	a := newGroup("a", "", "main", "a1")
	root := mustRegister(t, engine.Registry(), NewRoot("R", "", "main", a))

	groups := []*TabGroup{a}
	steps := []struct {
		target     int
		o          Orientation
		makeSecond bool
	}{
		{0, Horizontal, true},
		{1, Vertical, false},
		{0, Vertical, true},
		{2, Horizontal, false},
		{3, Horizontal, true},
	}
	for i, s := range steps {
		res, err := engine.Branch(testContext(t), groups[s.target], s.o, s.makeSecond, 0.5, nil)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		groups = append(groups, res.Group)
		if n := countTopLeft(root); n != 1 {
			t.Fatalf("step %d: %d leaves marked top-left", i, n)
		}
		first := root.Content()
		for !first.IsLeaf() {
			first = first.First()
		}
		if root.TopLeft() != first.Group() {
			t.Fatalf("step %d: top-left is not the first-most leaf", i)
		}
	}
	for i := len(groups) - 1; i > 0; i-- {
		if _, err := engine.ConsolidateGroup(groups[i]); err != nil {
			t.Fatalf("consolidate %d: %v", i, err)
		}
		if n := countTopLeft(root); n != 1 {
			t.Fatalf("after consolidating %d: %d leaves marked top-left", i, n)
		}
	}
}

func TestSetProportionValidates(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	root, _, _, _ := buildThreeWay(t, engine)
	top := root.Content()
	if err := top.SetProportion(1.5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err := top.SetProportion(0.8); err != nil || top.Proportion() != 0.8 {
		t.Fatalf("resize failed: %v", err)
	}
	if err := top.First().SetProportion(0.5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("leaf resize should fail, got %v", err)
	}
}
