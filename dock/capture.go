// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/capture.go
// Summary: Captures a root's layout as plain values for comparison, dumps and diffs.

package dock

// LayoutCapture represents a snapshot of one root's layout tree.
type LayoutCapture struct {
	Name      string       `json:"name" yaml:"name"`
	Partition string       `json:"partition,omitempty" yaml:"partition,omitempty"`
	Window    WindowID     `json:"window,omitempty" yaml:"window,omitempty"`
	Content   *NodeCapture `json:"content,omitempty" yaml:"content,omitempty"`
}

// NodeCapture stores either a leaf's group or a branch's split metadata.
type NodeCapture struct {
	Group    string   `json:"group,omitempty" yaml:"group,omitempty"`
	Items    []string `json:"items,omitempty" yaml:"items,omitempty"`
	Selected string   `json:"selected,omitempty" yaml:"selected,omitempty"`
	TopLeft  bool     `json:"topLeft,omitempty" yaml:"topLeft,omitempty"`

	Orientation string       `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Proportion  float64      `json:"proportion,omitempty" yaml:"proportion,omitempty"`
	First       *NodeCapture `json:"first,omitempty" yaml:"first,omitempty"`
	Second      *NodeCapture `json:"second,omitempty" yaml:"second,omitempty"`
}

// IsLeaf reports whether the capture describes a leaf.
func (c *NodeCapture) IsLeaf() bool {
	return c != nil && c.First == nil && c.Second == nil
}

// Capture gathers the root's tree.
func Capture(r *Root) LayoutCapture {
	if r == nil {
		return LayoutCapture{}
	}
	return LayoutCapture{
		Name:      r.Name,
		Partition: r.Partition,
		Window:    r.Window,
		Content:   captureNode(r.content),
	}
}

// CaptureAll captures every loaded root in registration order.
func (reg *Registry) CaptureAll() []LayoutCapture {
	out := make([]LayoutCapture, 0, len(reg.roots))
	for _, r := range reg.roots {
		out = append(out, Capture(r))
	}
	return out
}

func captureNode(n *Node) *NodeCapture {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		g := n.group
		c := &NodeCapture{Group: g.Name, TopLeft: g.topLeft}
		for _, it := range g.items {
			c.Items = append(c.Items, it.ID)
		}
		if g.selected != nil {
			c.Selected = g.selected.ID
		}
		return c
	}
	return &NodeCapture{
		Orientation: n.orientation.String(),
		Proportion:  n.proportion,
		First:       captureNode(n.first),
		Second:      captureNode(n.second),
	}
}

// Equal compares two node captures by content: group names, item order,
// orientation and proportion. Selection and top-left flags are ignored.
func Equal(a, b *NodeCapture) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.IsLeaf() {
		if a.Group != b.Group || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if a.Items[i] != b.Items[i] {
				return false
			}
		}
		return true
	}
	if a.Orientation != b.Orientation || a.Proportion != b.Proportion {
		return false
	}
	return Equal(a.First, b.First) && Equal(a.Second, b.Second)
}
