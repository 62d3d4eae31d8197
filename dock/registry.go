// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/registry.go
// Summary: Tracks the layout roots currently loaded by the host.
// Usage: Hosts register a root when its window becomes visible and unregister it on close.

package dock

import (
	"fmt"
	"log"
)

// Registry is the set of loaded roots. Roots are iterated in registration order.
type Registry struct {
	roots []*Root
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a loaded root and marks its top-left leaf. Registering the
// same root twice is a no-op; a second root with an existing name is rejected.
func (reg *Registry) Register(r *Root) error {
	if r == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidArgument)
	}
	if reg.Contains(r) {
		return nil
	}
	if r.Name != "" {
		if existing := reg.Lookup(r.Name); existing != nil {
			return fmt.Errorf("%w: root name %q already registered", ErrInvalidArgument, r.Name)
		}
	}
	reg.roots = append(reg.roots, r)
	MarkTopLeft(r)
	log.Printf("Registry: Registered root %q (partition=%q window=%q)", r.Name, r.Partition, r.Window)
	return nil
}

// Unregister removes a root whose window closed.
func (reg *Registry) Unregister(r *Root) bool {
	for i, existing := range reg.roots {
		if existing == r {
			reg.roots = append(reg.roots[:i], reg.roots[i+1:]...)
			r.participating = false
			log.Printf("Registry: Unregistered root %q", r.Name)
			return true
		}
	}
	return false
}

// Roots returns a snapshot of the loaded roots.
func (reg *Registry) Roots() []*Root {
	out := make([]*Root, len(reg.roots))
	copy(out, reg.roots)
	return out
}

func (reg *Registry) Contains(r *Root) bool {
	for _, existing := range reg.roots {
		if existing == r {
			return true
		}
	}
	return false
}

// Lookup returns the loaded root with the given name.
func (reg *Registry) Lookup(name string) *Root {
	if name == "" {
		return nil
	}
	for _, r := range reg.roots {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// RootForWindow returns the first loaded root hosted by the window.
func (reg *Registry) RootForWindow(w WindowID) *Root {
	for _, r := range reg.roots {
		if r.Window == w {
			return r
		}
	}
	return nil
}

// GroupNamed searches every loaded tree for a group with the given name.
func (reg *Registry) GroupNamed(name string) *TabGroup {
	if name == "" {
		return nil
	}
	var found *TabGroup
	for _, r := range reg.roots {
		walkLeaves(r.content, func(g *TabGroup) {
			if found == nil && g.Name == name {
				found = g
			}
		})
		if found != nil {
			return found
		}
	}
	return nil
}
