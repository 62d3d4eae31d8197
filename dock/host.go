// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/host.go
// Summary: Collaborator interfaces the engine needs from its host environment.
// Usage: Implemented by termhost for terminals and by fakes in tests.

package dock

import "context"

// Container is the host-side holder of a newly materialized group. Some hosts
// realize the group asynchronously; RealizedGroup returns nil until then.
type Container interface {
	RealizedGroup() *TabGroup
}

// NewHost is what a HostProvider hands back for a new pane.
type NewHost struct {
	Container Container
	// Group may be nil when the host realizes it later through Container.
	Group *TabGroup
}

// HostProvider materializes new tab groups. Returning nil means the host
// could not provide one.
type HostProvider interface {
	GetNewHost(partition string, existing *TabGroup) *NewHost
}

// Windows abstracts the host's top-level windows.
type Windows interface {
	// MainWindow returns the application's main window.
	MainWindow() WindowID
	// ToWindow translates a screen point into the window's local space.
	// ok is false when the window no longer exists.
	ToWindow(w WindowID, screen Point) (local Point, ok bool)
	// CreateWindow builds a hidden top-level window with a registered root
	// and returns the group new items should be placed in.
	CreateWindow(partition string) (WindowID, *TabGroup, error)
	ShowWindow(w WindowID)
	CloseWindow(w WindowID)
}

// Scheduler yields one tick of the host event loop so asynchronously
// realized content can appear.
type Scheduler interface {
	Yield(ctx context.Context) error
}

// ImmediateScheduler never waits; it suits hosts that realize synchronously.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Yield(ctx context.Context) error {
	return ctx.Err()
}

// EmptiedResponse tells the engine what to do with a group a drag emptied.
type EmptiedResponse int

const (
	// CloseWindowOrLayoutBranch consolidates the emptied leaf, or closes its
	// window when the leaf is the root's whole content.
	CloseWindowOrLayoutBranch EmptiedResponse = iota
	// DoNothing keeps the empty group in place.
	DoNothing
)
