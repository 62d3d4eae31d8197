// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/errors.go
// Summary: Error kinds surfaced by the docking engine.

package dock

import "errors"

var (
	// ErrInvalidArgument is returned before any mutation when a caller passes
	// an out-of-range value, such as a proportion outside [0,1].
	ErrInvalidArgument = errors.New("dock: invalid argument")

	// ErrNotFound is returned when a group is not attached to a registered root.
	ErrNotFound = errors.New("dock: not found")

	// ErrStructural covers malformed trees, a missing host and exhausted
	// realization retries. The tree is left in its last-known-good state.
	ErrStructural = errors.New("dock: structural failure")

	// ErrRestore marks a single item that could not be restored.
	ErrRestore = errors.New("dock: restore failed")
)
