// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: termhost/host.go
// Summary: Group materialization and the tick scheduler used while waiting for it.

package termhost

import (
	"context"

	"github.com/framegrace/tabdock/dock"
)

// pendingContainer holds a group that becomes visible to the engine only
// after a number of event loop ticks.
type pendingContainer struct {
	group     *dock.TabGroup
	remaining int
}

func (c *pendingContainer) RealizedGroup() *dock.TabGroup {
	if c.remaining > 0 {
		return nil
	}
	return c.group
}

// SetRealizeDelay makes new groups appear only after n ticks, the way hosts
// with asynchronous widget creation behave.
func (d *Desktop) SetRealizeDelay(n int) {
	if n < 0 {
		n = 0
	}
	d.realizeDelay = n
}

// GetNewHost implements dock.HostProvider.
func (d *Desktop) GetNewHost(partition string, existing *dock.TabGroup) *dock.NewHost {
	window := dock.WindowID("")
	if existing != nil {
		window = existing.Window
	}
	group := dock.NewTabGroup(d.newGroupName(), partition, window)
	c := &pendingContainer{group: group, remaining: d.realizeDelay}
	if c.remaining == 0 {
		return &dock.NewHost{Container: c, Group: group}
	}
	d.pending = append(d.pending, c)
	return &dock.NewHost{Container: c}
}

// Yield implements dock.Scheduler by running one tick of deferred work.
func (d *Desktop) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.Tick()
	return nil
}

// Tick advances pending group realizations.
func (d *Desktop) Tick() {
	d.ticks++
	kept := d.pending[:0]
	for _, c := range d.pending {
		if c.remaining > 0 {
			c.remaining--
		}
		if c.remaining > 0 {
			kept = append(kept, c)
		}
	}
	d.pending = kept
}

// Ticks reports how many scheduler ticks have run.
func (d *Desktop) Ticks() int {
	return d.ticks
}
