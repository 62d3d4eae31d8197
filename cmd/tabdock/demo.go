// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tabdock/demo.go
// Summary: Interactive session with two windows of sample tabs.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/framegrace/tabdock/config"
	"github.com/framegrace/tabdock/dock"
	"github.com/framegrace/tabdock/store"
	"github.com/framegrace/tabdock/termhost"
)

type sampleItem struct {
	id, title string
	tools     bool
}

var samples = []sampleItem{
	{id: "editor", title: "Editor"},
	{id: "terminal", title: "Terminal"},
	{id: "help", title: "Help"},
	{id: "logs", title: "Logs", tools: true},
	{id: "notes", title: "Notes", tools: true},
}

func newDemoCmd() *cobra.Command {
	var logPath string
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an interactive docking session",
		Long: `Opens a main window and a tools window. Drag tabs with the mouse.

Keys:
  h / v   split the focused group side by side / stacked
  x       consolidate the focused group
  q       quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("demo needs an interactive terminal")
			}
			if logPath == "" {
				log.SetOutput(io.Discard)
			} else {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log: %w", err)
				}
				defer f.Close()
				log.SetOutput(f)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDemo(ctx, !noWatch)
		},
	}
	cmd.Flags().StringVar(&logPath, "log", "", "append logs to this file")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config file on change")
	return cmd
}

func runDemo(ctx context.Context, watch bool) error {
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	d := termhost.NewDesktop(screen, cfg)
	rec := store.NewRecorder(st)
	d.Engine().Subscribe(rec)

	if err := openDemoWindows(ctx, d, st); err != nil {
		return err
	}

	if watch && cfgFile != "" {
		w, err := config.NewWatcher(cfgFile, func(c config.Config, err error) {
			if err != nil {
				log.Printf("Config: reload failed: %v", err)
				return
			}
			d.Reload(c)
		})
		if err != nil {
			log.Printf("Config: watch disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	err = d.Run(ctx)
	log.Printf("Demo: recorded %d placements", rec.Saved())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openDemoWindows adds the main and tools windows and replays any stored
// placements for their items.
func openDemoWindows(ctx context.Context, d *termhost.Desktop, st store.Store) error {
	var mainItems, toolItems []*dock.Item
	for _, s := range samples {
		it := dock.NewItem(s.id, s.title)
		if s.tools {
			toolItems = append(toolItems, it)
		} else {
			mainItems = append(mainItems, it)
		}
	}
	all := append(append([]*dock.Item{}, mainItems...), toolItems...)
	if _, err := store.Apply(st, all); err != nil {
		log.Printf("Demo: ignoring stored records: %v", err)
	}

	sw, sh := d.ScreenSize()
	split := sw * 2 / 3
	mainWin, err := d.AddWindow("main", dock.Rect{W: split, H: sh}, mainItems...)
	if err != nil {
		return err
	}
	toolsWin, err := d.AddWindow("tools", dock.Rect{X: split, W: sw - split, H: sh}, toolItems...)
	if err != nil {
		return err
	}

	report := d.Restorer().RestoreAll(ctx, mainWin.Root.Groups()[0], mainItems)
	if d.Window(toolsWin.ID) != nil {
		more := d.Restorer().RestoreAll(ctx, toolsWin.Root.Groups()[0], toolItems)
		report.Failed = append(report.Failed, more.Failed...)
	}
	for _, f := range report.Failed {
		log.Printf("Demo: could not restore %q: %v", f.Item.ID, f.Err)
	}
	return nil
}
