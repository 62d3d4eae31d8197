// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tabdock/dump.go
// Summary: Replays stored records on a headless screen and prints the result as YAML.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/framegrace/tabdock/config"
	"github.com/framegrace/tabdock/dock"
	"github.com/framegrace/tabdock/store"
	"github.com/framegrace/tabdock/termhost"
)

// Dump is the document printed by the dump command.
type Dump struct {
	Layouts []dock.LayoutCapture `yaml:"layouts"`
	Failed  []DumpFailure        `yaml:"failed,omitempty"`
	Screen  []string             `yaml:"screen,omitempty"`
}

type DumpFailure struct {
	Item  string `yaml:"item"`
	Error string `yaml:"error"`
}

func newDumpCmd() *cobra.Command {
	var width, height int
	var noScreen bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Replay stored placements and print the resulting layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			entries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			dump, err := buildDump(cmd.Context(), cfg, entries, width, height)
			if err != nil {
				return err
			}
			if noScreen {
				dump.Screen = nil
			}
			return writeDump(cmd.OutOrStdout(), dump)
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "screen width in cells")
	cmd.Flags().IntVar(&height, "height", 24, "screen height in cells")
	cmd.Flags().BoolVar(&noScreen, "no-screen", false, "omit the rendered screen")
	return cmd
}

// buildDump restores entries into a fresh main window of a simulated screen.
// Group names are seeded so that equal inputs produce equal dumps.
func buildDump(ctx context.Context, cfg config.Config, entries []store.Entry, width, height int) (Dump, error) {
	if width <= 0 || height <= 0 {
		return Dump{}, fmt.Errorf("invalid screen size %dx%d", width, height)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return Dump{}, fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.SetSize(width, height)

	d := termhost.NewDesktop(screen, cfg)
	d.SetNameSeed("tabdock-dump")

	items := make([]*dock.Item, 0, len(entries))
	for _, e := range entries {
		it := dock.NewItem(e.ItemID, e.Title)
		it.Record = e.Record
		items = append(items, it)
	}
	mainWin, err := d.AddWindow("main", dock.Rect{W: width, H: height}, items...)
	if err != nil {
		return Dump{}, err
	}
	report := d.Restorer().RestoreAll(ctx, mainWin.Root.Groups()[0], items)
	d.Render()

	dump := Dump{Layouts: d.Registry().CaptureAll(), Screen: d.Lines()}
	for _, f := range report.Failed {
		id := ""
		if f.Item != nil {
			id = f.Item.ID
		}
		dump.Failed = append(dump.Failed, DumpFailure{Item: id, Error: f.Err.Error()})
	}
	return dump, nil
}

func writeDump(w io.Writer, dump Dump) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return enc.Close()
}
