// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tabdock/records.go
// Summary: Lists and removes stored placement records.

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/framegrace/tabdock/store"
)

func newRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List stored item placements",
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
			writeRecords(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <item>...",
		Short: "Forget the stored placement of items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			for _, id := range args {
				if err := st.Delete(id); err != nil {
					return fmt.Errorf("delete %q: %w", id, err)
				}
			}
			return nil
		},
	})
	return cmd
}

func writeRecords(w io.Writer, entries []store.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No records.")
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.MaxColWidth = 40
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ITEM"), bold.Sprint("TITLE"), bold.Sprint("LOCATION"),
		bold.Sprint("ROOT"), bold.Sprint("MAIN"), bold.Sprint("GROUP"), bold.Sprint("UPDATED"))
	for _, e := range entries {
		updated := "-"
		if !e.Updated.IsZero() {
			updated = e.Updated.Local().Format("2006-01-02 15:04")
		}
		r := e.Record
		tbl.AddRow(e.ItemID, e.Title, r.Location.String(), r.LayoutRootName, r.IsMainWindow, r.TabGroupName, updated)
	}
	fmt.Fprintln(w, tbl)
}
