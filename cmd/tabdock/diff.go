// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tabdock/diff.go
// Summary: Line diff of two layout dumps.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var exitCode bool
	cmd := &cobra.Command{
		Use:   "diff <before.yaml> <after.yaml>",
		Short: "Compare two dumps line by line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			after, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			changed := writeLineDiff(cmd.OutOrStdout(), lineDiff(string(before), string(after)))
			if changed > 0 && exitCode {
				return fmt.Errorf("%d lines differ", changed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when the dumps differ")
	return cmd
}

// lineDiff diffs whole lines rather than characters.
func lineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// writeLineDiff prints diffs with +/- prefixes and returns the number of
// inserted or deleted lines.
func writeLineDiff(w io.Writer, diffs []diffmatchpatch.Diff) int {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	changed := 0
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				changed++
				added.Fprintln(w, "+ "+line)
			case diffmatchpatch.DiffDelete:
				changed++
				removed.Fprintln(w, "- "+line)
			default:
				fmt.Fprintln(w, "  "+line)
			}
		}
	}
	return changed
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
