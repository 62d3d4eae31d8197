// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tabdock/main.go
// Summary: Root command for the tabdock CLI; loads config before any subcommand runs.
// Usage: tabdock [--config path] [--verbose] <demo|dump|diff|records>

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/framegrace/tabdock/config"
	"github.com/framegrace/tabdock/dock"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tabdock",
	Short: "Tabbed docking layouts in the terminal",
	Long: `tabdock arranges tabbed groups in split panes across terminal windows.

Drag a tab onto the edge of another window to dock it there. Placements are
recorded and replayed on the next start.

Examples:
  tabdock demo                      # Interactive session
  tabdock dump > before.yaml        # Replay stored records headlessly
  tabdock diff before.yaml after.yaml
  tabdock records`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dock.SetVerboseLogging(verbose)
		path := cfgFile
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				cfg = config.Default()
				return nil
			}
			path = p
		}
		loaded, err := config.Load(path)
		if err != nil {
			if cfgFile != "" {
				return err
			}
			log.Printf("Config: %v; using defaults", err)
		}
		cfg = loaded
		cfgFile = path
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/tabdock/tabdock.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log drag tracking details")

	rootCmd.AddCommand(newDemoCmd(), newDumpCmd(), newDiffCmd(), newRecordsCmd())
}

func main() {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
