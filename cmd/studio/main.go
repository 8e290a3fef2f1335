package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studio",
		Short: "TractStack Studio editor backend",
		Long: `TractStack Studio keeps the live site document of the visual editor,
its two undo stacks and the saved versions of every site.

Examples:
  studio serve                     # Start the HTTP API and change feed
  studio normalize site.json       # Print the canonical form of a site
  studio presets                   # List style presets
  studio versions acme             # List saved versions of a site`,
		SilenceUsage: true,
	}

	root.AddCommand(
		serveCmd(),
		normalizeCmd(),
		presetsCmd(),
		versionsCmd(),
	)
	return root
}
