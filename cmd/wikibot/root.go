// Package main provides the entry point for the wikibot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wikibot.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikibot",
		Short: "Bot framework for MediaWiki wiki families",
		Long: `wikibot maintains pages across the language editions of a MediaWiki
wiki family such as Wikipedia.

The interwiki command computes the closure of interwiki language links
reachable from each origin page, resolves conflicts, and rewrites the
link block on the origin so every edition agrees.

Runs are recorded in a local database; use the history command to
inspect past runs and per-page outcomes.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false,
		"Emit logs as JSON lines for log aggregation")

	// Add subcommands
	cmd.AddCommand(NewInterwikiCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
