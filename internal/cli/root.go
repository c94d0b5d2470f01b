// Package cli defines and implements the CLI commands for the wongames
// executable.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wongames",
		Short: "Catalog population tooling for the Won Games store",
		Long: `wongames ingests the GOG storefront catalog into the Won Games
content store: it deduplicates and upserts the shared reference entities
(developers, publishers, categories, platforms), scrapes description content
from each product's detail page, and materializes normalized game records.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml search via env)")
	cmd.AddCommand(newPopulateCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
