// Package main provides the entry point for the PropertyScraper CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exit codes for Execute. Throttling is distinguished from ordinary errors
// so batch callers can tell "retry later" apart from "fix your invocation".
const (
	exitError     = 1
	exitThrottled = 2
)

// errThrottledRun is returned by the scrape command when the run halted
// early because the target started throttling requests.
var errThrottledRun = errors.New("run halted: target is throttling requests, retry later with a longer --delay")

// NewRootCmd creates the root command for PropertyScraper.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propertyscraper",
		Short: "Scrape Airbnb listing data into SQLite",
		Long: `PropertyScraper fetches Airbnb listing pages, extracts the embedded
listing data, and stores the configured fields in a SQLite database.

Listings are scraped one at a time with a politeness delay. When the site
starts throttling requests, the run stops early and exits with code 2 so
the remaining URLs can be retried later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errThrottledRun) {
			os.Exit(exitThrottled)
		}
		os.Exit(exitError)
	}
}
