package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Harwood/PropertyScraper/internal/config"
	"github.com/Harwood/PropertyScraper/internal/database"
	"github.com/Harwood/PropertyScraper/internal/extractor"
	"github.com/Harwood/PropertyScraper/internal/fetcher"
	"github.com/Harwood/PropertyScraper/internal/log"
	"github.com/Harwood/PropertyScraper/internal/pipeline"
	"github.com/Harwood/PropertyScraper/internal/report"
	"github.com/Harwood/PropertyScraper/internal/urlreader"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url | file | -]",
		Short: "Scrape one or more Airbnb listings into the database",
		Long: `Scrape fetches listing pages, extracts the embedded listing data, and
stores the configured fields in the SQLite database.

The argument is a single listing URL, a path to a file with one URL per
line (blank lines and # comments are skipped), or - to read the URL list
from stdin.

Listings are fetched strictly one at a time with a delay between requests.
If the site starts throttling, the run stops and exits with code 2;
already-stored listings are kept, so the run can be resumed later.

Examples:
  # Scrape a single listing
  propertyscraper scrape https://www.airbnb.com/rooms/12345

  # Scrape a list of URLs from a file with a 5 second delay
  propertyscraper scrape --delay 5s urls.txt

  # Read URLs from stdin and print each stored listing as JSON
  cat urls.txt | propertyscraper scrape --print --json -

Configuration file (.propertyscraper) example:
  cookie: "_airbed_session_id=abc123"
  delay: 2s
  fields:
    - name: name
      path: name
    - name: score
      path: review_details_interface.review_score
      type: numeric`,
		Args: cobra.ExactArgs(1),
		RunE: runScrapeCmd,
	}

	// Storage flags
	cmd.Flags().String("db", "",
		"SQLite database path (default: listings.db in the XDG data directory)")

	// Request behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each listing fetch")
	cmd.Flags().DurationP("delay", "d", config.DefaultRequestDelay,
		"Pause between consecutive listing fetches")
	cmd.Flags().StringP("user-agent", "u", "",
		"User-Agent header (default: a desktop browser string)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .propertyscraper in current or home directory)")

	// Output flags
	cmd.Flags().BoolP("print", "p", false,
		"Print each stored listing to stdout")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format (mutually exclusive with --json)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	urls, err := urlreader.FromArg(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no listing URLs supplied")
	}

	// Cancel the run on interrupt so stored rows survive a Ctrl-C.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScrape(ctx, cmd, cfg, urls, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig assembles the effective configuration.
// Precedence, lowest to highest: defaults, config file, .env overrides,
// command-line flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file, a missing file is an
	// error. Otherwise the file is optional.
	found := config.FindConfigFile(configPath)
	if found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		if err := cfg.ApplyFile(cf); err != nil {
			return nil, err
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	// Flags win over everything, but only when actually set.
	if cmd.Flags().Changed("db") {
		if cfg.DatabasePath, err = cmd.Flags().GetString("db"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("delay") {
		if cfg.RequestDelay, err = cmd.Flags().GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("print") {
		if cfg.PrintListings, err = cmd.Flags().GetBool("print"); err != nil {
			return nil, err
		}
	}
	if cfg.JSONOutput, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownOutput, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runScrape opens the database, assembles the pipeline, and drives the run.
func runScrape(ctx context.Context, cmd *cobra.Command, cfg *config.Config, urls []string, logger *slog.Logger) error {
	db, err := database.Open(cfg.DatabasePath, cfg.Fields, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()
	logger.Info("database opened", "path", cfg.DatabasePath)

	client := &http.Client{Timeout: cfg.Timeout}
	f := fetcher.New(client,
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithCookie(cfg.Cookie),
		fetcher.WithHeaders(cfg.Headers),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewFetchStep(f, pipeline.WithFetchLogger(logger)),
		pipeline.NewExtractStep(extractor.New()),
		pipeline.NewResolveStep(cfg.Fields),
		pipeline.NewStoreStep(db),
	)

	driver := pipeline.NewDriver(p,
		pipeline.WithDriverLogger(logger),
		pipeline.WithDelay(cfg.RequestDelay),
	)

	run, err := driver.Run(ctx, urls)
	if err != nil {
		return err
	}

	writer := newWriter(cmd.OutOrStdout(), cfg.JSONOutput, cfg.MarkdownOutput)

	if cfg.PrintListings {
		if err := printStoredListings(ctx, db, run, writer); err != nil {
			return err
		}
	}

	if _, err := writer.WriteRun(run); err != nil {
		return err
	}

	if run.Status == pipeline.StatusThrottled {
		return errThrottledRun
	}
	return nil
}

// newWriter selects the report writer for the requested format.
func newWriter(out io.Writer, jsonOut, markdownOut bool) report.Writer {
	switch {
	case jsonOut:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOut:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out)
	}
}

// printStoredListings reads each stored listing back from the database and
// writes it with the selected writer.
func printStoredListings(ctx context.Context, db *database.ListingDB, run *pipeline.RunReport, w report.Writer) error {
	for _, s := range run.Scrapes {
		if !s.Stored {
			continue
		}
		row, err := db.GetListing(ctx, s.URL)
		if err != nil {
			return err
		}
		if row == nil {
			continue
		}
		if _, err := w.WriteListing(row); err != nil {
			return err
		}
	}
	return nil
}
