package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Harwood/PropertyScraper/internal/database"
	"github.com/Harwood/PropertyScraper/internal/model"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [url]",
		Short: "Print a previously scraped listing from the database",
		Long: `Show prints a listing that was stored by a previous scrape run.

Examples:
  # Show a stored listing
  propertyscraper show https://www.airbnb.com/rooms/12345

  # Show it as JSON
  propertyscraper show --json https://www.airbnb.com/rooms/12345

  # List every stored listing URL
  propertyscraper show --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShowCmd,
	}

	cmd.Flags().String("db", "",
		"SQLite database path (default: listings.db in the XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .propertyscraper in current or home directory)")
	cmd.Flags().BoolP("all", "a", false,
		"List the URLs of all stored listings instead of showing one")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to the specified file instead of stdout")

	return cmd
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	if !all && len(args) == 0 {
		return fmt.Errorf("specify a listing URL or use --all")
	}

	// The listing may have been stored with custom fields; open read-only
	// so a typo'd path does not create an empty database.
	db, err := database.Open(cfg.DatabasePath, cfg.Fields, database.Options{
		CreateIfNotExists: false,
		EnableWAL:         false,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	ctx := cmd.Context()

	if all {
		urls, err := db.ListURLs(ctx)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "no listings stored")
			return nil
		}
		for _, u := range urls {
			fmt.Fprintln(out, u)
		}
		return nil
	}

	url, err := model.NormalizeListingURL(args[0])
	if err != nil {
		return fmt.Errorf("invalid listing URL %q: %w", args[0], err)
	}

	row, err := db.GetListing(ctx, url)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("no stored listing for %s", url)
	}

	writer := newWriter(out, cfg.JSONOutput, cfg.MarkdownOutput)
	_, err = writer.WriteListing(row)
	return err
}

// openOutput resolves the --output flag into a writer.
// The second return value closes the file when one was opened.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
