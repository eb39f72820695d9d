// Package urlreader resolves the scrape command's input argument into a
// list of normalized listing URLs.
//
// The argument is interpreted three ways: the literal token "-" reads a
// URL list from stdin, a path to an existing file reads the list from that
// file, and anything else is treated as a single listing URL. List input
// is one URL per line; blank lines and lines starting with "#" are skipped.
package urlreader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Harwood/PropertyScraper/internal/model"
)

// StdinToken is the argument that selects stdin as the URL source.
const StdinToken = "-"

// FromArg resolves a command-line argument into normalized listing URLs.
// The stdin reader is passed in so tests can substitute it.
func FromArg(arg string, stdin io.Reader) ([]string, error) {
	if arg == StdinToken {
		return ReadList(stdin)
	}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return fromFile(arg)
	}

	url, err := model.NormalizeListingURL(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid listing URL %q: %w", arg, err)
	}
	return []string{url}, nil
}

// fromFile reads a URL list from the named file.
func fromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL list: %w", err)
	}
	defer func() { _ = f.Close() }()

	urls, err := ReadList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return urls, nil
}

// ReadList reads one URL per line, skipping blanks and "#" comments.
// Each URL is normalized; a line that fails validation aborts the read
// with an error naming the line number. Duplicate URLs are dropped,
// keeping the first occurrence.
func ReadList(r io.Reader) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		url, err := model.NormalizeListingURL(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid listing URL %q: %w", lineNo, line, err)
		}
		if seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL list: %w", err)
	}

	return urls, nil
}
