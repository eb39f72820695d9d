package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/Harwood/PropertyScraper/internal/model"
)

// Extraction errors.
var (
	// ErrNoEmbeddedData is returned when no embedded-data payload carries
	// the listing document. The URL is skipped; the run continues.
	ErrNoEmbeddedData = errors.New("no embedded listing data found in page")

	// ErrMalformedData is returned when embedded payloads exist but none
	// parses as well-formed JSON.
	ErrMalformedData = errors.New("embedded listing data is malformed")
)

// scriptTypeJSON is the script element type carrying embedded state.
const scriptTypeJSON = "application/json"

// defaultRootPath locates the listing document inside the bootstrap payload.
// Only this subtree is returned: sibling keys such as headerParams carry
// values that are not part of the listing.
const defaultRootPath = "bootstrapData.listing"

// Extractor parses listing documents out of raw page text.
type Extractor struct {
	// rootPath is the path from a payload root to the listing document.
	rootPath model.FieldPath
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRootPath overrides the path from the embedded payload root to the
// listing document.
func WithRootPath(path model.FieldPath) Option {
	return func(e *Extractor) {
		if len(path) > 0 {
			e.rootPath = path
		}
	}
}

// New creates an Extractor with the default bootstrap root path.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		rootPath: model.MustParseFieldPath(defaultRootPath),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract locates the embedded JSON state in the page and returns the listing
// document. Payload candidates are tried in document order; the first one
// holding a document at the root path wins.
func (e *Extractor) Extract(page []byte) (model.Value, error) {
	payloads, err := embeddedJSONPayloads(page)
	if err != nil {
		return model.Absent(), fmt.Errorf("%w: %v", ErrNoEmbeddedData, err)
	}
	if len(payloads) == 0 {
		return model.Absent(), ErrNoEmbeddedData
	}

	parsedAny := false
	for _, payload := range payloads {
		root, err := model.FromJSON(payload)
		if err != nil {
			continue
		}
		parsedAny = true

		listing := e.rootPath.Walk(root)
		if listing.Kind() == model.KindDocument {
			return listing, nil
		}
	}

	if !parsedAny {
		return model.Absent(), ErrMalformedData
	}
	return model.Absent(), ErrNoEmbeddedData
}

// embeddedJSONPayloads walks the page DOM and collects the contents of every
// script element of type application/json, unwrapping the HTML comment the
// payload is serialized inside.
func embeddedJSONPayloads(page []byte) ([][]byte, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	var payloads [][]byte

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && getAttr(n, "type") == scriptTypeJSON {
			if payload := scriptPayload(n); len(payload) > 0 {
				payloads = append(payloads, payload)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return payloads, nil
}

// scriptPayload extracts the JSON text from a script node, stripping the
// surrounding <!-- --> wrapper when present. Script content is raw text, so
// the comment markers arrive as part of the text rather than as comment nodes.
func scriptPayload(n *html.Node) []byte {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode, html.CommentNode:
			sb.WriteString(c.Data)
		}
	}

	text := strings.TrimSpace(sb.String())
	text = strings.TrimPrefix(text, "<!--")
	text = strings.TrimSuffix(text, "-->")
	return []byte(strings.TrimSpace(text))
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
