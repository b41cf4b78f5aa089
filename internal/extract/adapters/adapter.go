package adapters

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Adapter turns a fetched page into plain text suitable for claim extraction
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL/content
	CanHandle(url string, contentType string) bool

	// ExtractText returns the readable prose of the document, paragraphs
	// separated by blank lines
	ExtractText(doc *html.Node, url string) (string, error)
}

// Registry manages domain adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{}
	registry.Register(NewWikipediaAdapter())
	registry.generic = NewGenericAdapter()
	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given URL and content type
func (r *Registry) FindAdapter(url string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(url, contentType) {
			return adapter
		}
	}
	return r.generic
}

// ParseHTML parses an HTML string into a node tree
func ParseHTML(htmlContent string) (*html.Node, error) {
	return html.Parse(strings.NewReader(htmlContent))
}

// BaseAdapter provides tree helpers shared by adapters
type BaseAdapter struct{}

// skipElements never contribute readable text
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"sup": true, "svg": true, "math": true, "nav": true, "footer": true,
}

var citationMarker = regexp.MustCompile(`\[(\d+|[a-z]|citation needed|note \d+)\]`)

// NodeText returns the whitespace-normalized text of a node
func (b *BaseAdapter) NodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && skipElements[node.Data] {
			return
		}
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	text := citationMarker.ReplaceAllString(buf.String(), "")
	text = strings.Join(strings.Fields(text), " ")
	// Removing markers can leave "word ." behind
	for _, p := range []string{".", ",", ";", ":"} {
		text = strings.ReplaceAll(text, " "+p, p)
	}
	return text
}

// HasClass checks if a node has a specific CSS class
func (b *BaseAdapter) HasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, class := range strings.Fields(b.GetAttribute(n, "class")) {
		if class == className {
			return true
		}
	}
	return false
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindAll finds all nodes matching a predicate, without descending into matches
func (b *BaseAdapter) FindAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// FindFirst finds the first node matching a predicate
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

// joinParagraphs joins non-empty paragraphs with blank lines
func joinParagraphs(paragraphs []string) string {
	var kept []string
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
