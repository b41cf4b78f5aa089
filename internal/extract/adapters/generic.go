package adapters

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// GenericAdapter is the fallback adapter for unknown domains. It runs a
// readability pass to isolate the main article and falls back to all
// block-level text when that finds nothing.
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(url string, contentType string) bool {
	return true
}

// ExtractText returns the main readable text of the page
func (a *GenericAdapter) ExtractText(doc *html.Node, rawURL string) (string, error) {
	if pageURL, err := url.Parse(rawURL); err == nil {
		// readability mutates the tree, so it gets its own copy
		article, err := readability.FromDocument(cloneTree(doc), pageURL)
		if err == nil && article.Node != nil {
			if text := a.blockText(article.Node); text != "" {
				return text, nil
			}
		}
	}
	return a.blockText(doc), nil
}

// blockText gathers text from paragraphs, list items and headings
func (a *GenericAdapter) blockText(root *html.Node) string {
	blocks := a.FindAll(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		switch n.Data {
		case "p", "li", "blockquote", "h1", "h2", "h3", "h4", "pre", "td":
			return true
		}
		return false
	})

	var paragraphs []string
	for _, block := range blocks {
		text := a.NodeText(block)
		// Skip link lists and one-word cells
		if len(strings.Fields(text)) < 3 {
			continue
		}
		paragraphs = append(paragraphs, text)
	}
	if len(paragraphs) == 0 {
		return a.NodeText(root)
	}
	return joinParagraphs(paragraphs)
}

// cloneTree deep-copies an HTML node tree
func cloneTree(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneTree(c))
	}
	return clone
}
