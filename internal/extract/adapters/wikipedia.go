package adapters

import (
	"strings"

	"golang.org/x/net/html"
)

// WikipediaAdapter extracts article prose from Wikipedia pages
type WikipediaAdapter struct {
	BaseAdapter
	leadOnly bool
}

// NewWikipediaAdapter creates a Wikipedia adapter that reads the whole body
func NewWikipediaAdapter() *WikipediaAdapter {
	return &WikipediaAdapter{}
}

// NewWikipediaLeadAdapter creates a Wikipedia adapter that stops at the first section heading
func NewWikipediaLeadAdapter() *WikipediaAdapter {
	return &WikipediaAdapter{leadOnly: true}
}

// Name returns the adapter name
func (a *WikipediaAdapter) Name() string {
	return "wikipedia"
}

// CanHandle checks if this is a Wikipedia URL
func (a *WikipediaAdapter) CanHandle(rawURL string, contentType string) bool {
	return strings.Contains(rawURL, "wikipedia.org")
}

// ExtractText collects article paragraphs, skipping infoboxes, navigation
// and trailing reference sections
func (a *WikipediaAdapter) ExtractText(doc *html.Node, rawURL string) (string, error) {
	content := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" &&
			(a.HasClass(n, "mw-parser-output") || a.GetAttribute(n, "id") == "mw-content-text")
	})
	if content == nil {
		content = doc
	}

	var paragraphs []string
	stop := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if stop {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "h2":
				if a.leadOnly || isBackMatter(a.NodeText(n)) {
					stop = true
					return
				}
			case n.Data == "table", n.Data == "figure", n.Data == "style":
				return
			case a.HasClass(n, "navbox"), a.HasClass(n, "infobox"), a.HasClass(n, "reflist"),
				a.HasClass(n, "hatnote"), a.HasClass(n, "thumb"), a.HasClass(n, "mw-empty-elt"):
				return
			case n.Data == "p":
				paragraphs = append(paragraphs, a.NodeText(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(content)

	return joinParagraphs(paragraphs), nil
}

// isBackMatter reports whether a heading starts the non-prose tail of an article
func isBackMatter(heading string) bool {
	switch strings.ToLower(strings.TrimSpace(heading)) {
	case "references", "notes", "see also", "external links", "further reading",
		"sources", "bibliography", "citations", "notes and references":
		return true
	}
	return false
}
