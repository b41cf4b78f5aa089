package model

// Fact is a short reference summary returned by a knowledge source
type Fact struct {
	Text   string `json:"text"`            // Summary text (first sentences of the article)
	Title  string `json:"title,omitempty"` // Resolved article title
	URL    string `json:"url,omitempty"`   // Canonical article URL
	Query  string `json:"query"`           // Candidate that produced this fact
	Source string `json:"source"`          // Knowledge source name (e.g., "wikipedia")
}
