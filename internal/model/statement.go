package model

import "strings"

// Statement is a single claim destined for the briefing report.
// SourceName and SourceURL are optional; an absent JSON key and a key
// present with an empty string are treated identically (unknown).
type Statement struct {
	Text       string `json:"text"`                  // The claim text itself
	SourceName string `json:"source_name,omitempty"` // Publisher or feed label
	SourceURL  string `json:"source_url,omitempty"`  // Link to the original article
}

// HasCompleteSource reports whether both provenance fields are present.
// Whitespace-only values count as absent. Presence is all that is checked;
// URL syntax and source-name spelling are never validated.
func (s Statement) HasCompleteSource() bool {
	return strings.TrimSpace(s.SourceName) != "" && strings.TrimSpace(s.SourceURL) != ""
}

// NewsItem is one entry pulled from an RSS feed
type NewsItem struct {
	Source    string `json:"source"`    // Feed label (e.g., "Google News")
	Title     string `json:"title"`     // Headline text
	Link      string `json:"link"`      // Article URL
	Published string `json:"published"` // RFC1123-ish pubDate string from the feed
}

// Statement converts a feed item into a report statement.
// An item without a link yields an unknown-source statement.
func (n NewsItem) Statement() Statement {
	return Statement{
		Text:       n.Title,
		SourceName: n.Source,
		SourceURL:  n.Link,
	}
}

// Statements converts a slice of feed items, preserving order.
func Statements(items []NewsItem) []Statement {
	out := make([]Statement, 0, len(items))
	for _, item := range items {
		out = append(out, item.Statement())
	}
	return out
}
