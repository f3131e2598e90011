// Package collect gathers market news items from RSS feeds and turns them
// into report statements.
package collect

import (
	"fmt"
	"net/url"
)

// FeedTarget identifies one RSS feed to collect
type FeedTarget struct {
	Label string // Human-readable source label, becomes the statement's source_name
	URL   string // Feed URL
}

// BuildGoogleNewsURL builds a Google News RSS search URL for the query,
// restricted to the last day and the Japanese edition.
func BuildGoogleNewsURL(query string) string {
	encoded := url.QueryEscape(query + " when:1d")
	return fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=ja&gl=JP&ceid=JP:ja", encoded)
}

// DefaultTargets returns the standard feed set for a query
func DefaultTargets(query string) []FeedTarget {
	return []FeedTarget{
		{Label: "Google News", URL: BuildGoogleNewsURL(query)},
		{Label: "Reuters Business", URL: "https://feeds.reuters.com/reuters/businessNews"},
	}
}

// FeedError wraps a per-feed failure. Collection continues past it; the
// message is surfaced in the briefing's error section.
type FeedError struct {
	Label string
	Err   error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("%s の取得に失敗しました: %v", e.Label, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}
