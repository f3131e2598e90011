package collect

import (
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ukaji/marketbrief/internal/model"
)

// untitledPlaceholder replaces missing feed item titles
const untitledPlaceholder = "(タイトルなし)"

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// ParseFeed parses an RSS payload into news items. At most limit items are
// taken, in feed order. Titles are stripped of embedded HTML markup; a
// missing title becomes a placeholder, a missing link stays empty (the
// resulting statement is then unknown-source).
func ParseFeed(payload []byte, sourceLabel string, limit int) ([]model.NewsItem, error) {
	var doc rssDocument
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("parse RSS: %w", err)
	}

	items := doc.Channel.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]model.NewsItem, 0, len(items))
	for _, item := range items {
		title := stripMarkup(item.Title)
		if title == "" {
			title = untitledPlaceholder
		}

		out = append(out, model.NewsItem{
			Source:    sourceLabel,
			Title:     title,
			Link:      strings.TrimSpace(item.Link),
			Published: strings.TrimSpace(item.PubDate),
		})
	}

	return out, nil
}

// stripMarkup removes any HTML tags embedded in a feed field and collapses
// the remaining whitespace. Feed titles frequently carry <b> wrappers and
// entities; the HTML parser also decodes the entities.
func stripMarkup(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
