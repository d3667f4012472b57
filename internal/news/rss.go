package news

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const yahooHeadlineURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

// RSSClient reads a per-symbol headline feed. It needs no API key.
type RSSClient struct {
	name    string
	baseURL string
	parser  *gofeed.Parser
}

// NewYahooRSSClient creates a client for the Yahoo Finance headline feed.
func NewYahooRSSClient() *RSSClient {
	return NewRSSClient("YahooFinance", yahooHeadlineURL)
}

// NewRSSClient creates a feed client; the symbol is passed as the "s" query parameter.
func NewRSSClient(name, baseURL string) *RSSClient {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}
	parser.UserAgent = "Stocrates/1.0 (educational stock app)"
	return &RSSClient{name: name, baseURL: baseURL, parser: parser}
}

// Name returns the provider name.
func (c *RSSClient) Name() string {
	return c.name
}

// IsConfigured always returns true; feeds are keyless.
func (c *RSSClient) IsConfigured() bool {
	return true
}

// Fetch parses the feed for the symbol and keeps entries within the lookback window.
func (c *RSSClient) Fetch(ctx context.Context, q Query) ([]Article, error) {
	params := url.Values{
		"s":      {strings.ToUpper(q.Symbol)},
		"region": {"US"},
		"lang":   {"en-US"},
	}

	feed, err := c.parser.ParseURLWithContext(c.baseURL+"?"+params.Encode(), ctx)
	if err != nil {
		var herr gofeed.HTTPError
		if errors.As(err, &herr) {
			return nil, &HTTPError{Provider: c.name, Code: herr.StatusCode}
		}
		return nil, fmt.Errorf("%s feed: %w", strings.ToLower(c.name), err)
	}

	from, _ := q.window(time.Now())
	limit := q.limit(20)

	var articles []Article
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		a := parseItem(item, c.name)
		if a == nil {
			continue
		}
		if a.PublishedAt.IsZero() || !a.PublishedAt.Before(from) {
			articles = append(articles, *a)
		}
	}

	log.Printf("Parsed %d entries from %s for %s", len(articles), c.name, q.Symbol)
	return articles, nil
}

func parseItem(item *gofeed.Item, source string) *Article {
	itemURL := item.Link
	if itemURL == "" {
		itemURL = item.GUID
	}
	if itemURL == "" {
		return nil
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	var snippet string
	if item.Description != "" {
		snippet = stripHTML(item.Description)
	} else if item.Content != "" {
		snippet = stripHTML(item.Content)
	}

	return &Article{
		Title:       title,
		Source:      source,
		URL:         itemURL,
		PublishedAt: published,
		Snippet:     snippet,
	}
}

func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	return strings.Join(strings.Fields(s), " ")
}
