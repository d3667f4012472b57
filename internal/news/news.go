package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/TobiSchelling/stocrates/internal/sentiment"
)

// ErrRateLimited marks errors caused by an upstream rate limit.
var ErrRateLimited = errors.New("rate limited")

// Article is a news item returned by a provider.
type Article struct {
	Title       string          `json:"title"`
	Source      string          `json:"source"`
	URL         string          `json:"url"`
	PublishedAt time.Time       `json:"published_at"`
	Snippet     string          `json:"snippet"`
	Sentiment   sentiment.Label `json:"sentiment,omitempty"`
}

// Query describes what to fetch for a symbol.
type Query struct {
	Symbol   string
	Name     string // optional display name, e.g. "NVIDIA"
	DaysBack int
	Limit    int
}

// SearchTerms builds a keyword query matching either the symbol or the name.
func (q Query) SearchTerms() string {
	if q.Name == "" || strings.EqualFold(q.Name, q.Symbol) {
		return fmt.Sprintf("%q", q.Symbol)
	}
	return fmt.Sprintf("%q OR %q", q.Symbol, q.Name)
}

func (q Query) window(now time.Time) (from, to time.Time) {
	days := q.DaysBack
	if days <= 0 {
		days = 7
	}
	return now.AddDate(0, 0, -days), now
}

func (q Query) limit(def int) int {
	if q.Limit > 0 {
		return q.Limit
	}
	return def
}

// Provider is a source of news articles for a symbol.
type Provider interface {
	Name() string
	IsConfigured() bool
	Fetch(ctx context.Context, q Query) ([]Article, error)
}

// HTTPError is a non-2xx response from an upstream API.
type HTTPError struct {
	Provider string
	Code     int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.Code, http.StatusText(e.Code))
}

// Unwrap exposes ErrRateLimited for 429 responses.
func (e *HTTPError) Unwrap() error {
	if e.Code == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return nil
}

var rateLimitMarkers = []string{"rate_limit", "rate limit", "ratelimit", "too many requests"}

// IsRateLimit reports whether err should put a provider into cooldown.
// Errors from third-party callers are matched on their message as well.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
