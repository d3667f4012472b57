package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/TobiSchelling/stocrates/internal/sentiment"
)

const redditBaseURL = "https://www.reddit.com"

// Post is a social-forum post mentioning a symbol.
type Post struct {
	Title     string          `json:"title"`
	Text      string          `json:"text,omitempty"`
	Subreddit string          `json:"subreddit"`
	Author    string          `json:"author"`
	Score     int             `json:"score"`
	Comments  int             `json:"comments"`
	URL       string          `json:"url"`
	CreatedAt time.Time       `json:"created_at"`
	Sentiment sentiment.Label `json:"sentiment,omitempty"`
}

// SocialSource supplies forum posts for the social sentiment signal.
type SocialSource interface {
	Name() string
	Posts(ctx context.Context, q Query) ([]Post, error)
}

// RedditClient reads top posts from the public Reddit JSON endpoints.
type RedditClient struct {
	subreddits []string
	baseURL    string
	userAgent  string
	client     *http.Client
	limiter    *rate.Limiter
}

// NewRedditClient creates a Reddit client searching the given subreddits.
// Requests are spaced by minInterval; Reddit throttles unauthenticated clients hard.
func NewRedditClient(subreddits []string, minInterval time.Duration) *RedditClient {
	if minInterval <= 0 {
		minInterval = 2 * time.Second
	}
	return &RedditClient{
		subreddits: subreddits,
		baseURL:    redditBaseURL,
		userAgent:  "Stocrates/1.0 (educational stock app)",
		client:     &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Name returns the source name.
func (c *RedditClient) Name() string {
	return "Reddit"
}

// Posts searches each subreddit for the symbol. Per-subreddit failures are
// logged and skipped; a rate limit aborts the remaining subreddits.
func (c *RedditClient) Posts(ctx context.Context, q Query) ([]Post, error) {
	limit := q.limit(25)
	var all []Post
	var lastErr error

	for _, sub := range c.subreddits {
		if err := c.limiter.Wait(ctx); err != nil {
			return all, err
		}

		posts, err := c.search(ctx, sub, q, limit)
		if err != nil {
			lastErr = err
			log.Printf("Reddit r/%s error: %v", sub, err)
			if IsRateLimit(err) {
				break
			}
			continue
		}
		all = append(all, posts...)
	}

	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}
	log.Printf("Fetched %d posts from Reddit for %s", len(all), q.Symbol)
	return all, nil
}

func (c *RedditClient) search(ctx context.Context, subreddit string, q Query, limit int) ([]Post, error) {
	params := url.Values{
		"q":           {q.Symbol},
		"restrict_sr": {"1"},
		"sort":        {"top"},
		"t":           {timeFilter(q.DaysBack)},
		"limit":       {fmt.Sprintf("%d", limit)},
	}
	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", c.baseURL, url.PathEscape(subreddit), params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Provider: c.Name(), Code: resp.StatusCode}
	}

	var listing struct {
		Data struct {
			Children []struct {
				Data struct {
					Title       string  `json:"title"`
					Selftext    string  `json:"selftext"`
					Subreddit   string  `json:"subreddit"`
					Author      string  `json:"author"`
					Score       int     `json:"score"`
					NumComments int     `json:"num_comments"`
					Permalink   string  `json:"permalink"`
					CreatedUTC  float64 `json:"created_utc"`
					Stickied    bool    `json:"stickied"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("reddit decode: %w", err)
	}

	var posts []Post
	for _, child := range listing.Data.Children {
		d := child.Data
		if d.Stickied || strings.TrimSpace(d.Title) == "" {
			continue
		}
		posts = append(posts, Post{
			Title:     strings.TrimSpace(d.Title),
			Text:      strings.TrimSpace(d.Selftext),
			Subreddit: d.Subreddit,
			Author:    d.Author,
			Score:     d.Score,
			Comments:  d.NumComments,
			URL:       redditBaseURL + d.Permalink,
			CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}

func timeFilter(daysBack int) string {
	switch {
	case daysBack <= 0:
		return "week"
	case daysBack == 1:
		return "day"
	case daysBack <= 7:
		return "week"
	case daysBack <= 31:
		return "month"
	}
	return "year"
}
