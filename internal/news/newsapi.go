package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIClient fetches articles from NewsAPI.
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNewsAPIClient creates a new NewsAPI client reading its key from apiKeyEnv.
func NewNewsAPIClient(apiKeyEnv string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:  os.Getenv(apiKeyEnv),
		baseURL: newsAPIBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the provider name.
func (c *NewsAPIClient) Name() string {
	return "NewsAPI"
}

// IsConfigured returns whether the API key is available.
func (c *NewsAPIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Fetch searches NewsAPI for articles mentioning the symbol or company name.
func (c *NewsAPIClient) Fetch(ctx context.Context, q Query) ([]Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi: api key not configured")
	}

	from, to := q.window(time.Now())
	pageSize := q.limit(20)
	if pageSize > 100 {
		pageSize = 100
	}

	params := url.Values{
		"q":        {q.SearchTerms()},
		"from":     {from.Format("2006-01-02")},
		"to":       {to.Format("2006-01-02")},
		"language": {"en"},
		"pageSize": {fmt.Sprintf("%d", pageSize)},
		"sortBy":   {"publishedAt"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Status   string `json:"status"`
		Code     string `json:"code"`
		Message  string `json:"message"`
		Articles []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			Content     string `json:"content"`
			Description string `json:"description"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}

	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	// Both codes mean the key's quota is spent until NewsAPI resets it.
	if result.Code == "rateLimited" || result.Code == "apiKeyExhausted" {
		return nil, fmt.Errorf("newsapi: %s: %w", result.Message, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Provider: c.Name(), Code: resp.StatusCode}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("newsapi decode: %w", decodeErr)
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %s: %s", result.Status, result.Message)
	}

	var articles []Article
	for _, a := range result.Articles {
		if a.URL == "" || a.Title == "" {
			continue
		}
		if a.Title == "[Removed]" || a.URL == "https://removed.com" {
			continue
		}

		var published time.Time
		if a.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
				published = t
			}
		}

		snippet := a.Description
		if snippet == "" {
			snippet = a.Content
		}

		source := "NewsAPI"
		if a.Source.Name != "" {
			source = a.Source.Name
		}

		articles = append(articles, Article{
			Title:       strings.TrimSpace(a.Title),
			Source:      source,
			URL:         a.URL,
			PublishedAt: published,
			Snippet:     strings.TrimSpace(snippet),
		})
	}

	log.Printf("Fetched %d articles from NewsAPI for query: %s", len(articles), q.SearchTerms())
	return articles, nil
}
