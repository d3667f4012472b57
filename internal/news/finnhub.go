package news

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnhubClient fetches company news through the Finnhub SDK.
type FinnhubClient struct {
	apiKey string
	api    *finnhub.DefaultApiService
}

// NewFinnhubClient creates a Finnhub client reading its key from apiKeyEnv.
func NewFinnhubClient(apiKeyEnv string) *FinnhubClient {
	return newFinnhubClient(os.Getenv(apiKeyEnv), "")
}

func newFinnhubClient(apiKey, serverURL string) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	if serverURL != "" {
		cfg.Servers = finnhub.ServerConfigurations{{URL: serverURL}}
	}
	return &FinnhubClient{
		apiKey: apiKey,
		api:    finnhub.NewAPIClient(cfg).DefaultApi,
	}
}

// Name returns the provider name.
func (c *FinnhubClient) Name() string {
	return "Finnhub"
}

// IsConfigured returns whether the API key is available.
func (c *FinnhubClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Fetch returns company news for the symbol within the lookback window.
func (c *FinnhubClient) Fetch(ctx context.Context, q Query) ([]Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub: api key not configured")
	}

	from, to := q.window(time.Now())
	res, resp, err := c.api.CompanyNews(ctx).
		Symbol(strings.ToUpper(q.Symbol)).
		From(from.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if resp != nil && resp.StatusCode >= 400 {
		return nil, &HTTPError{Provider: c.Name(), Code: resp.StatusCode}
	}
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}

	limit := q.limit(20)
	articles := make([]Article, 0, len(res))
	for _, item := range res {
		if len(articles) >= limit {
			break
		}

		a := Article{Source: c.Name()}
		if item.Headline != nil {
			a.Title = strings.TrimSpace(*item.Headline)
		}
		if item.Url != nil {
			a.URL = *item.Url
		}
		if a.Title == "" || a.URL == "" {
			continue
		}
		if item.Summary != nil {
			a.Snippet = strings.TrimSpace(*item.Summary)
		}
		if item.Source != nil && *item.Source != "" {
			a.Source = *item.Source
		}
		if item.Datetime != nil {
			a.PublishedAt = time.Unix(*item.Datetime, 0).UTC()
		}
		articles = append(articles, a)
	}

	log.Printf("Fetched %d articles from Finnhub for %s", len(articles), q.Symbol)
	return articles, nil
}
