package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestNewsAPI(t *testing.T, handler http.HandlerFunc) *NewsAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &NewsAPIClient{apiKey: "test-key", baseURL: srv.URL, client: srv.Client()}
}

func TestNewsAPIFetch(t *testing.T) {
	var gotQuery, gotKey string
	client := newTestNewsAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.Header.Get("X-Api-Key")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"articles": []map[string]any{
				{
					"url":         "https://example.com/nvda",
					"title":       " NVDA surges on earnings beat ",
					"publishedAt": "2026-02-26T12:00:00Z",
					"description": "Chipmaker tops estimates.",
					"source":      map[string]any{"name": "Reuters"},
				},
				{"url": "https://removed.com", "title": "[Removed]"},
				{"url": "", "title": "No URL"},
			},
		})
	})

	articles, err := client.Fetch(context.Background(), Query{Symbol: "NVDA", Name: "NVIDIA", DaysBack: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("expected API key header, got %q", gotKey)
	}
	if gotQuery != `"NVDA" OR "NVIDIA"` {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	a := articles[0]
	if a.Title != "NVDA surges on earnings beat" {
		t.Errorf("expected trimmed title, got %q", a.Title)
	}
	if a.Source != "Reuters" {
		t.Errorf("expected source Reuters, got %q", a.Source)
	}
	if a.Snippet != "Chipmaker tops estimates." {
		t.Errorf("unexpected snippet %q", a.Snippet)
	}
	if a.PublishedAt.Year() != 2026 {
		t.Errorf("expected parsed publish date, got %v", a.PublishedAt)
	}
}

func TestNewsAPIRateLimited(t *testing.T) {
	tests := []struct {
		code    string
		status  int
		message string
	}{
		{"rateLimited", http.StatusTooManyRequests, "You have made too many requests recently."},
		{"apiKeyExhausted", http.StatusUnauthorized, "Your API key has no more requests available."},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			client := newTestNewsAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"status":  "error",
					"code":    tt.code,
					"message": tt.message,
				})
			})

			_, err := client.Fetch(context.Background(), Query{Symbol: "AAPL"})
			if !errors.Is(err, ErrRateLimited) {
				t.Fatalf("expected ErrRateLimited, got %v", err)
			}
		})
	}
}

func TestNewsAPIServerError(t *testing.T) {
	client := newTestNewsAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Fetch(context.Background(), Query{Symbol: "AAPL"})
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.Code != http.StatusInternalServerError {
		t.Fatalf("expected HTTPError 500, got %v", err)
	}
	if IsRateLimit(err) {
		t.Error("500 must not be classified as a rate limit")
	}
}

func TestNewsAPINotConfigured(t *testing.T) {
	client := NewNewsAPIClient("STOCRATES_TEST_UNSET_KEY")
	if client.IsConfigured() {
		t.Fatal("expected client without key to be unconfigured")
	}
	if _, err := client.Fetch(context.Background(), Query{Symbol: "AAPL"}); err == nil {
		t.Error("expected error when fetching without a key")
	}
}
