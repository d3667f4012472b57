package news

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrRateLimited, true},
		{"wrapped sentinel", fmt.Errorf("newsapi: %w", ErrRateLimited), true},
		{"http 429", &HTTPError{Provider: "X", Code: 429}, true},
		{"wrapped http 429", fmt.Errorf("fetch: %w", &HTTPError{Provider: "X", Code: 429}), true},
		{"http 503", &HTTPError{Provider: "X", Code: 503}, false},
		{"message marker", errors.New("RATE_LIMIT: quota exhausted"), true},
		{"message phrase", errors.New("API rate limit reached"), true},
		{"too many requests", errors.New("429 Too Many Requests"), true},
		{"transport", errors.New("dial tcp: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimit(tt.err); got != tt.want {
				t.Errorf("IsRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSearchTerms(t *testing.T) {
	tests := []struct {
		q    Query
		want string
	}{
		{Query{Symbol: "AAPL"}, `"AAPL"`},
		{Query{Symbol: "AAPL", Name: "Apple"}, `"AAPL" OR "Apple"`},
		{Query{Symbol: "AAPL", Name: "aapl"}, `"AAPL"`},
	}
	for _, tt := range tests {
		if got := tt.q.SearchTerms(); got != tt.want {
			t.Errorf("SearchTerms(%+v) = %q, want %q", tt.q, got, tt.want)
		}
	}
}

func TestTimeFilter(t *testing.T) {
	tests := map[int]string{0: "week", 1: "day", 5: "week", 30: "month", 90: "year"}
	for days, want := range tests {
		if got := timeFilter(days); got != want {
			t.Errorf("timeFilter(%d) = %q, want %q", days, got, want)
		}
	}
}
