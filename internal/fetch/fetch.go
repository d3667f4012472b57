package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/TobiSchelling/stocrates/internal/news"
)

// SnippetLength is the maximum length in runes of an extracted snippet.
const SnippetLength = 300

// maxPageBytes caps how much of a page is read for extraction.
const maxPageBytes = 2 << 20

// Result holds the results of one enrichment pass.
type Result struct {
	Enriched int
	Skipped  int
	Failed   int
}

// Enricher fills empty article snippets with readable text from the article page.
type Enricher struct {
	client      *http.Client
	maxArticles int
}

// NewEnricher creates an enricher that fetches at most maxArticles pages per pass.
func NewEnricher(timeout time.Duration, maxArticles int) *Enricher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if maxArticles <= 0 {
		maxArticles = 5
	}
	return &Enricher{
		maxArticles: maxArticles,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Enrich updates articles in place. A domain that answers with an HTTP error
// is not contacted again during the same pass.
func (e *Enricher) Enrich(ctx context.Context, articles []news.Article) *Result {
	result := &Result{}
	failedDomains := make(map[string]struct{})
	attempts := 0

	for i := range articles {
		a := &articles[i]
		if a.Snippet != "" || a.URL == "" {
			continue
		}
		if attempts >= e.maxArticles || ctx.Err() != nil {
			result.Skipped++
			continue
		}

		u, err := url.Parse(a.URL)
		if err != nil || u.Host == "" {
			result.Failed++
			continue
		}
		domain := strings.ToLower(u.Host)

		if _, failed := failedDomains[domain]; failed {
			result.Skipped++
			continue
		}

		attempts++
		text, err := e.extract(ctx, u)
		if err != nil {
			result.Failed++
			failedDomains[domain] = struct{}{}
			log.Printf("HTTP error for %s, skipping remaining from %s", a.URL, domain)
			continue
		}
		if text == "" {
			result.Failed++
			log.Printf("No extractable content from: %s", a.URL)
			continue
		}

		a.Snippet = text
		result.Enriched++
	}

	if result.Enriched > 0 || result.Failed > 0 {
		log.Printf("Snippet enrichment complete: %d enriched, %d failed, %d skipped", result.Enriched, result.Failed, result.Skipped)
	}
	return result
}

// extract returns an HTTP status error only; connection and parse failures
// yield an empty snippet so the domain is not blacklisted for them.
func (e *Enricher) extract(ctx context.Context, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", nil
	}
	req.Header.Set("User-Agent", "Stocrates/1.0 (educational stock app)")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &httpError{code: resp.StatusCode}
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxPageBytes), u)
	if err != nil {
		return "", nil
	}

	return Truncate(strings.Join(strings.Fields(article.TextContent), " "), SnippetLength), nil
}

// Truncate shortens s to at most n runes, cutting at a word boundary and
// appending an ellipsis when anything was dropped.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := r[:n]
	if r[n] != ' ' {
		for i := n - 1; i > n/2; i-- {
			if cut[i] == ' ' {
				cut = cut[:i]
				break
			}
		}
	}
	return strings.TrimRight(string(cut), " ,.;:") + "…"
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%d %s", e.code, http.StatusText(e.code))
}
