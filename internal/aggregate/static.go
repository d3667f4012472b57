package aggregate

import (
	"fmt"
	"time"

	"github.com/TobiSchelling/stocrates/internal/news"
)

// StaticSource is the Source value of the example articles.
const StaticSource = "Stocrates examples"

// StaticArticles returns a small fixed set of example articles so a report
// always has something to show. They are dated relative to now.
func StaticArticles(symbol, name string, now time.Time) []news.Article {
	subject := symbol
	if name != "" {
		subject = name
	}
	return []news.Article{
		{
			Title:       fmt.Sprintf("%s shares rise as investors weigh quarterly results", subject),
			Source:      StaticSource,
			PublishedAt: now.Add(-2 * time.Hour),
			Snippet:     "Example article: stock prices often move when a company reports earnings that differ from what analysts expected.",
		},
		{
			Title:       fmt.Sprintf("Analysts warn %s faces tougher competition", subject),
			Source:      StaticSource,
			PublishedAt: now.Add(-26 * time.Hour),
			Snippet:     "Example article: competition can squeeze margins, and analysts adjust their price targets when they expect slower sales.",
		},
		{
			Title:       fmt.Sprintf("What %s's latest numbers mean for long-term investors", symbol),
			Source:      StaticSource,
			PublishedAt: now.Add(-50 * time.Hour),
			Snippet:     "Example article: long-term investors look past daily headlines to revenue trends, debt levels and cash flow.",
		},
	}
}
