package aggregate

import (
	"context"
	"fmt"
	"strings"

	"github.com/TobiSchelling/stocrates/internal/llm"
	"github.com/TobiSchelling/stocrates/internal/sentiment"
)

const explainSystem = `You are a patient teacher explaining stock-market news to beginners.
Use plain language and short sentences. Describe what the headlines suggest about
market mood and why prices can react to such news. Never tell the reader to buy or
sell anything and never predict a price.

Reply with JSON only, in this shape:
{"summary": "two or three sentences", "takeaways": ["short lesson", "short lesson"]}`

const maxPromptHeadlines = 10

type commentary struct {
	Summary   string   `json:"summary"`
	Takeaways []string `json:"takeaways"`
}

// Explain asks the LLM for a beginner-friendly reading of the report and
// returns it as markdown. Without an LLM it returns an empty string.
func (a *Aggregator) Explain(ctx context.Context, r *Report) (string, error) {
	if a.llm == nil {
		return "", nil
	}

	text, err := a.llm.Generate(ctx, explainSystem, explainPrompt(r), a.maxTokens)
	if err != nil {
		return "", fmt.Errorf("generating commentary: %w", err)
	}

	var c commentary
	if err := llm.ParseJSONResponse(text, &c); err != nil {
		return "", err
	}
	return renderCommentary(c), nil
}

func explainPrompt(r *Report) string {
	var b strings.Builder
	subject := r.Symbol
	if r.Name != "" {
		subject = fmt.Sprintf("%s (%s)", r.Name, r.Symbol)
	}
	fmt.Fprintf(&b, "Stock: %s\n", subject)
	fmt.Fprintf(&b, "Overall mood: %s (score %.2f on a scale from -1 to 1)\n", r.Label, r.Score)
	if r.Fallback {
		b.WriteString("Note: no live news was available; the headlines below are examples.\n")
	}

	b.WriteString("\nHeadlines:\n")
	for i, art := range r.Articles {
		if i == maxPromptHeadlines {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s", art.Sentiment, art.Title)
		if art.Source != "" {
			fmt.Fprintf(&b, " (%s)", art.Source)
		}
		b.WriteString("\n")
	}

	if r.Social != nil {
		fmt.Fprintf(&b, "\nSocial media: %d posts, %d bullish, %d bearish, %d neutral.\n",
			r.Social.Total,
			r.Social.Counts[sentiment.Bullish], r.Social.Counts[sentiment.Bearish], r.Social.Counts[sentiment.Neutral])
	}
	return b.String()
}

func renderCommentary(c commentary) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(c.Summary))
	if len(c.Takeaways) > 0 {
		b.WriteString("\n\n**Takeaways**\n\n")
		for _, t := range c.Takeaways {
			if t = strings.TrimSpace(t); t != "" {
				fmt.Fprintf(&b, "- %s\n", t)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
