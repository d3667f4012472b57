package aggregate

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/stocrates/internal/fallback"
	"github.com/TobiSchelling/stocrates/internal/fetch"
	"github.com/TobiSchelling/stocrates/internal/llm"
	"github.com/TobiSchelling/stocrates/internal/news"
	"github.com/TobiSchelling/stocrates/internal/sentiment"
)

// Default signal weights.
const (
	DefaultNewsWeight   = 0.75
	DefaultSocialWeight = 0.25
)

// LabelThreshold is the combined score beyond which a report is labelled
// positive or negative.
const LabelThreshold = 0.1

// Source kinds used in attribution.
const (
	KindNews   = "news"
	KindSocial = "social"
	KindStatic = "static"
)

// NewsSource returns articles for a query. *fallback.Manager implements it.
type NewsSource interface {
	Fetch(ctx context.Context, q news.Query) *fallback.Result
}

// Enricher fills in missing article snippets. *fetch.Enricher implements it.
type Enricher interface {
	Enrich(ctx context.Context, articles []news.Article) *fetch.Result
}

// Options wires the optional collaborators and weights. Zero weights select
// the defaults.
type Options struct {
	Social       news.SocialSource
	Enricher     Enricher
	LLM          llm.Provider
	MaxTokens    int
	NewsWeight   float64
	SocialWeight float64
	DaysBack     int
	MaxArticles  int
	Now          func() time.Time
}

// Request asks for a report on one symbol.
type Request struct {
	Symbol   string
	Name     string
	DaysBack int
	Social   bool
	Explain  bool
}

// Source attributes part of a report to where it came from.
type Source struct {
	Name   string          `json:"name"`
	Kind   string          `json:"kind"`
	Items  int             `json:"items"`
	Label  sentiment.Label `json:"label"`
	Score  float64         `json:"score"`
	Weight float64         `json:"weight"`
}

// Report is the combined sentiment summary for one symbol.
type Report struct {
	Symbol       string             `json:"symbol"`
	Name         string             `json:"name,omitempty"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Label        sentiment.Label    `json:"label"`
	Score        float64            `json:"score"`
	News         sentiment.Report   `json:"news"`
	Social       *sentiment.Report  `json:"social,omitempty"`
	Articles     []news.Article     `json:"articles"`
	Posts        []news.Post        `json:"posts,omitempty"`
	Sources      []Source           `json:"sources"`
	Provider     string             `json:"provider,omitempty"`
	Secondary    bool               `json:"secondary"`
	FallbackUsed bool               `json:"fallback_used"`
	Fallback     bool               `json:"fallback"`
	Attempts     []fallback.Attempt `json:"attempts,omitempty"`
	Commentary   string             `json:"commentary,omitempty"`
}

// SourceNames lists the names of the sources that contributed.
func (r *Report) SourceNames() []string {
	names := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		names = append(names, s.Name)
	}
	return names
}

// Aggregator merges news and social sentiment into one Report.
type Aggregator struct {
	news         NewsSource
	social       news.SocialSource
	enricher     Enricher
	llm          llm.Provider
	maxTokens    int
	newsWeight   float64
	socialWeight float64
	daysBack     int
	maxArticles  int
	now          func() time.Time
}

// New creates an aggregator over a news source.
func New(src NewsSource, opts Options) *Aggregator {
	a := &Aggregator{
		news:         src,
		social:       opts.Social,
		enricher:     opts.Enricher,
		llm:          opts.LLM,
		maxTokens:    opts.MaxTokens,
		newsWeight:   opts.NewsWeight,
		socialWeight: opts.SocialWeight,
		daysBack:     opts.DaysBack,
		maxArticles:  opts.MaxArticles,
		now:          opts.Now,
	}
	if a.newsWeight <= 0 && a.socialWeight <= 0 {
		a.newsWeight, a.socialWeight = DefaultNewsWeight, DefaultSocialWeight
	}
	if a.maxTokens <= 0 {
		a.maxTokens = 400
	}
	if a.daysBack <= 0 {
		a.daysBack = 7
	}
	if a.maxArticles <= 0 {
		a.maxArticles = 20
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Analyze builds a report for req. It never fails: when no live source has
// articles the report carries the static example set and Fallback is set.
func (a *Aggregator) Analyze(ctx context.Context, req Request) *Report {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	q := news.Query{
		Symbol:   symbol,
		Name:     req.Name,
		DaysBack: req.DaysBack,
		Limit:    a.maxArticles,
	}
	if q.DaysBack <= 0 {
		q.DaysBack = a.daysBack
	}

	r := &Report{Symbol: symbol, Name: req.Name, GeneratedAt: a.now()}

	// News and social sources are independent; neither failure is fatal.
	var (
		res   *fallback.Result
		posts []news.Post
	)
	wantSocial := req.Social && a.social != nil
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res = a.news.Fetch(gctx, q)
		return nil
	})
	if wantSocial {
		g.Go(func() error {
			var err error
			posts, err = a.social.Posts(gctx, q)
			if err != nil {
				log.Printf("Social source %s failed for %s: %v", a.social.Name(), symbol, err)
			}
			return nil
		})
	}
	g.Wait()

	r.Provider = res.Provider
	r.Secondary = res.Secondary
	r.FallbackUsed = res.FallbackUsed
	r.Attempts = res.Attempts

	articles := res.Articles
	if len(articles) > a.maxArticles {
		articles = articles[:a.maxArticles]
	}
	if len(articles) == 0 {
		log.Printf("No live articles for %s, serving static examples", symbol)
		articles = StaticArticles(symbol, req.Name, r.GeneratedAt)
		r.Fallback = true
	} else if a.enricher != nil {
		a.enricher.Enrich(ctx, articles)
	}

	r.Articles, r.News = classifyArticles(articles)
	newsSource := Source{
		Name:  res.Provider,
		Kind:  KindNews,
		Items: len(r.Articles),
		Label: r.News.Label,
		Score: r.News.Score(),
	}
	if r.Fallback {
		newsSource.Name = KindStatic
		newsSource.Kind = KindStatic
	}

	var socialSource *Source
	if wantSocial && len(posts) > 0 {
		var rep sentiment.Report
		r.Posts, rep = classifyPosts(posts)
		r.Social = &rep
		socialSource = &Source{
			Name:  a.social.Name(),
			Kind:  KindSocial,
			Items: len(r.Posts),
			Label: rep.Label,
			Score: rep.Score(),
		}
	}

	// Static examples illustrate the UI; they never move the score.
	wNews, wSocial := a.newsWeight, a.socialWeight
	if r.Fallback || r.News.Total == 0 {
		wNews = 0
	}
	if socialSource == nil {
		wSocial = 0
	}
	if total := wNews + wSocial; total > 0 {
		wNews, wSocial = wNews/total, wSocial/total
	}

	newsSource.Weight = wNews
	r.Sources = append(r.Sources, newsSource)
	r.Score = wNews * newsSource.Score
	if socialSource != nil {
		socialSource.Weight = wSocial
		r.Sources = append(r.Sources, *socialSource)
		r.Score += wSocial * socialSource.Score
	}
	r.Label = LabelFor(r.Score)

	if req.Explain {
		commentary, err := a.Explain(ctx, r)
		if err != nil {
			log.Printf("Commentary failed for %s: %v", symbol, err)
		}
		r.Commentary = commentary
	}

	log.Printf("Report for %s: %s (%.2f) from %s", symbol, r.Label, r.Score, strings.Join(r.SourceNames(), ", "))
	return r
}

// LabelFor maps a combined score in [-1, 1] to a news label.
func LabelFor(score float64) sentiment.Label {
	switch {
	case score > LabelThreshold:
		return sentiment.Positive
	case score < -LabelThreshold:
		return sentiment.Negative
	}
	return sentiment.Neutral
}

func classifyArticles(in []news.Article) ([]news.Article, sentiment.Report) {
	out := make([]news.Article, len(in))
	labels := make([]sentiment.Label, len(in))
	for i, a := range in {
		a.Sentiment = sentiment.ClassifyNews(a.Title + " " + a.Snippet).Label
		out[i] = a
		labels[i] = a.Sentiment
	}
	return out, sentiment.News.Tally(labels)
}

func classifyPosts(in []news.Post) ([]news.Post, sentiment.Report) {
	out := make([]news.Post, len(in))
	labels := make([]sentiment.Label, len(in))
	for i, p := range in {
		p.Sentiment = sentiment.ClassifySocial(p.Title + " " + p.Text).Label
		out[i] = p
		labels[i] = p.Sentiment
	}
	return out, sentiment.Social.Tally(labels)
}
