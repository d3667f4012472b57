package main

import (
	"log"
	"time"

	"github.com/TobiSchelling/stocrates/internal/aggregate"
	"github.com/TobiSchelling/stocrates/internal/fallback"
	"github.com/TobiSchelling/stocrates/internal/fetch"
	"github.com/TobiSchelling/stocrates/internal/llm"
	"github.com/TobiSchelling/stocrates/internal/news"
)

// newProviders builds the enabled news providers in fallback order.
func newProviders() ([]news.Provider, map[string]time.Duration) {
	var providers []news.Provider
	intervals := make(map[string]time.Duration)

	for _, key := range cfg.Providers.Order {
		pc, _ := cfg.Provider(key)
		if !pc.Enabled {
			continue
		}

		var p news.Provider
		switch key {
		case "newsapi":
			p = news.NewNewsAPIClient(pc.APIKeyEnv)
		case "finnhub":
			p = news.NewFinnhubClient(pc.APIKeyEnv)
		case "yahoo":
			p = news.NewYahooRSSClient()
		default:
			continue
		}
		providers = append(providers, p)
		if pc.MinInterval > 0 {
			intervals[p.Name()] = pc.MinInterval
		}
	}
	return providers, intervals
}

func newManager() *fallback.Manager {
	providers, intervals := newProviders()
	return fallback.NewManager(providers, fallback.Config{
		Cooldown:  cfg.Fallback.Cooldown,
		Intervals: intervals,
	})
}

// newAggregator wires the aggregator to m. The LLM is only probed when
// commentary is wanted, since probing Ollama costs a request.
func newAggregator(m *fallback.Manager, withLLM bool) *aggregate.Aggregator {
	opts := aggregate.Options{
		NewsWeight:   cfg.Sentiment.NewsWeight,
		SocialWeight: cfg.Social.Weight,
		DaysBack:     cfg.Fallback.DaysBack,
		MaxArticles:  cfg.Fallback.MaxArticles,
		MaxTokens:    cfg.LLM.MaxTokens,
	}
	if cfg.Social.Enabled && len(cfg.Social.Subreddits) > 0 {
		opts.Social = news.NewRedditClient(cfg.Social.Subreddits, cfg.Social.MinInterval)
	}
	if cfg.Enrich.Enabled {
		opts.Enricher = fetch.NewEnricher(cfg.Enrich.Timeout, cfg.Enrich.MaxArticles)
	}
	if withLLM {
		if p := llm.CreateProvider(llm.Settings{
			Provider:    cfg.LLM.Provider,
			Model:       cfg.LLM.Model,
			OllamaURL:   cfg.LLM.OllamaURL,
			OpenAIModel: cfg.LLM.OpenAIModel,
			APIKeyEnv:   cfg.LLM.APIKeyEnv,
		}); p != nil {
			opts.LLM = p
		} else {
			log.Println("Commentary requested but no LLM is available")
		}
	}
	return aggregate.New(m, opts)
}
