package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/stocrates/internal/aggregate"
)

// --- news command ---

var (
	newsName    string
	newsDays    int
	newsSocial  bool
	newsExplain bool
	newsJSON    bool
	newsSave    bool
)

var newsCmd = &cobra.Command{
	Use:   "news SYMBOL",
	Short: "Fetch news for a symbol and score its sentiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		agg := newAggregator(newManager(), newsExplain)
		report := agg.Analyze(ctx, aggregate.Request{
			Symbol:   args[0],
			Name:     newsName,
			DaysBack: newsDays,
			Social:   newsSocial,
			Explain:  newsExplain,
		})

		if newsSave {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			id, err := aggregate.Archive(db, report)
			if err != nil {
				return fmt.Errorf("saving report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Saved report %d\n", id)
		}

		if newsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(report)
		return nil
	},
}

func init() {
	newsCmd.Flags().StringVar(&newsName, "name", "", "Company name to search for alongside the symbol")
	newsCmd.Flags().IntVar(&newsDays, "days", 0, "Lookback window in days (default from config)")
	newsCmd.Flags().BoolVar(&newsSocial, "social", false, "Include Reddit sentiment")
	newsCmd.Flags().BoolVar(&newsExplain, "explain", false, "Ask the LLM for a plain-language explanation")
	newsCmd.Flags().BoolVar(&newsJSON, "json", false, "Print the report as JSON")
	newsCmd.Flags().BoolVar(&newsSave, "save", false, "Archive the report in the database")
}

func printReport(r *aggregate.Report) {
	title := r.Symbol
	if r.Name != "" {
		title = fmt.Sprintf("%s (%s)", r.Symbol, r.Name)
	}
	fmt.Printf("%s: %s (%+.2f)\n", title, strings.ToUpper(string(r.Label)), r.Score)

	if r.Fallback {
		fmt.Println("No live news available; showing example headlines.")
	} else if r.Secondary {
		fmt.Printf("Primary provider unavailable; served by %s.\n", r.Provider)
	}

	fmt.Println("\nSources:")
	for _, s := range r.Sources {
		fmt.Printf("  %-14s %-7s %3d items  %-8s weight %.0f%%\n", s.Name, s.Kind, s.Items, s.Label, s.Weight*100)
	}

	fmt.Println("\nHeadlines:")
	for _, a := range r.Articles {
		fmt.Printf("  [%-8s] %s\n", a.Sentiment, a.Title)
		meta := a.Source
		if !a.PublishedAt.IsZero() {
			meta += " · " + a.PublishedAt.Local().Format("Jan 2 15:04")
		}
		if meta != "" {
			fmt.Printf("             %s\n", meta)
		}
	}

	if len(r.Posts) > 0 {
		fmt.Println("\nSocial:")
		for _, p := range r.Posts {
			fmt.Printf("  [%-8s] r/%s: %s\n", p.Sentiment, p.Subreddit, p.Title)
		}
	}

	if r.Commentary != "" {
		fmt.Printf("\n%s\n", r.Commentary)
	}
}

// --- providers command ---

var providersProbe string

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show news provider configuration and availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newManager()

		if providersProbe != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			res := newAggregator(m, false).Analyze(ctx, aggregate.Request{Symbol: providersProbe})
			fmt.Printf("Probe for %s:\n", strings.ToUpper(providersProbe))
			for _, a := range res.Attempts {
				line := fmt.Sprintf("  %-14s %-13s %d articles", a.Provider, a.Outcome, a.Articles)
				if a.Error != "" {
					line += "  " + a.Error
				}
				fmt.Println(line)
			}
			fmt.Println()
		}

		fmt.Println("Providers (fallback order):")
		for i, st := range m.Statuses() {
			state := "available"
			switch {
			case !st.Configured:
				state = "not configured"
			case !st.Available && st.RateLimitResetAt != nil:
				state = "rate limited until " + st.RateLimitResetAt.Local().Format("15:04")
			}
			fmt.Printf("  %d. %-14s %-30s %d requests\n", i+1, st.Name, state, st.RequestCount)
			if st.LastError != "" && st.Configured {
				fmt.Printf("     last error: %s\n", st.LastError)
			}
		}
		return nil
	},
}

func init() {
	providersCmd.Flags().StringVar(&providersProbe, "probe", "", "Fetch news for SYMBOL to test the fallback chain")
}

// --- scan command ---

var scanExplain bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Generate and archive reports for every active watchlist symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := db.GetActiveWatchlist()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Watchlist is empty. Add symbols with: stocrates watchlist add SYMBOL")
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// One manager for the whole scan so a rate limit hit on one symbol
		// skips that provider for the rest.
		agg := newAggregator(newManager(), scanExplain)
		for _, w := range items {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			name := ""
			if w.DisplayName != nil {
				name = *w.DisplayName
			}
			report := agg.Analyze(ctx, aggregate.Request{
				Symbol:  w.Symbol,
				Name:    name,
				Social:  cfg.Social.Enabled,
				Explain: scanExplain,
			})
			id, err := aggregate.Archive(db, report)
			if err != nil {
				return fmt.Errorf("saving report for %s: %w", w.Symbol, err)
			}
			src := strings.Join(report.SourceNames(), ", ")
			fmt.Printf("  [%d] %-6s %-8s %+.2f  %s\n", id, w.Symbol, report.Label, report.Score, src)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanExplain, "explain", false, "Add LLM commentary to each report")
}
