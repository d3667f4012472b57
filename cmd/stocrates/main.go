package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TobiSchelling/stocrates/internal/config"
	"github.com/TobiSchelling/stocrates/internal/database"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "stocrates",
	Short:   "Stock news sentiment for learners",
	Long:    "Stocrates fetches news and social posts for a stock, scores their sentiment, and explains the result in plain language.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		// API keys may live in a .env file next to the working directory.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Could not read .env: %v", err)
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			if configPath != "" {
				return err
			}
			log.Printf("No config file found, using built-in defaults")
			cfg = config.Default()
			return nil
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("stocrates", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/stocrates/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Set NEWSAPI_KEY, FINNHUB_API_KEY and OPENAI_API_KEY in your environment or a .env file.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Println("Prices:")
		fmt.Printf("  Symbols: %d\n", stats.PricedSymbols)
		fmt.Printf("  Daily closes: %d\n", stats.PriceRows)
		fmt.Println("\nWatchlist:")
		fmt.Printf("  Total: %d\n", stats.WatchedSymbols)
		fmt.Printf("  Active: %d\n", stats.ActiveSymbols)
		fmt.Println("\nReports:")
		fmt.Printf("  Generated: %d\n", stats.Reports)
		fmt.Printf("  From examples: %d\n", stats.FallbackReports)

		fmt.Println("\nNews providers:")
		for _, st := range newManager().Statuses() {
			state := "configured"
			if !st.Configured {
				state = st.LastError
			}
			fmt.Printf("  %-14s %s\n", st.Name, state)
		}
		return nil
	},
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "stocrates.db")
	return database.Open(dbPath)
}
