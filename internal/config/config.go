package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Providers Providers `yaml:"providers"`
	Fallback  Fallback  `yaml:"fallback"`
	Social    Social    `yaml:"social"`
	Sentiment Sentiment `yaml:"sentiment"`
	LLM       LLM       `yaml:"llm"`
	Enrich    Enrich    `yaml:"enrich"`
	Output    Output    `yaml:"output"`
	Server    Server    `yaml:"server"`
}

// Providers lists news providers; Order is the fallback priority.
type Providers struct {
	Order   []string       `yaml:"order"`
	NewsAPI ProviderConfig `yaml:"newsapi"`
	Finnhub ProviderConfig `yaml:"finnhub"`
	Yahoo   ProviderConfig `yaml:"yahoo"`
}

type ProviderConfig struct {
	Enabled     bool          `yaml:"enabled"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	MinInterval time.Duration `yaml:"min_interval"`
}

type Fallback struct {
	Cooldown    time.Duration `yaml:"cooldown"`
	DaysBack    int           `yaml:"days_back"`
	MaxArticles int           `yaml:"max_articles"`
}

type Social struct {
	Enabled     bool          `yaml:"enabled"`
	Subreddits  []string      `yaml:"subreddits"`
	Weight      float64       `yaml:"weight"`
	MinInterval time.Duration `yaml:"min_interval"`
}

type Sentiment struct {
	NewsWeight float64 `yaml:"news_weight"`
}

type LLM struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	OllamaURL   string `yaml:"ollama_url"`
	OpenAIModel string `yaml:"openai_model"`
	APIKeyEnv   string `yaml:"api_key_env"`
	MaxTokens   int    `yaml:"max_tokens"`
}

type Enrich struct {
	Enabled     bool          `yaml:"enabled"`
	MaxArticles int           `yaml:"max_articles"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

// ConfigDir returns the XDG config directory for stocrates.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "stocrates")
}

// DataDir returns the XDG data directory for stocrates.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "stocrates")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/stocrates/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'stocrates init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Providers: Providers{
			Order:   []string{"newsapi", "finnhub", "yahoo"},
			NewsAPI: ProviderConfig{Enabled: true, APIKeyEnv: "NEWSAPI_KEY", MinInterval: time.Second},
			Finnhub: ProviderConfig{Enabled: true, APIKeyEnv: "FINNHUB_API_KEY", MinInterval: time.Second},
			Yahoo:   ProviderConfig{Enabled: true, MinInterval: 2 * time.Second},
		},
		Fallback: Fallback{
			Cooldown:    time.Hour,
			DaysBack:    7,
			MaxArticles: 20,
		},
		Social: Social{
			Enabled:     true,
			Subreddits:  []string{"stocks", "investing", "wallstreetbets"},
			Weight:      0.25,
			MinInterval: 2 * time.Second,
		},
		Sentiment: Sentiment{NewsWeight: 0.75},
		LLM: LLM{
			Provider:    "openai",
			Model:       "qwen2.5:7b",
			OllamaURL:   "http://localhost:11434",
			OpenAIModel: "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			MaxTokens:   400,
		},
		Enrich: Enrich{
			Enabled:     false,
			MaxArticles: 5,
			Timeout:     15 * time.Second,
		},
		Server: Server{Port: 8000},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, name := range c.Providers.Order {
		if _, ok := c.Provider(name); !ok {
			return fmt.Errorf("unknown provider %q in providers.order", name)
		}
	}
	if c.Social.Weight < 0 || c.Sentiment.NewsWeight < 0 {
		return fmt.Errorf("sentiment weights must not be negative")
	}
	return nil
}

// Provider returns the settings for a provider key from providers.order.
func (c *Config) Provider(name string) (ProviderConfig, bool) {
	switch name {
	case "newsapi":
		return c.Providers.NewsAPI, true
	case "finnhub":
		return c.Providers.Finnhub, true
	case "yahoo":
		return c.Providers.Yahoo, true
	}
	return ProviderConfig{}, false
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
