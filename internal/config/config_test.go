package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if diff := cmp.Diff([]string{"newsapi", "finnhub", "yahoo"}, cfg.Providers.Order); diff != "" {
		t.Errorf("unexpected provider order (-want +got):\n%s", diff)
	}
	if cfg.Fallback.Cooldown != time.Hour {
		t.Errorf("expected 1h cooldown, got %v", cfg.Fallback.Cooldown)
	}
	if cfg.Providers.NewsAPI.APIKeyEnv != "NEWSAPI_KEY" {
		t.Errorf("expected NEWSAPI_KEY, got %q", cfg.Providers.NewsAPI.APIKeyEnv)
	}
	if cfg.Social.Weight != 0.25 || cfg.Sentiment.NewsWeight != 0.75 {
		t.Errorf("expected 0.75/0.25 weights, got %v/%v", cfg.Sentiment.NewsWeight, cfg.Social.Weight)
	}
	if cfg.Enrich.Timeout != 15*time.Second {
		t.Errorf("expected 15s enrich timeout, got %v", cfg.Enrich.Timeout)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
providers:
  order: [finnhub, newsapi]
fallback:
  cooldown: 30m
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Providers.Order[0] != "finnhub" {
		t.Errorf("expected finnhub first, got %q", cfg.Providers.Order[0])
	}
	if cfg.Fallback.Cooldown != 30*time.Minute {
		t.Errorf("expected 30m cooldown, got %v", cfg.Fallback.Cooldown)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Providers.Finnhub.APIKeyEnv != "FINNHUB_API_KEY" {
		t.Errorf("expected default finnhub key env, got %q", cfg.Providers.Finnhub.APIKeyEnv)
	}
	if cfg.LLM.OllamaURL != "http://localhost:11434" {
		t.Errorf("expected default ollama_url, got %q", cfg.LLM.OllamaURL)
	}
}

func TestParseUnknownProvider(t *testing.T) {
	_, err := parse([]byte("providers:\n  order: [newsapi, bloomberg]\n"))
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestParseNegativeWeight(t *testing.T) {
	_, err := parse([]byte("social:\n  weight: -1\n"))
	if err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Social.Subreddits) == 0 {
		t.Error("expected subreddits to be populated from file")
	}
}

func TestResolveExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if _, ok := cfg.Provider("yahoo"); !ok {
		t.Error("expected yahoo provider settings")
	}
	if _, ok := cfg.Provider("bloomberg"); ok {
		t.Error("expected unknown provider lookup to fail")
	}
}
