package llm

import (
	"context"
	"log"
	"strings"
)

// Provider is the interface for LLM providers.
type Provider interface {
	Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	IsConfigured() bool
}

// Settings selects and configures a provider.
type Settings struct {
	Provider    string // "ollama" or "openai"
	Model       string // Ollama model
	OllamaURL   string
	OpenAIModel string
	APIKeyEnv   string
}

// CreateProvider creates an LLM provider based on configuration. Ollama is
// preferred when requested and reachable; OpenAI is the fallback. Returns nil
// when neither is usable.
func CreateProvider(s Settings) Provider {
	if strings.ToLower(s.Provider) == "ollama" {
		p := NewOllamaProvider(s.Model, s.OllamaURL)
		if p.IsConfigured() {
			log.Printf("Using Ollama with model: %s", s.Model)
			return p
		}
		log.Println("Ollama not available, trying OpenAI fallback...")
	}

	p := NewOpenAIProvider(s.OpenAIModel, s.APIKeyEnv)
	if p.IsConfigured() {
		log.Printf("Using OpenAI with model: %s", s.OpenAIModel)
		return p
	}

	log.Println("No LLM provider available. Commentary is disabled until Ollama is running or OPENAI_API_KEY is set.")
	return nil
}
