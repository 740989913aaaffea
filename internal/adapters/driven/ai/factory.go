// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	ollamaembed "github.com/custodia-labs/pdfchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/pdfchat/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/pdfchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/pdfchat/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.InferenceProvider = (*Provider)(nil)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Server APIs the provider can speak.
const (
	// APIOllama uses the native /api endpoints.
	APIOllama = "ollama"
	// APIOpenAI uses the OpenAI-compatible /v1 endpoints.
	APIOpenAI = "openai"
)

// Config holds timeouts and throttling shared by every client the provider builds.
type Config struct {
	// API selects the endpoint family (default: ollama).
	API string

	// APIKey is sent as a bearer token by the openai clients.
	APIKey string

	EmbedTimeout    time.Duration
	ChatTimeout     time.Duration
	GenerateTimeout time.Duration
	ListTimeout     time.Duration

	// EmbedRPS caps embedding requests per second across all clients.
	// Zero disables throttling.
	EmbedRPS float64
}

// Provider builds Ollama clients for a given server URL and model.
type Provider struct {
	cfg     Config
	limiter *rate.Limiter
}

// NewProvider creates a new Ollama inference provider.
func NewProvider(cfg Config) *Provider {
	p := &Provider{cfg: cfg}
	if cfg.EmbedRPS > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.EmbedRPS), 1)
	}
	return p
}

// Embedder returns an embedding client for the given server and model.
func (p *Provider) Embedder(baseURL, model string) driven.EmbeddingService {
	if p.cfg.API == APIOpenAI {
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			BaseURL: baseURL,
			APIKey:  p.cfg.APIKey,
			Model:   model,
			Timeout: p.cfg.EmbedTimeout,
			Limiter: p.limiter,
		})
	}
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL: baseURL,
		Model:   model,
		Timeout: p.cfg.EmbedTimeout,
		Limiter: p.limiter,
	})
}

// LLM returns a generation and chat client for the given server and model.
func (p *Provider) LLM(baseURL, model string) driven.LLMService {
	if p.cfg.API == APIOpenAI {
		return openaillm.NewLLMService(openaillm.LLMConfig{
			BaseURL:         baseURL,
			APIKey:          p.cfg.APIKey,
			Model:           model,
			ChatTimeout:     p.cfg.ChatTimeout,
			GenerateTimeout: p.cfg.GenerateTimeout,
			ListTimeout:     p.cfg.ListTimeout,
		})
	}
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL:         baseURL,
		Model:           model,
		ChatTimeout:     p.cfg.ChatTimeout,
		GenerateTimeout: p.cfg.GenerateTimeout,
		ListTimeout:     p.cfg.ListTimeout,
	})
}

// Validate checks that the Ollama server at baseURL answers.
func (p *Provider) Validate(ctx context.Context, baseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	llm := p.LLM(baseURL, "")
	defer llm.Close()

	if err := llm.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable (%w)", domain.ErrLLMUnavailable, baseURL, err)
	}
	return nil
}
