package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyOllamaURL      = "ollama_url"
	keyModel          = "model"
	keyEmbeddingModel = "embedding_model"
)

// SettingsService manages the user's model selections.
type SettingsService struct {
	configStore driven.ConfigStore
	inference   driven.InferenceProvider
	defaults    domain.Settings
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, inference driven.InferenceProvider) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		inference:   inference,
		defaults:    domain.DefaultSettings(),
	}
}

// SetDefaults overrides the values used for unset keys.
// Empty fields in defaults keep the built-in values.
func (s *SettingsService) SetDefaults(defaults domain.Settings) {
	s.defaults = defaults.WithDefaults(domain.DefaultSettings())
}

// Get retrieves current settings, falling back to defaults.
func (s *SettingsService) Get() domain.Settings {
	saved := domain.Settings{
		OllamaURL:      s.configStore.GetString(keyOllamaURL),
		Model:          s.configStore.GetString(keyModel),
		EmbeddingModel: s.configStore.GetString(keyEmbeddingModel),
	}
	return saved.WithDefaults(s.defaults)
}

// Save persists settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	if err := s.configStore.Set(keyOllamaURL, settings.OllamaURL); err != nil {
		return fmt.Errorf("saving %s: %w", keyOllamaURL, err)
	}
	if err := s.configStore.Set(keyModel, settings.Model); err != nil {
		return fmt.Errorf("saving %s: %w", keyModel, err)
	}
	if err := s.configStore.Set(keyEmbeddingModel, settings.EmbeddingModel); err != nil {
		return fmt.Errorf("saving %s: %w", keyEmbeddingModel, err)
	}
	return s.configStore.Save()
}

// ListModels returns the model names installed on the server.
func (s *SettingsService) ListModels(ctx context.Context, baseURL string) []string {
	if baseURL == "" {
		baseURL = s.Get().OllamaURL
	}
	llm := s.inference.LLM(baseURL, "")
	defer llm.Close()
	return llm.ListModels(ctx)
}
