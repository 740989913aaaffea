package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), &mockInference{llm: &mockLLM{}})

	settings := svc.Get()
	assert.Equal(t, domain.Settings{OllamaURL: "http://localhost:11434"}, settings)
}

func TestSettingsService_SaveAndGet(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, &mockInference{llm: &mockLLM{}})

	want := domain.Settings{
		OllamaURL:      "http://gpu:11434",
		Model:          "llama3",
		EmbeddingModel: "nomic-embed-text",
	}
	require.NoError(t, svc.Save(want))

	assert.Equal(t, want, svc.Get())
	assert.Equal(t, 1, store.Saves())
	assert.Equal(t, "llama3", store.GetString("model"))
}

func TestSettingsService_SetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), &mockInference{llm: &mockLLM{}})
	svc.SetDefaults(domain.Settings{Model: "mistral"})

	settings := svc.Get()
	assert.Equal(t, "http://localhost:11434", settings.OllamaURL)
	assert.Equal(t, "mistral", settings.Model)

	require.NoError(t, svc.Save(domain.Settings{Model: "llama3"}))
	assert.Equal(t, "llama3", svc.Get().Model)
}

func TestSettingsService_ListModels(t *testing.T) {
	inference := &mockInference{llm: &mockLLM{models: []string{"llama3", "nomic-embed-text"}}}
	svc := NewSettingsService(memory.NewConfigStore(), inference)

	models := svc.ListModels(context.Background(), "http://other:11434")
	assert.Equal(t, []string{"llama3", "nomic-embed-text"}, models)
	assert.Equal(t, []string{"http://other:11434"}, inference.urls)

	svc.ListModels(context.Background(), "")
	assert.Equal(t, "http://localhost:11434", inference.urls[1])
}
