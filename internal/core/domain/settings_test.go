package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "http://localhost:11434", s.OllamaURL)
	assert.Empty(t, s.Model)
	assert.Empty(t, s.EmbeddingModel)
}

func TestSettings_WithDefaults(t *testing.T) {
	s := Settings{Model: "llama3"}.WithDefaults(Settings{
		OllamaURL:      "http://gpu:11434",
		Model:          "mistral",
		EmbeddingModel: "nomic-embed-text",
	})

	assert.Equal(t, "http://gpu:11434", s.OllamaURL)
	assert.Equal(t, "llama3", s.Model)
	assert.Equal(t, "nomic-embed-text", s.EmbeddingModel)
}
