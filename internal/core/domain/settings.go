package domain

// DefaultOllamaURL is the Ollama endpoint used when none is configured.
const DefaultOllamaURL = "http://localhost:11434"

// Settings are the user's model selections.
type Settings struct {
	// OllamaURL is the base URL of the Ollama server.
	OllamaURL string `json:"ollama_url"`

	// Model is the chat and generation model.
	Model string `json:"model"`

	// EmbeddingModel is the model used to embed chunks and questions.
	EmbeddingModel string `json:"embedding_model"`
}

// DefaultSettings returns settings used before the user saves any.
func DefaultSettings() Settings {
	return Settings{OllamaURL: DefaultOllamaURL}
}

// WithDefaults fills empty fields from other.
func (s Settings) WithDefaults(other Settings) Settings {
	if s.OllamaURL == "" {
		s.OllamaURL = other.OllamaURL
	}
	if s.Model == "" {
		s.Model = other.Model
	}
	if s.EmbeddingModel == "" {
		s.EmbeddingModel = other.EmbeddingModel
	}
	return s
}
