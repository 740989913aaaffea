package driven

// InferenceProvider builds model clients bound to a server URL and model name.
// Each upload and question names its own server and models.
type InferenceProvider interface {
	// Embedder returns an embedding client for the given server and model.
	Embedder(baseURL, model string) EmbeddingService

	// LLM returns a generation and chat client for the given server and model.
	LLM(baseURL, model string) LLMService
}
