package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// ChatService answers questions about a single document.
type ChatService interface {
	// Chat answers req.Question from the document's content and metadata.
	// Model and retrieval failures are reported in the answer text; an error
	// is returned only when the transcript could not be stored.
	Chat(ctx context.Context, req ChatRequest) (*domain.ChatResult, error)
}

// ChatRequest is a single question.
type ChatRequest struct {
	DocumentID     string
	Question       string
	OllamaURL      string
	Model          string
	EmbeddingModel string
}
