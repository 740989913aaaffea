package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// IngestService turns PDFs into indexed documents.
type IngestService interface {
	// Ingest indexes already extracted pages under req.DocumentID.
	// If the document exists, its stored view is returned and nothing is re-indexed.
	Ingest(ctx context.Context, req IngestRequest) (*domain.DocumentSummary, error)

	// Upload saves the file, extracts its pages and ingests them.
	// An existing DocumentID short-circuits before the file is written.
	Upload(ctx context.Context, req UploadRequest) (*domain.DocumentSummary, error)
}

// IngestRequest describes pages to index.
type IngestRequest struct {
	DocumentID     string
	Filename       string
	FilePath       string
	Pages          []string
	OllamaURL      string
	EmbeddingModel string
	Model          string
}

// UploadRequest describes a PDF to store and index.
type UploadRequest struct {
	DocumentID     string
	Filename       string
	Content        io.Reader
	OllamaURL      string
	EmbeddingModel string
	Model          string
}
