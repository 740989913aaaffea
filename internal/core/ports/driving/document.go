package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DocumentService exposes stored documents.
type DocumentService interface {
	// ListDocuments returns every document with its summary.
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)

	// GetSummary returns the stored summary. The bool is false when the
	// document does not exist.
	GetSummary(ctx context.Context, documentID string) (string, bool, error)

	// GetHistory returns the transcript, or an empty one for unknown documents.
	GetHistory(ctx context.Context, documentID string) ([]domain.ChatTurn, error)

	// Delete removes the document, its vectors and its file.
	Delete(ctx context.Context, documentID string) error
}
