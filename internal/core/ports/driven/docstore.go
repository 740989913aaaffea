package driven

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DocumentStore persists documents and their chat transcripts.
// Summary and metadata are written once at creation; the transcript is
// only ever extended through AppendTurns.
type DocumentStore interface {
	// Create stores a new document.
	// Returns domain.ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document, including its transcript.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns every document ordered by creation time.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// History returns the transcript of a document.
	// Returns domain.ErrNotFound if the document does not exist.
	History(ctx context.Context, id string) ([]domain.ChatTurn, error)

	// AppendTurns atomically adds turns to the end of a transcript and
	// returns the full transcript afterwards.
	AppendTurns(ctx context.Context, id string, turns ...domain.ChatTurn) ([]domain.ChatTurn, error)

	// Delete removes a document and its transcript.
	Delete(ctx context.Context, id string) error
}
