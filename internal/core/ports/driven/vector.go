package driven

import "context"

// VectorIndex stores chunk embeddings and answers similarity queries
// restricted to a single document.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for rec.ChunkID.
	Upsert(ctx context.Context, rec VectorRecord) error

	// Query returns up to topK chunks of filter.DocumentID, most similar first.
	// An empty DocumentID is rejected with domain.ErrInvalidInput.
	Query(ctx context.Context, embedding []float32, filter VectorFilter, topK int) ([]VectorHit, error)

	// DeleteDocument removes every vector tagged with documentID.
	DeleteDocument(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}

// VectorRecord is a chunk as stored in the index.
type VectorRecord struct {
	ChunkID    string
	DocumentID string
	Page       int
	Sequence   int
	Text       string
	Embedding  []float32
}

// VectorFilter restricts a query. DocumentID is mandatory.
type VectorFilter struct {
	DocumentID string
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the document the chunk belongs to.
	DocumentID string

	// Page is the 0-based source page index.
	Page int

	// Text is the chunk content.
	Text string

	// Similarity is the cosine similarity score.
	Similarity float64
}
