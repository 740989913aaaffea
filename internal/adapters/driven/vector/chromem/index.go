// Package chromem provides a VectorIndex backed by an embedded chromem-go database.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/vector"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// errNoEmbedding is returned if chromem is ever asked to embed text itself.
var errNoEmbedding = errors.New("chromem: embeddings must be supplied by the caller")

// Config holds configuration for the chromem index.
type Config struct {
	// Path is the persistence directory. Empty keeps everything in memory.
	Path string

	// Collection is the collection name (default: pdf_chunks).
	Collection string

	// Compress gzips persisted documents.
	Compress bool
}

// Index is a chromem-go backed vector index.
type Index struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
}

// New opens or creates the index.
func New(cfg Config) (*Index, error) {
	if cfg.Collection == "" {
		cfg.Collection = vector.DefaultCollection
	}

	var db *chromemgo.DB
	if cfg.Path == "" {
		db = chromemgo.NewDB()
	} else {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", cfg.Path, err)
		}

		var err error
		db, err = chromemgo.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("creating chromem DB: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, refuseEmbedding)
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", cfg.Collection, err)
	}

	logger.Debug("chromem index ready: path=%q collection=%s documents=%d",
		cfg.Path, cfg.Collection, collection.Count())

	return &Index{db: db, collection: collection}, nil
}

func refuseEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbedding
}

// Upsert inserts or replaces the vector for rec.ChunkID.
func (i *Index) Upsert(ctx context.Context, rec driven.VectorRecord) error {
	if rec.ChunkID == "" || rec.DocumentID == "" {
		return fmt.Errorf("%w: chunk and document id are required", domain.ErrInvalidInput)
	}
	if len(rec.Embedding) == 0 {
		return fmt.Errorf("%w: empty embedding for %s", domain.ErrInvalidInput, rec.ChunkID)
	}

	err := i.collection.AddDocument(ctx, chromemgo.Document{
		ID: rec.ChunkID,
		Metadata: map[string]string{
			vector.KeyDocumentID: rec.DocumentID,
			vector.KeyPage:       strconv.Itoa(rec.Page),
			vector.KeySequence:   strconv.Itoa(rec.Sequence),
		},
		Embedding: rec.Embedding,
		Content:   rec.Text,
	})
	if err != nil {
		return fmt.Errorf("%w: adding %s: %w", domain.ErrVectorIndexUnavailable, rec.ChunkID, err)
	}
	return nil
}

// Query returns up to topK chunks of filter.DocumentID, most similar first.
func (i *Index) Query(ctx context.Context, embedding []float32, filter driven.VectorFilter, topK int) ([]driven.VectorHit, error) {
	if filter.DocumentID == "" {
		return nil, fmt.Errorf("%w: document id filter is required", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = vector.DefaultTopK
	}

	// chromem requires nResults <= collection size
	total := i.collection.Count()
	if total == 0 {
		return []driven.VectorHit{}, nil
	}
	if topK > total {
		topK = total
	}

	results, err := i.collection.QueryEmbedding(ctx, embedding, topK,
		map[string]string{vector.KeyDocumentID: filter.DocumentID}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", domain.ErrVectorIndexUnavailable, filter.DocumentID, err)
	}

	hits := make([]driven.VectorHit, 0, len(results))
	for _, r := range results {
		page, _ := strconv.Atoi(r.Metadata[vector.KeyPage])
		hits = append(hits, driven.VectorHit{
			ChunkID:    r.ID,
			DocumentID: r.Metadata[vector.KeyDocumentID],
			Page:       page,
			Text:       r.Content,
			Similarity: float64(r.Similarity),
		})
	}
	return hits, nil
}

// DeleteDocument removes every vector tagged with documentID.
func (i *Index) DeleteDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	if err := i.collection.Delete(ctx, map[string]string{vector.KeyDocumentID: documentID}, nil); err != nil {
		return fmt.Errorf("%w: deleting %s: %w", domain.ErrVectorIndexUnavailable, documentID, err)
	}
	return nil
}

// Close releases resources. chromem persists on every write.
func (i *Index) Close() error {
	return nil
}
