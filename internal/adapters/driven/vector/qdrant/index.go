// Package qdrant provides a VectorIndex backed by a Qdrant server.
package qdrant

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	qdrantgo "github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/vector"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultHost = "localhost"
	DefaultPort = 6334
)

// Config holds configuration for the Qdrant index.
type Config struct {
	Host       string
	Port       int
	UseTLS     bool
	APIKey     string
	Collection string
}

// client is the subset of *qdrant.Client the index uses.
type client interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrantgo.CreateCollection) error
	Upsert(ctx context.Context, request *qdrantgo.UpsertPoints) (*qdrantgo.UpdateResult, error)
	Query(ctx context.Context, request *qdrantgo.QueryPoints) ([]*qdrantgo.ScoredPoint, error)
	Delete(ctx context.Context, request *qdrantgo.DeletePoints) (*qdrantgo.UpdateResult, error)
	Close() error
}

// Index is a Qdrant backed vector index.
type Index struct {
	client     client
	collection string

	mu    sync.Mutex
	ready bool
}

// New connects to Qdrant. The collection is created on first upsert,
// sized to the first vector.
func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	c, err := qdrantgo.NewClient(&qdrantgo.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UseTLS: cfg.UseTLS,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to qdrant at %s:%d: %w",
			domain.ErrVectorIndexUnavailable, cfg.Host, cfg.Port, err)
	}

	return newWithClient(c, cfg.Collection), nil
}

func newWithClient(c client, collection string) *Index {
	if collection == "" {
		collection = vector.DefaultCollection
	}
	return &Index{client: c, collection: collection}
}

// PointID maps a chunk ID to a stable Qdrant point UUID.
func PointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkID)).String()
}

func (i *Index) ensureCollection(ctx context.Context, size int) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.ready {
		return nil
	}

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", i.collection, err)
	}

	if !exists {
		err := i.client.CreateCollection(ctx, &qdrantgo.CreateCollection{
			CollectionName: i.collection,
			VectorsConfig: qdrantgo.NewVectorsConfig(&qdrantgo.VectorParams{
				Size:     uint64(size),
				Distance: qdrantgo.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("creating collection %s: %w", i.collection, err)
		}
		logger.Debug("created qdrant collection %s (size %d)", i.collection, size)
	}

	i.ready = true
	return nil
}

// Upsert inserts or replaces the vector for rec.ChunkID.
func (i *Index) Upsert(ctx context.Context, rec driven.VectorRecord) error {
	if rec.ChunkID == "" || rec.DocumentID == "" {
		return fmt.Errorf("%w: chunk and document id are required", domain.ErrInvalidInput)
	}
	if len(rec.Embedding) == 0 {
		return fmt.Errorf("%w: empty embedding for %s", domain.ErrInvalidInput, rec.ChunkID)
	}

	if err := i.ensureCollection(ctx, len(rec.Embedding)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}

	_, err := i.client.Upsert(ctx, &qdrantgo.UpsertPoints{
		CollectionName: i.collection,
		Wait:           qdrantgo.PtrOf(true),
		Points: []*qdrantgo.PointStruct{
			{
				Id:      qdrantgo.NewIDUUID(PointID(rec.ChunkID)),
				Vectors: qdrantgo.NewVectors(rec.Embedding...),
				Payload: payload(rec),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: upserting %s: %w", domain.ErrVectorIndexUnavailable, rec.ChunkID, err)
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

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: checking collection %s: %w", domain.ErrVectorIndexUnavailable, i.collection, err)
	}
	if !exists {
		return []driven.VectorHit{}, nil
	}

	points, err := i.client.Query(ctx, &qdrantgo.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrantgo.NewQuery(embedding...),
		Limit:          qdrantgo.PtrOf(uint64(topK)),
		WithPayload:    qdrantgo.NewWithPayload(true),
		Filter:         documentFilter(filter.DocumentID),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", domain.ErrVectorIndexUnavailable, filter.DocumentID, err)
	}

	hits := make([]driven.VectorHit, 0, len(points))
	for _, p := range points {
		hits = append(hits, hitFromPayload(p.GetPayload(), float64(p.GetScore())))
	}
	return hits, nil
}

// DeleteDocument removes every vector tagged with documentID.
func (i *Index) DeleteDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("%w: checking collection %s: %w", domain.ErrVectorIndexUnavailable, i.collection, err)
	}
	if !exists {
		return nil
	}

	_, err = i.client.Delete(ctx, &qdrantgo.DeletePoints{
		CollectionName: i.collection,
		Wait:           qdrantgo.PtrOf(true),
		Points:         qdrantgo.NewPointsSelectorFilter(documentFilter(documentID)),
	})
	if err != nil {
		return fmt.Errorf("%w: deleting %s: %w", domain.ErrVectorIndexUnavailable, documentID, err)
	}
	return nil
}

// Close releases the gRPC connection.
func (i *Index) Close() error {
	return i.client.Close()
}

func documentFilter(documentID string) *qdrantgo.Filter {
	return &qdrantgo.Filter{
		Must: []*qdrantgo.Condition{
			qdrantgo.NewMatchKeyword(vector.KeyDocumentID, documentID),
		},
	}
}

func payload(rec driven.VectorRecord) map[string]*qdrantgo.Value {
	return map[string]*qdrantgo.Value{
		vector.KeyDocumentID: qdrantgo.NewValueString(rec.DocumentID),
		vector.KeyChunkID:    qdrantgo.NewValueString(rec.ChunkID),
		vector.KeyText:       qdrantgo.NewValueString(rec.Text),
		vector.KeyPage:       qdrantgo.NewValueInt(int64(rec.Page)),
		vector.KeySequence:   qdrantgo.NewValueInt(int64(rec.Sequence)),
	}
}

func hitFromPayload(p map[string]*qdrantgo.Value, score float64) driven.VectorHit {
	return driven.VectorHit{
		ChunkID:    p[vector.KeyChunkID].GetStringValue(),
		DocumentID: p[vector.KeyDocumentID].GetStringValue(),
		Page:       int(p[vector.KeyPage].GetIntegerValue()),
		Text:       p[vector.KeyText].GetStringValue(),
		Similarity: score,
	}
}
