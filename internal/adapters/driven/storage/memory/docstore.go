package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// Create stores a new document. Existing IDs are left untouched.
func (s *DocumentStore) Create(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[doc.ID]; ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}

	stored := *doc
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.History = cloneTurns(doc.History)
	s.documents[doc.ID] = stored
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc.History = cloneTurns(doc.History)
	return &doc, nil
}

// List returns every document ordered by creation time.
func (s *DocumentStore) List(_ context.Context) ([]domain.DocumentSummary, error) {
	s.mu.RLock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})

	result := make([]domain.DocumentSummary, len(docs))
	for i, doc := range docs {
		result[i] = doc.SummaryView()
	}
	return result, nil
}

// History returns the transcript of a document.
func (s *DocumentStore) History(_ context.Context, id string) ([]domain.ChatTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return cloneTurns(doc.History), nil
}

// AppendTurns adds turns to the end of a transcript.
func (s *DocumentStore) AppendTurns(_ context.Context, id string, turns ...domain.ChatTurn) ([]domain.ChatTurn, error) {
	for _, turn := range turns {
		if !turn.Role.IsValid() {
			return nil, fmt.Errorf("%w: role %q", domain.ErrInvalidInput, turn.Role)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.History = append(cloneTurns(doc.History), turns...)
	s.documents[id] = doc
	return cloneTurns(doc.History), nil
}

// Delete removes a document.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

func cloneTurns(turns []domain.ChatTurn) []domain.ChatTurn {
	out := make([]domain.ChatTurn, len(turns))
	copy(out, turns)
	return out
}
