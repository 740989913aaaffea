package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService provides read access to ingested documents and deletion.
type DocumentService struct {
	docStore driven.DocumentStore
	index    driven.VectorIndex
	files    driven.FileStore
}

// NewDocumentService creates a new document service.
// index and files may be nil, in which case Delete only touches the store.
func NewDocumentService(docStore driven.DocumentStore, index driven.VectorIndex, files driven.FileStore) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		index:    index,
		files:    files,
	}
}

// ListDocuments returns all documents.
func (s *DocumentService) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	docs, err := s.docStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// GetSummary returns the summary of a document.
func (s *DocumentService) GetSummary(ctx context.Context, documentID string) (string, bool, error) {
	doc, err := s.docStore.Get(ctx, documentID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading document: %w", err)
	}
	return doc.Summary, true, nil
}

// GetHistory returns the transcript of a document.
func (s *DocumentService) GetHistory(ctx context.Context, documentID string) ([]domain.ChatTurn, error) {
	history, err := s.docStore.History(ctx, documentID)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.ChatTurn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return history, nil
}

// Delete removes a document's vectors, file and record.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.docStore.Get(ctx, documentID)
	if err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteDocument(ctx, documentID); err != nil {
			return fmt.Errorf("deleting vectors: %w", err)
		}
	}

	if s.files != nil {
		if err := s.files.Remove(doc.FilePath); err != nil {
			logger.Warn("could not remove %s: %v", doc.FilePath, err)
		}
	}

	if err := s.docStore.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	logger.Info("deleted document %s", documentID)
	return nil
}
