package mcp

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentSummary
	summaries map[string]string
	history   []domain.ChatTurn
	err       error
}

func (m *mockDocumentService) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) GetSummary(_ context.Context, id string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	summary, ok := m.summaries[id]
	return summary, ok, nil
}

func (m *mockDocumentService) GetHistory(_ context.Context, _ string) ([]domain.ChatTurn, error) {
	return m.history, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result  *domain.ChatResult
	err     error
	lastReq driving.ChatRequest
}

func (m *mockChatService) Chat(_ context.Context, req driving.ChatRequest) (*domain.ChatResult, error) {
	m.lastReq = req
	return m.result, m.err
}
