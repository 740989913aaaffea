package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		suffix   string
		expected string
	}{
		{"summary URI", "pdfchat://documents/doc-1/summary", "/summary", "doc-1"},
		{"history URI", "pdfchat://documents/doc-1/history", "/history", "doc-1"},
		{"wrong suffix", "pdfchat://documents/doc-1/history", "/summary", ""},
		{"wrong scheme", "file://documents/doc-1/summary", "/summary", ""},
		{"nested id", "pdfchat://documents/a/b/summary", "/summary", ""},
		{"empty", "", "/summary", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri, tt.suffix))
		})
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	docs := &mockDocumentService{documents: []domain.DocumentSummary{{ID: "doc-1", Name: "a.pdf", Summary: "- s"}}}
	server := newTestServer(t, docs, &mockChatService{})

	result, err := server.handleDocumentsResource(context.Background(), readRequest("pdfchat://documents"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var decoded []domain.DocumentSummary
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &decoded))
	assert.Equal(t, docs.documents, decoded)
}

func TestServer_handleSummaryResource(t *testing.T) {
	docs := &mockDocumentService{summaries: map[string]string{"doc-1": "- point"}}
	server := newTestServer(t, docs, &mockChatService{})

	t.Run("found", func(t *testing.T) {
		result, err := server.handleSummaryResource(context.Background(),
			readRequest("pdfchat://documents/doc-1/summary"))

		require.NoError(t, err)
		assert.Equal(t, "- point", result.Contents[0].Text)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := server.handleSummaryResource(context.Background(),
			readRequest("pdfchat://documents/missing/summary"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := server.handleSummaryResource(context.Background(), readRequest("pdfchat://other"))
		assert.Error(t, err)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	docs := &mockDocumentService{history: []domain.ChatTurn{domain.UserTurn("q"), domain.AssistantTurn("a")}}
	server := newTestServer(t, docs, &mockChatService{})

	result, err := server.handleHistoryResource(context.Background(),
		readRequest("pdfchat://documents/doc-1/history"))

	require.NoError(t, err)
	var decoded []domain.ChatTurn
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &decoded))
	assert.Equal(t, docs.history, decoded)
}
