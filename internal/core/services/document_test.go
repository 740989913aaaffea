package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

func newDocumentFixture(t *testing.T) (*DocumentService, *memory.DocumentStore, *mockVectorIndex, *mockFileStore) {
	t.Helper()
	docs := memory.NewDocumentStore()
	index := newMockVectorIndex()
	files := newMockFileStore()
	ctx := context.Background()

	require.NoError(t, docs.Create(ctx, &domain.Document{
		ID:       "doc1",
		Name:     "one.pdf",
		FilePath: "/pdfs/doc1_one.pdf",
		Summary:  "- first",
	}))
	require.NoError(t, index.Upsert(ctx, driven.VectorRecord{ChunkID: "c1", DocumentID: "doc1", Embedding: []float32{1}}))
	require.NoError(t, index.Upsert(ctx, driven.VectorRecord{ChunkID: "c2", DocumentID: "doc2", Embedding: []float32{1}}))
	files.saved["/pdfs/doc1_one.pdf"] = "%PDF"

	return NewDocumentService(docs, index, files), docs, index, files
}

func TestNewDocumentService(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil, nil)
	require.NotNil(t, svc)
}

func TestDocumentService_ListDocuments(t *testing.T) {
	svc, _, _, _ := newDocumentFixture(t)

	docs, err := svc.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DocumentSummary{{ID: "doc1", Name: "one.pdf", Summary: "- first"}}, docs)
}

func TestDocumentService_GetSummary(t *testing.T) {
	svc, _, _, _ := newDocumentFixture(t)
	ctx := context.Background()

	summary, ok, err := svc.GetSummary(ctx, "doc1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "- first", summary)

	summary, ok, err = svc.GetSummary(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, summary)
}

func TestDocumentService_GetHistory(t *testing.T) {
	svc, docs, _, _ := newDocumentFixture(t)
	ctx := context.Background()
	_, err := docs.AppendTurns(ctx, "doc1", domain.UserTurn("q"), domain.AssistantTurn("a"))
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, "doc1")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = svc.GetHistory(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestDocumentService_Delete(t *testing.T) {
	svc, docs, index, files := newDocumentFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "doc1"))

	_, err := docs.Get(ctx, "doc1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, index.countFor("doc1"))
	assert.Equal(t, 1, index.countFor("doc2"))
	assert.Equal(t, []string{"/pdfs/doc1_one.pdf"}, files.removed)
}

func TestDocumentService_Delete_NotFound(t *testing.T) {
	svc, _, index, _ := newDocumentFixture(t)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, index.deleted)
}
