package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.documents)
}

func TestDocumentStore_Create_Success(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:       "doc-1",
		Name:     "paper.pdf",
		FilePath: "/data/pdfs/doc-1_paper.pdf",
		Summary:  "- point",
		Metadata: domain.ContentMetadata{Title: "Paper"},
	}
	require.NoError(t, store.Create(ctx, doc))

	saved, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", saved.Name)
	assert.Equal(t, "Paper", saved.Metadata.Title)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Empty(t, saved.History)
}

func TestDocumentStore_Create_Duplicate(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &domain.Document{ID: "doc-1", Summary: "first"}))
	err := store.Create(ctx, &domain.Document{ID: "doc-1", Summary: "second"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	saved, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "first", saved.Summary)
}

func TestDocumentStore_Get_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Get_ReturnsCopy(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &domain.Document{ID: "doc-1"}))
	_, err := store.AppendTurns(ctx, "doc-1", domain.UserTurn("q"))
	require.NoError(t, err)

	doc, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	doc.History[0].Content = "changed"

	history, err := store.History(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "q", history[0].Content)
}

func TestDocumentStore_List_Ordered(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Create(ctx, &domain.Document{ID: "b", CreatedAt: now}))
	require.NoError(t, store.Create(ctx, &domain.Document{ID: "a", CreatedAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Create(ctx, &domain.Document{ID: "c", CreatedAt: now}))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "c", docs[2].ID)
}

func TestDocumentStore_List_Empty(t *testing.T) {
	docs, err := NewDocumentStore().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentStore_AppendTurns(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &domain.Document{ID: "doc-1"}))

	history, err := store.AppendTurns(ctx, "doc-1", domain.UserTurn("q1"), domain.AssistantTurn("a1"))
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = store.AppendTurns(ctx, "doc-1", domain.UserTurn("q2"), domain.AssistantTurn("a2"))
	require.NoError(t, err)
	assert.Equal(t, []domain.ChatTurn{
		domain.UserTurn("q1"), domain.AssistantTurn("a1"),
		domain.UserTurn("q2"), domain.AssistantTurn("a2"),
	}, history)
}

func TestDocumentStore_AppendTurns_NotFound(t *testing.T) {
	_, err := NewDocumentStore().AppendTurns(context.Background(), "missing", domain.UserTurn("q"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_AppendTurns_InvalidRole(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &domain.Document{ID: "doc-1"}))

	_, err := store.AppendTurns(ctx, "doc-1", domain.ChatTurn{Role: "tool"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_ConcurrentAppend(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &domain.Document{ID: "doc-1"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.AppendTurns(ctx, "doc-1",
				domain.UserTurn(fmt.Sprintf("q%d", i)),
				domain.AssistantTurn(fmt.Sprintf("a%d", i)))
		}(i)
	}
	wg.Wait()

	history, err := store.History(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, history, 100)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, domain.RoleUser, history[i].Role)
		assert.Equal(t, history[i].Content[1:], history[i+1].Content[1:])
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &domain.Document{ID: "doc-1"}))

	require.NoError(t, store.Delete(ctx, "doc-1"))
	_, err := store.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "doc-1"))
}
