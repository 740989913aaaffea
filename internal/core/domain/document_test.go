package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocument_SummaryView tests the listing projection
func TestDocument_SummaryView(t *testing.T) {
	doc := Document{
		ID:        "doc-1",
		Name:      "paper.pdf",
		Summary:   "- point",
		CreatedAt: time.Now(),
	}

	view := doc.SummaryView()

	assert.Equal(t, DocumentSummary{ID: "doc-1", Name: "paper.pdf", Summary: "- point"}, view)
}

func TestContentMetadata_IsEmpty(t *testing.T) {
	assert.True(t, ContentMetadata{}.IsEmpty())
	assert.False(t, ContentMetadata{Title: "T"}.IsEmpty())
	assert.False(t, ContentMetadata{Keywords: []string{"k"}}.IsEmpty())
}

func TestContentMetadata_JSONKeys(t *testing.T) {
	raw := `{"title":"Attention","authors":["A. Author"],"emails":[],"affiliations":["Lab"],` +
		`"publication_year":"2017","publisher":"NeurIPS","document_type":"paper",` +
		`"abstract":"We propose","keywords":["transformer"]}`

	var meta ContentMetadata
	require.NoError(t, json.Unmarshal([]byte(raw), &meta))

	assert.Equal(t, "Attention", meta.Title)
	assert.Equal(t, []string{"A. Author"}, meta.Authors)
	assert.Equal(t, "2017", meta.PublicationYear)
	assert.Equal(t, "paper", meta.DocumentType)
	assert.Equal(t, []string{"transformer"}, meta.Keywords)
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.False(t, Role("system").IsValid())
}

func TestTurnConstructors(t *testing.T) {
	assert.Equal(t, ChatTurn{Role: RoleUser, Content: "q"}, UserTurn("q"))
	assert.Equal(t, ChatTurn{Role: RoleAssistant, Content: "a"}, AssistantTurn("a"))
}
