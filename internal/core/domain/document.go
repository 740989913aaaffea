package domain

import "time"

// Document is an uploaded PDF together with everything derived from it.
// A document is created once per ID. Summary and Metadata are written at
// ingestion and never change; History only grows.
type Document struct {
	// ID is the caller-chosen unique identifier.
	ID string

	// Name is the original filename.
	Name string

	// FilePath is where the uploaded PDF is kept on disk.
	FilePath string

	// Summary is the model-written bullet summary, stored verbatim.
	Summary string

	// Metadata holds the fields extracted from the first pages.
	Metadata ContentMetadata

	// EmbeddingModel is the model the document's chunks were embedded with.
	EmbeddingModel string

	// History is the chat transcript in append order.
	History []ChatTurn

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time
}

// SummaryView returns the listing view of the document.
func (d *Document) SummaryView() DocumentSummary {
	return DocumentSummary{ID: d.ID, Name: d.Name, Summary: d.Summary}
}

// DocumentSummary is the listing view of a document.
type DocumentSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// ContentMetadata holds bibliographic fields for a document.
// Fields the model could not find are left empty.
// The zero value is the empty record.
type ContentMetadata struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Emails          []string `json:"emails"`
	Affiliations    []string `json:"affiliations"`
	PublicationYear string   `json:"publication_year"`
	Publisher       string   `json:"publisher"`
	DocumentType    string   `json:"document_type"`
	Abstract        string   `json:"abstract"`
	Keywords        []string `json:"keywords"`
}

// IsEmpty reports whether no field carries a value.
func (m ContentMetadata) IsEmpty() bool {
	return m.Title == "" &&
		len(m.Authors) == 0 &&
		len(m.Emails) == 0 &&
		len(m.Affiliations) == 0 &&
		m.PublicationYear == "" &&
		m.Publisher == "" &&
		m.DocumentType == "" &&
		m.Abstract == "" &&
		len(m.Keywords) == 0
}

// Chunk represents a retrievable unit of page text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Page is the 0-based index of the page the text came from.
	Page int

	// Sequence is the ordinal position within the page.
	Sequence int

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation for semantic retrieval.
	Embedding []float32
}
