// Package vector holds the VectorIndex adapters.
//
// Each adapter keeps every chunk in a single collection and tags it with
// its document ID; queries always filter on that tag.
//
//   - chromem: embedded, persisted under the data directory (default)
//   - qdrant: external Qdrant server over gRPC
package vector

// Metadata keys stored alongside each vector.
const (
	KeyDocumentID = "document_id"
	KeyPage       = "page"
	KeySequence   = "chunk"
	KeyChunkID    = "chunk_id"
	KeyText       = "text"
)

// DefaultTopK is used when a query asks for a non-positive number of results.
const DefaultTopK = 5

// DefaultCollection is the collection all chunks live in.
const DefaultCollection = "pdf_chunks"
