// Package domain defines the core business entities for pdfchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded PDF with its summary, metadata and transcript
//   - Chunk: A retrievable unit of page text
//   - ContentMetadata: Bibliographic fields extracted from the first pages
//   - ChatTurn: One message of a document's chat transcript
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
