package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the language model could not be reached
	// or returned an unusable response.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding model could not be reached
	// or returned an unusable vector.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index failed to serve a request.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrNoPages indicates a PDF produced no extractable page text.
	ErrNoPages = errors.New("no extractable pages")

	// ErrPDFToolNotFound indicates pdftotext is not installed.
	ErrPDFToolNotFound = errors.New("pdftotext not found: install poppler-utils")
)
