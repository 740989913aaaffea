// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Ingestion runs the chunker, the embedding client and the vector index,
// then extracts metadata and a summary once per document. Chat runs
// retrieval-augmented generation against a single document.
package services
