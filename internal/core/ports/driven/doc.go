// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - PageExtractor: Turns a PDF file into per-page text (pdftotext)
//   - FileStore: Keeps uploaded PDFs on disk
//   - InferenceProvider: Binds EmbeddingService and LLMService to an Ollama URL and model
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Generate and chat primitives
//   - VectorIndex: Per-document filtered similarity search (chromem, Qdrant)
//   - DocumentStore: Document persistence with an append-only transcript
//   - ConfigStore: User settings
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
