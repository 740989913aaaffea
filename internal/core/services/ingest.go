package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
	"github.com/custodia-labs/pdfchat/internal/metrics"
	"github.com/custodia-labs/pdfchat/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns PDFs into indexed, summarised documents.
type IngestService struct {
	docStore   driven.DocumentStore
	index      driven.VectorIndex
	inference  driven.InferenceProvider
	files      driven.FileStore
	extractor  driven.PageExtractor
	chunker    *chunker.Processor
	metadata   *MetadataExtractor
	summarizer *Summarizer
	settings   driving.SettingsService
	metrics    *metrics.Metrics
	locks      *keyedMutex
}

// NewIngestService creates a new ingest service.
// files and extractor are only needed by Upload and may be nil.
func NewIngestService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	inference driven.InferenceProvider,
	files driven.FileStore,
	extractor driven.PageExtractor,
	chunk *chunker.Processor,
) *IngestService {
	if chunk == nil {
		chunk = chunker.New()
	}
	return &IngestService{
		docStore:   docStore,
		index:      index,
		inference:  inference,
		files:      files,
		extractor:  extractor,
		chunker:    chunk,
		metadata:   NewMetadataExtractor(),
		summarizer: NewSummarizer(),
		locks:      newKeyedMutex(),
	}
}

// SetSettings sets the source of defaults for empty request fields.
func (s *IngestService) SetSettings(settings driving.SettingsService) {
	s.settings = settings
}

// SetMetrics enables ingestion metrics.
func (s *IngestService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Ingest indexes already extracted pages.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.DocumentSummary, error) {
	if strings.TrimSpace(req.DocumentID) == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	unlock := s.locks.Lock(req.DocumentID)
	defer unlock()

	if existing, err := s.existing(ctx, req.DocumentID); existing != nil || err != nil {
		return existing, err
	}

	if !hasText(req.Pages) {
		return nil, domain.ErrNoPages
	}
	return s.ingest(ctx, req)
}

// hasText reports whether any page holds non-whitespace text.
func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// Upload saves the file, extracts pages and ingests them.
func (s *IngestService) Upload(ctx context.Context, req driving.UploadRequest) (*domain.DocumentSummary, error) {
	if strings.TrimSpace(req.DocumentID) == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if req.Filename == "" || req.Content == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}
	if s.files == nil || s.extractor == nil {
		return nil, errors.New("upload is not configured")
	}

	unlock := s.locks.Lock(req.DocumentID)
	defer unlock()

	if existing, err := s.existing(ctx, req.DocumentID); existing != nil || err != nil {
		return existing, err
	}

	path, err := s.files.Save(req.DocumentID, req.Filename, req.Content)
	if err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}
	logger.Debug("saved %s to %s", req.Filename, path)

	pages, err := s.extractor.ExtractPages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting pages: %w", err)
	}

	return s.ingest(ctx, driving.IngestRequest{
		DocumentID:     req.DocumentID,
		Filename:       req.Filename,
		FilePath:       path,
		Pages:          pages,
		OllamaURL:      req.OllamaURL,
		EmbeddingModel: req.EmbeddingModel,
		Model:          req.Model,
	})
}

// existing returns the stored view when the document is already ingested.
func (s *IngestService) existing(ctx context.Context, id string) (*domain.DocumentSummary, error) {
	doc, err := s.docStore.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	logger.Debug("document %s already ingested", id)
	view := doc.SummaryView()
	return &view, nil
}

// ingest runs the pipeline. The caller holds the document lock.
func (s *IngestService) ingest(ctx context.Context, req driving.IngestRequest) (*domain.DocumentSummary, error) {
	start := time.Now()
	logger.Section("Ingest " + req.DocumentID)

	settings := resolveSettings(s.settings, req.OllamaURL, req.Model, req.EmbeddingModel)
	if settings.Model == "" {
		return nil, fmt.Errorf("%w: model is required", domain.ErrInvalidInput)
	}

	llm := s.inference.LLM(settings.OllamaURL, settings.Model)
	defer llm.Close()
	embedder := s.inference.Embedder(settings.OllamaURL, settings.EmbeddingModel)
	defer embedder.Close()

	metadata := s.metadata.Extract(ctx, llm, req.Pages)

	indexed, skipped, err := s.indexPages(ctx, embedder, req.DocumentID, req.Pages)
	if err != nil {
		return nil, err
	}
	logger.Info("indexed %d chunks for %s (%d skipped)", indexed, req.DocumentID, skipped)

	summary, err := s.summarizer.Summarize(ctx, llm, req.Pages)
	if err != nil {
		return nil, err
	}

	name := req.Filename
	if name == "" {
		name = req.DocumentID
	}

	doc := &domain.Document{
		ID:             req.DocumentID,
		Name:           name,
		FilePath:       req.FilePath,
		Summary:        summary,
		Metadata:       metadata,
		EmbeddingModel: embedder.ModelName(),
		CreatedAt:      time.Now(),
	}
	if err := s.docStore.Create(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.existing(ctx, req.DocumentID)
		}
		return nil, fmt.Errorf("saving document: %w", err)
	}

	s.metrics.ObserveIngest(start, indexed, skipped)
	view := doc.SummaryView()
	return &view, nil
}

// indexPages chunks, embeds and upserts every page. Chunks that cannot be
// embedded are skipped; index failures abort.
func (s *IngestService) indexPages(
	ctx context.Context, embedder driven.EmbeddingService, documentID string, pages []string,
) (indexed, skipped int, err error) {
	for _, chunk := range s.chunker.Chunk(documentID, pages) {
		embedding, ok := embedOrSkip(ctx, embedder, chunk.Text)
		if !ok {
			skipped++
			continue
		}

		err := s.index.Upsert(ctx, driven.VectorRecord{
			ChunkID:    chunk.ID,
			DocumentID: documentID,
			Page:       chunk.Page,
			Sequence:   chunk.Sequence,
			Text:       chunk.Text,
			Embedding:  embedding,
		})
		if err != nil {
			return indexed, skipped, fmt.Errorf("indexing chunk %s: %w", chunk.ID, err)
		}
		indexed++
	}
	return indexed, skipped, nil
}

// embedOrSkip returns (nil, false) when no embedding could be produced.
func embedOrSkip(ctx context.Context, embedder driven.EmbeddingService, text string) ([]float32, bool) {
	embedding, err := embedder.Embed(ctx, text)
	if err != nil {
		logger.Warn("embedding failed: %v", err)
		return nil, false
	}
	if len(embedding) == 0 {
		logger.Warn("embedding failed: empty vector")
		return nil, false
	}
	return embedding, true
}

// resolveSettings fills empty request fields from saved settings.
func resolveSettings(settings driving.SettingsService, url, model, embeddingModel string) domain.Settings {
	req := domain.Settings{OllamaURL: url, Model: model, EmbeddingModel: embeddingModel}
	if settings != nil {
		return req.WithDefaults(settings.Get())
	}
	return req.WithDefaults(domain.DefaultSettings())
}
