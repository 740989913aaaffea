package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
	"github.com/custodia-labs/pdfchat/internal/metrics"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Answers returned instead of errors.
const (
	AnswerDocumentNotFound = "PDF not found."
	AnswerEmbedFailed      = "Could not generate embeddings for question."
	AnswerUnknown          = "I don't know based on this document."
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// ChatConfig tunes retrieval.
type ChatConfig struct {
	// TopK is the number of chunks placed in the prompt.
	TopK int

	// StrictEmbeddingModel refuses questions embedded with a different
	// model than the document's chunks.
	StrictEmbeddingModel bool
}

// ChatService answers questions about one document at a time.
type ChatService struct {
	docStore  driven.DocumentStore
	index     driven.VectorIndex
	inference driven.InferenceProvider
	settings  driving.SettingsService
	metrics   *metrics.Metrics
	cfg       ChatConfig
	locks     *keyedMutex
}

// NewChatService creates a new chat service.
func NewChatService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	inference driven.InferenceProvider,
	cfg ChatConfig,
) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	return &ChatService{
		docStore:  docStore,
		index:     index,
		inference: inference,
		cfg:       cfg,
		locks:     newKeyedMutex(),
	}
}

// SetSettings sets the source of defaults for empty request fields.
func (s *ChatService) SetSettings(settings driving.SettingsService) {
	s.settings = settings
}

// SetMetrics enables chat metrics.
func (s *ChatService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Chat runs embed, retrieve, compose and generate for one question.
// Every failure before the transcript append becomes the answer and leaves
// the transcript unchanged.
func (s *ChatService) Chat(ctx context.Context, req driving.ChatRequest) (*domain.ChatResult, error) {
	start := time.Now()
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	unlock := s.locks.Lock(req.DocumentID)
	defer unlock()

	doc, err := s.docStore.Get(ctx, req.DocumentID)
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.ObserveChat(start, metrics.OutcomeNotFound)
		return &domain.ChatResult{Answer: AnswerDocumentNotFound, History: []domain.ChatTurn{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	logger.Section("Chat " + doc.ID)
	embeddingModel := req.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = doc.EmbeddingModel
	}
	settings := resolveSettings(s.settings, req.OllamaURL, req.Model, embeddingModel)

	failed := func(outcome, answer string) (*domain.ChatResult, error) {
		s.metrics.ObserveChat(start, outcome)
		return &domain.ChatResult{Answer: answer, History: doc.History}, nil
	}

	embedder := s.inference.Embedder(settings.OllamaURL, settings.EmbeddingModel)
	defer embedder.Close()

	if doc.EmbeddingModel != "" && embedder.ModelName() != doc.EmbeddingModel {
		if s.cfg.StrictEmbeddingModel {
			return failed(metrics.OutcomeModelMismatch, fmt.Sprintf(
				"This document was indexed with embedding model %q but %q was requested. "+
					"Use the same embedding model or re-upload the document.",
				doc.EmbeddingModel, embedder.ModelName()))
		}
		logger.Warn("document %s was indexed with %q, embedding question with %q",
			doc.ID, doc.EmbeddingModel, embedder.ModelName())
	}

	embedding, ok := embedOrSkip(ctx, embedder, question)
	if !ok {
		return failed(metrics.OutcomeEmbedFailed, AnswerEmbedFailed)
	}

	hits, err := s.index.Query(ctx, embedding, driven.VectorFilter{DocumentID: doc.ID}, s.cfg.TopK)
	if err != nil {
		logger.Error("retrieval failed for %s: %v", doc.ID, err)
		return failed(metrics.OutcomeRetrieveError, tryAgainLater(err))
	}
	logger.Debug("retrieved %d chunks", len(hits))

	contexts := make([]string, len(hits))
	for i, hit := range hits {
		contexts[i] = hit.Text
	}

	llm := s.inference.LLM(settings.OllamaURL, settings.Model)
	defer llm.Close()

	prompt := BuildRAGPrompt(doc.Metadata, contexts, question)
	answer, err := llm.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: prompt}}, driven.ChatOptions{})
	if err != nil {
		logger.Error("generation failed for %s: %v", doc.ID, err)
		return failed(metrics.OutcomeGenerateError, tryAgainLater(err))
	}

	history, err := s.docStore.AppendTurns(ctx, doc.ID, domain.UserTurn(question), domain.AssistantTurn(answer))
	if errors.Is(err, domain.ErrNotFound) {
		// Deleted while the answer was generated.
		s.metrics.ObserveChat(start, metrics.OutcomeNotFound)
		return &domain.ChatResult{Answer: AnswerDocumentNotFound, History: []domain.ChatTurn{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("saving transcript: %w", err)
	}

	s.metrics.ObserveChat(start, metrics.OutcomeAnswered)
	return &domain.ChatResult{Answer: answer, History: history}, nil
}

func tryAgainLater(err error) string {
	return "Please try again later. Error: " + err.Error()
}

const ragPromptTemplate = `
You are answering questions about a PDF document.

You are given two sources of information:

1) Structured metadata extracted from the document (trust this for factual details like title, authors, publication year, publisher, document type, and abstract).
2) Text chunks retrieved from the document content (trust this for detailed explanations, methods, results, and narrative content).

Metadata (JSON):
%s

Context (text chunks):
%s

Instructions:
- Use the metadata for factual questions about the document itself (e.g., title, authors, publication year, publisher, document type).
- Use the context chunks for questions about the content, methods, results, and discussion.
- If metadata and context disagree, prefer metadata.
- Do NOT repeat the context verbatim.
- Do NOT include anything unrelated to the question or context.
- Answer concisely and directly.
- If the answer is not clearly present in either the metadata or the context, say: "%s"

Question:
%s

Answer:
`

// BuildRAGPrompt composes the grounded prompt sent to the chat model.
func BuildRAGPrompt(metadata domain.ContentMetadata, contexts []string, question string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(metadata); err != nil {
		buf.Reset()
		buf.WriteString("{}")
	}

	return fmt.Sprintf(ragPromptTemplate,
		strings.TrimRight(buf.String(), "\n"),
		strings.Join(contexts, "\n\n---\n\n"),
		AnswerUnknown,
		question,
	)
}
