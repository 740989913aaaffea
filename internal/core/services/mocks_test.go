package services

import (
	"context"
	"errors"
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// Text is embedded by counting a few marker words so that similarity is
// predictable.
type mockEmbedder struct {
	mu      sync.Mutex
	model   string
	err     error
	failOn  string
	calls   int
	vocab   []string
	vectors map[string][]float32
}

func newMockEmbedder(model string, vocab ...string) *mockEmbedder {
	return &mockEmbedder{model: model, vocab: vocab}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, errors.New("embedding refused")
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	vec := make([]float32, len(m.vocab)+1)
	lower := strings.ToLower(text)
	for i, word := range m.vocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	vec[len(m.vocab)] = 0.01
	return vec, nil
}

func (m *mockEmbedder) ModelName() string            { return m.model }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	mu          sync.Mutex
	generate    string
	generateErr error
	chat        func(prompt string) (string, error)
	models      []string
	prompts     []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.generate, m.generateErr
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	prompt := messages[len(messages)-1].Content
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.chat == nil {
		return "- summary bullet", nil
	}
	return m.chat(prompt)
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLM) ListModels(_ context.Context) []string { return m.models }
func (m *mockLLM) ModelName() string                     { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error          { return nil }
func (m *mockLLM) Close() error                          { return nil }

// mockInference implements driven.InferenceProvider for testing.
type mockInference struct {
	embedder *mockEmbedder
	llm      *mockLLM
	urls     []string
}

func (m *mockInference) Embedder(baseURL, model string) driven.EmbeddingService {
	m.urls = append(m.urls, baseURL)
	if model != "" && model != m.embedder.model {
		return &namedEmbedder{mockEmbedder: m.embedder, model: model}
	}
	return m.embedder
}

// namedEmbedder reports a different model name for a shared mockEmbedder.
type namedEmbedder struct {
	*mockEmbedder
	model string
}

func (n *namedEmbedder) ModelName() string { return n.model }

func (m *mockInference) LLM(baseURL, _ string) driven.LLMService {
	m.urls = append(m.urls, baseURL)
	return m.llm
}

// mockVectorIndex is a brute-force cosine index implementing driven.VectorIndex.
type mockVectorIndex struct {
	mu        sync.Mutex
	records   map[string]driven.VectorRecord
	queryErr  error
	upsertErr error
	deleted   []string
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{records: make(map[string]driven.VectorRecord)}
}

func (m *mockVectorIndex) Upsert(_ context.Context, rec driven.VectorRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ChunkID] = rec
	return nil
}

func (m *mockVectorIndex) Query(
	_ context.Context, embedding []float32, filter driven.VectorFilter, topK int,
) ([]driven.VectorHit, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if filter.DocumentID == "" {
		return nil, domain.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var hits []driven.VectorHit
	for _, rec := range m.records {
		if rec.DocumentID != filter.DocumentID {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    rec.ChunkID,
			DocumentID: rec.DocumentID,
			Page:       rec.Page,
			Text:       rec.Text,
			Similarity: cosine(embedding, rec.Embedding),
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *mockVectorIndex) DeleteDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, documentID)
	for id, rec := range m.records {
		if rec.DocumentID == documentID {
			delete(m.records, id)
		}
	}
	return nil
}

func (m *mockVectorIndex) Close() error { return nil }

func (m *mockVectorIndex) countFor(documentID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, rec := range m.records {
		if rec.DocumentID == documentID {
			n++
		}
	}
	return n
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// mockFileStore implements driven.FileStore for testing.
type mockFileStore struct {
	saved   map[string]string
	removed []string
	err     error
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{saved: make(map[string]string)}
}

func (m *mockFileStore) Save(id, filename string, content io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	path := "/pdfs/" + id + "_" + filename
	m.saved[path] = string(data)
	return path, nil
}

func (m *mockFileStore) Remove(path string) error {
	m.removed = append(m.removed, path)
	delete(m.saved, path)
	return nil
}

// mockExtractor implements driven.PageExtractor for testing.
type mockExtractor struct {
	pages []string
	err   error
	paths []string
}

func (m *mockExtractor) ExtractPages(_ context.Context, path string) ([]string, error) {
	m.paths = append(m.paths, path)
	return m.pages, m.err
}
