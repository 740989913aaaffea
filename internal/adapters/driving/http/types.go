package http

import "github.com/custodia-labs/pdfchat/internal/core/domain"

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// SaveSettingsResponse is the response body for POST /settings.
type SaveSettingsResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ModelsResponse is the response body for GET /models.
type ModelsResponse struct {
	Models []string `json:"models"`
}

// PDFListResponse is the response body for GET /pdf/list.
type PDFListResponse struct {
	PDFs []domain.DocumentSummary `json:"pdfs"`
}

// SummaryResponse is the response body for GET /pdf/:id/summary.
// Summary is null for unknown documents.
type SummaryResponse struct {
	PDFID   string  `json:"pdf_id"`
	Summary *string `json:"summary"`
}

// HistoryResponse is the response body for GET /pdf/:id/chat_history.
type HistoryResponse struct {
	History []domain.ChatTurn `json:"history"`
}

// ChatRequest is the request body for POST /chat.
type ChatRequest struct {
	PDFID          string `json:"pdf_id"`
	Question       string `json:"question"`
	OllamaURL      string `json:"ollama_url"`
	Model          string `json:"model"`
	EmbeddingModel string `json:"embedding_model"`
}

// ChatResponse is the response body for POST /chat.
type ChatResponse struct {
	Answer  string            `json:"answer"`
	History []domain.ChatTurn `json:"history"`
}
