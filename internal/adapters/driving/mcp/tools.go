package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single uploaded document.
type DocumentOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// GetSummaryInput is the input schema for the get_summary tool.
type GetSummaryInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id the PDF was uploaded under"`
}

// GetSummaryOutput is the output schema for the get_summary tool.
type GetSummaryOutput struct {
	DocumentID string `json:"document_id"`
	Found      bool   `json:"found"`
	Summary    string `json:"summary,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	DocumentID     string `json:"document_id" jsonschema:"the id the PDF was uploaded under"`
	Question       string `json:"question" jsonschema:"the question to answer from the document"`
	Model          string `json:"model,omitempty" jsonschema:"chat model to use (default: saved setting)"`
	EmbeddingModel string `json:"embedding_model,omitempty" jsonschema:"embedding model (default: the one the document was indexed with)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
	Turns  int    `json:"turns"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded PDFs with their summaries",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get the bullet-point summary of an uploaded PDF",
	}, s.handleGetSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from the content of an uploaded PDF",
	}, s.handleAsk)
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.ListDocuments(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("listing documents: %w", err)
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i, doc := range docs {
		output.Documents[i] = DocumentOutput{ID: doc.ID, Name: doc.Name, Summary: doc.Summary}
	}

	return nil, output, nil
}

func (s *Server) handleGetSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSummaryInput,
) (*mcp.CallToolResult, GetSummaryOutput, error) {
	if input.DocumentID == "" {
		return nil, GetSummaryOutput{}, errors.New("document_id is required")
	}

	summary, found, err := s.ports.Document.GetSummary(ctx, input.DocumentID)
	if err != nil {
		return nil, GetSummaryOutput{}, fmt.Errorf("getting summary: %w", err)
	}

	return nil, GetSummaryOutput{
		DocumentID: input.DocumentID,
		Found:      found,
		Summary:    summary,
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.DocumentID == "" {
		return nil, AskOutput{}, errors.New("document_id is required")
	}

	result, err := s.ports.Chat.Chat(ctx, driving.ChatRequest{
		DocumentID:     input.DocumentID,
		Question:       input.Question,
		Model:          input.Model,
		EmbeddingModel: input.EmbeddingModel,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, AskOutput{}, errors.New("question is required")
		}
		return nil, AskOutput{}, fmt.Errorf("asking question: %w", err)
	}

	return nil, AskOutput{Answer: result.Answer, Turns: len(result.History)}, nil
}
