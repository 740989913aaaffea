package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "pdfchat://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "All uploaded PDFs with their summaries",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/summary",
		Name:        "document-summary",
		Description: "Bullet-point summary of an uploaded PDF",
		MIMEType:    "text/markdown",
	}, s.handleSummaryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/history",
		Name:        "document-history",
		Description: "Chat transcript of an uploaded PDF",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Document.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return textResult(req.Params.URI, "application/json", string(data)), nil
}

func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI, "/summary")
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	summary, found, err := s.ports.Document.GetSummary(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting summary: %w", err)
	}
	if !found {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return textResult(req.Params.URI, "text/markdown", summary), nil
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI, "/history")
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	history, err := s.ports.Document.GetHistory(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting history: %w", err)
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return textResult(req.Params.URI, "application/json", string(data)), nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

// extractDocumentID extracts the id from a URI like pdfchat://documents/{id}{suffix}.
func extractDocumentID(uri, suffix string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
