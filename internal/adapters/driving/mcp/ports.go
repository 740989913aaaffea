package mcp

import (
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document lists documents and reads summaries and transcripts.
	Document driving.DocumentService

	// Chat answers questions about a document.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
