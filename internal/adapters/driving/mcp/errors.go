// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfchat.
// It lets AI assistants list uploaded PDFs, read their summaries and ask
// questions answered from the document content.
package mcp

import "errors"

var (
	// ErrMissingDocumentService is returned when the document service is not provided.
	ErrMissingDocumentService = errors.New("mcp: document service is required")

	// ErrMissingChatService is returned when the chat service is not provided.
	ErrMissingChatService = errors.New("mcp: chat service is required")
)
