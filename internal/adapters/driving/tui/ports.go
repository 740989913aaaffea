// Package tui provides an interactive terminal user interface for pdfchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document lists and deletes documents and reads transcripts.
	Document driving.DocumentService

	// Chat answers questions.
	Chat driving.ChatService

	// Settings reads and saves model selections.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
