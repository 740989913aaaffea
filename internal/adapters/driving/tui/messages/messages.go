// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists uploaded PDFs.
	ViewDocuments ViewType = iota
	// ViewChat shows a document's summary and transcript with a question input.
	ViewChat
	// ViewSettings edits the Ollama URL and model selections.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewChat:
		return "chat"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// DocumentsLoaded carries the document list.
type DocumentsLoaded struct {
	Documents []domain.DocumentSummary
	Err       error
}

// DocumentSelected signals a document was opened for chat.
type DocumentSelected struct {
	Document domain.DocumentSummary
}

// DocumentDeleted signals a document was removed.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// HistoryLoaded carries a document's transcript.
type HistoryLoaded struct {
	DocumentID string
	History    []domain.ChatTurn
	Err        error
}

// AnswerReceived carries the outcome of a question.
type AnswerReceived struct {
	DocumentID string
	Result     *domain.ChatResult
	Err        error
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings domain.Settings
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}

// ModelsLoaded carries the models installed on the Ollama server.
type ModelsLoaded struct {
	Models []string
}
