// Package chat provides the per-document chat view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

var errNoService = errors.New("chat service not available")

// View shows one document's summary and transcript and takes questions.
type View struct {
	ctx             context.Context
	styles          *styles.Styles
	chatService     driving.ChatService
	documentService driving.DocumentService

	viewport viewport.Model
	input    *input.Field

	document domain.DocumentSummary
	history  []domain.ChatTurn
	pending  string
	notice   string
	err      error
	width    int
	height   int
}

// NewView creates a chat view.
func NewView(s *styles.Styles, chatService driving.ChatService, documentService driving.DocumentService) *View {
	return &View{
		ctx:             context.Background(),
		styles:          s,
		chatService:     chatService,
		documentService: documentService,
		viewport:        viewport.New(80, 10),
		input:           input.NewQuestionInput(s),
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Open switches the view to doc and loads its transcript.
func (v *View) Open(doc domain.DocumentSummary) tea.Cmd {
	v.document = doc
	v.history = nil
	v.pending = ""
	v.notice = ""
	v.err = nil
	v.input.Reset()
	v.refresh()

	ctx := v.ctx
	svc := v.documentService
	id := doc.ID
	return tea.Batch(v.input.Focus(), func() tea.Msg {
		if svc == nil {
			return messages.HistoryLoaded{DocumentID: id, Err: errors.New("document service not available")}
		}
		history, err := svc.GetHistory(ctx, id)
		return messages.HistoryLoaded{DocumentID: id, History: history, Err: err}
	})
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		if msg.DocumentID != v.document.ID {
			return v, nil
		}
		v.err = msg.Err
		if msg.Err == nil {
			v.history = msg.History
		}
		v.refresh()
		return v, nil

	case messages.AnswerReceived:
		if msg.DocumentID != v.document.ID {
			return v, nil
		}
		v.pending = ""
		v.notice = ""
		v.err = msg.Err
		if msg.Err == nil && msg.Result != nil {
			if len(msg.Result.History) > len(v.history) {
				v.history = msg.Result.History
			} else {
				// transcript unchanged: the answer explains why
				v.notice = msg.Result.Answer
			}
		}
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case "enter":
		return v, v.submit()
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed question. Only one question is in flight at a time.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.pending != "" {
		return nil
	}

	v.pending = question
	v.notice = ""
	v.err = nil
	v.input.Reset()
	v.refresh()

	ctx := v.ctx
	svc := v.chatService
	id := v.document.ID
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerReceived{DocumentID: id, Err: errNoService}
		}
		result, err := svc.Chat(ctx, driving.ChatRequest{DocumentID: id, Question: question})
		return messages.AnswerReceived{DocumentID: id, Result: result, Err: err}
	}
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(v.viewport.Width-2, 20))
	var b strings.Builder

	if v.document.Summary != "" {
		b.WriteString(v.styles.Subtitle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(v.styles.Summary.Render(wrap.Render(v.document.Summary)))
		b.WriteString("\n\n")
	}

	if len(v.history) == 0 && v.pending == "" {
		b.WriteString(v.styles.Muted.Render("No messages yet. Ask something about this PDF."))
	}

	for _, turn := range v.history {
		b.WriteString(v.renderTurn(turn.Role, turn.Content, wrap))
	}

	if v.pending != "" {
		b.WriteString(v.renderTurn(domain.RoleUser, v.pending, wrap))
		b.WriteString(v.styles.Muted.Render("Thinking..."))
	}

	if v.notice != "" {
		b.WriteString(v.styles.Warning.Render(wrap.Render(v.notice)))
	}

	return b.String()
}

func (v *View) renderTurn(role domain.Role, content string, wrap lipgloss.Style) string {
	label := v.styles.UserLabel.Render("You")
	if role == domain.RoleAssistant {
		label = v.styles.AssistantLabel.Render("Assistant")
	}
	return label + "\n" + v.styles.Normal.Render(wrap.Render(content)) + "\n\n"
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	title := v.document.ID
	if v.document.Name != "" {
		title = fmt.Sprintf("%s (%s)", v.document.ID, v.document.Name)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[enter] send  [↑/↓] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// title, input box, error and help lines
	v.viewport.Width = width
	v.viewport.Height = max(height-9, 3)
	v.input.SetWidth(width)
	v.refresh()
}

// Document returns the open document.
func (v *View) Document() domain.DocumentSummary {
	return v.document
}

// History returns the displayed transcript.
func (v *View) History() []domain.ChatTurn {
	return v.history
}

// Pending returns the question awaiting an answer, if any.
func (v *View) Pending() string {
	return v.pending
}

// Notice returns the last answer that did not extend the transcript.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Input returns the question input.
func (v *View) Input() *input.Field {
	return v.input
}
