// Package documents provides the document list view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

var errNoService = errors.New("document service not available")

// View lists uploaded PDFs.
type View struct {
	ctx             context.Context
	styles          *styles.Styles
	documentService driving.DocumentService

	documents     []domain.DocumentSummary
	selected      int
	scrollOffset  int
	width         int
	height        int
	loading       bool
	confirmDelete bool
	err           error
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	return &View{
		ctx:             context.Background(),
		styles:          s,
		documentService: documentService,
		documents:       []domain.DocumentSummary{},
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	return v.Reload()
}

// Reload returns a command that fetches the document list.
func (v *View) Reload() tea.Cmd {
	v.loading = true
	ctx := v.ctx
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: errNoService}
		}
		docs, err := svc.ListDocuments(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.confirmDelete {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.documents = msg.Documents
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Reload()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if doc := v.SelectedDocument(); doc != nil {
			selected := *doc
			return v, func() tea.Msg {
				return messages.DocumentSelected{Document: selected}
			}
		}
	case "d":
		if len(v.documents) > 0 {
			v.confirmDelete = true
		}
	case "r":
		return v, v.Reload()
	case "s":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSettings}
		}
	}

	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirmDelete = false
	if msg.String() != "y" {
		return v, nil
	}

	doc := v.SelectedDocument()
	if doc == nil {
		return v, nil
	}
	id := doc.ID
	ctx := v.ctx
	svc := v.documentService
	return v, func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{DocumentID: id, Err: errNoService}
		}
		return messages.DocumentDeleted{DocumentID: id, Err: svc.Delete(ctx, id)}
	}
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, blank line, preview block and help
	available := (v.height - 10) / 2
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("PDFs (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading && len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No PDFs yet. Run 'pdfchat ingest <file.pdf>' to add one."))
	default:
		v.renderList(&b)
	}

	b.WriteString("\n\n")
	if v.confirmDelete {
		if doc := v.SelectedDocument(); doc != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %s? [y] yes  [any key] cancel", doc.ID)))
			return b.String()
		}
	}
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] chat  [d] delete  [r] reload  [s] settings  [q] quit"))
	return b.String()
}

func (v *View) renderList(b *strings.Builder) {
	visible := v.visibleItemCount()
	end := min(v.scrollOffset+visible, len(v.documents))
	for i := v.scrollOffset; i < end; i++ {
		doc := v.documents[i]
		line := fmt.Sprintf("%s  %s", doc.ID, doc.Name)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("    " + v.preview(doc.Summary)))
		b.WriteString("\n")
	}

	if len(v.documents) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, end, len(v.documents))))
	}
}

// preview returns the first summary line cut to the view width.
func (v *View) preview(summary string) string {
	line := strings.TrimSpace(summary)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	limit := v.width - 8
	if limit < 20 {
		limit = 20
	}
	if r := []rune(line); len(r) > limit {
		line = string(r[:limit-3]) + "..."
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.DocumentSummary {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsConfirmingDelete reports whether a delete awaits confirmation.
func (v *View) IsConfirmingDelete() bool {
	return v.confirmDelete
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
