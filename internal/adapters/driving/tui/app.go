package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	documentsView *documents.View
	chatView      *chat.View
	settingsView  *settings.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingDocumentService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s)
	bar.SetBindings(km.DocumentsHelp())

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		documentsView: documents.NewView(s, ports.Document),
		chatView:      chat.NewView(s, ports.Chat, ports.Document),
		settingsView:  settings.NewView(s, ports.Settings),
		statusBar:     bar,
		currentView:   messages.ViewDocuments,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.SetContext(ctx)
	a.chatView.SetContext(ctx)
	a.settingsView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("pdfchat"),
		a.documentsView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// one line for the status bar
		a.documentsView.SetDimensions(msg.Width, msg.Height-1)
		a.chatView.SetDimensions(msg.Width, msg.Height-1)
		a.settingsView.SetDimensions(msg.Width, msg.Height-1)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewDocuments && keymap.Matches(msg.String(), a.keymap.Quit) &&
			!a.documentsView.IsConfirmingDelete() {
			return a, tea.Quit
		}
		return a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.DocumentSelected:
		a.setView(messages.ViewChat)
		return a, a.chatView.Open(msg.Document)

	case messages.DocumentsLoaded:
		a.showResult(msg.Err)
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentDeleted:
		a.showResult(msg.Err)
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded:
		a.showResult(msg.Err)
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.AnswerReceived:
		a.showResult(msg.Err)
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.ModelsLoaded:
		a.statusBar.Clear()
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.showResult(msg.Err)
		if msg.Err == nil {
			a.statusBar.SetMessage("Settings saved")
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.showResult(msg.Err)
		if a.currentView == messages.ViewSettings {
			a.settingsView, cmd = a.settingsView.Update(msg)
		}
		return a, cmd
	}

	return a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
		if a.chatView.Pending() != "" {
			a.statusBar.SetState(status.StateThinking)
		}
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	}

	return a, cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.setView(view)
	switch view {
	case messages.ViewDocuments:
		return a.documentsView.Reload()
	case messages.ViewSettings:
		return a.settingsView.Load()
	case messages.ViewChat:
		return nil
	}
	return nil
}

func (a *App) setView(view messages.ViewType) {
	a.currentView = view
	a.statusBar.Clear()
	switch view {
	case messages.ViewDocuments:
		a.statusBar.SetBindings(a.keymap.DocumentsHelp())
	case messages.ViewChat:
		a.statusBar.SetBindings(a.keymap.ChatHelp())
	case messages.ViewSettings:
		a.statusBar.SetBindings(a.keymap.SettingsHelp())
	}
}

func (a *App) showResult(err error) {
	if err != nil {
		a.statusBar.SetError(err)
		return
	}
	a.statusBar.Clear()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	default:
		body = a.documentsView.View()
	}

	body = lipgloss.NewStyle().Height(max(a.height-1, 0)).MaxHeight(max(a.height-1, 0)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ports returns the configured ports.
func (a *App) Ports() *Ports {
	return a.ports
}

// Context returns the context used for service calls.
func (a *App) Context() context.Context {
	return a.ctx
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// ChatView returns the chat view.
func (a *App) ChatView() *chat.View {
	return a.chatView
}

// DocumentsView returns the documents view.
func (a *App) DocumentsView() *documents.View {
	return a.documentsView
}

// SettingsView returns the settings view.
func (a *App) SettingsView() *settings.View {
	return a.settingsView
}
