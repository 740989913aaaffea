// Package settings provides the model settings view for the TUI.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Field indexes.
const (
	FieldOllamaURL = iota
	FieldModel
	FieldEmbeddingModel
	fieldCount
)

var errNoService = errors.New("settings service not available")

// View edits the Ollama URL and model selections.
type View struct {
	ctx             context.Context
	styles          *styles.Styles
	settingsService driving.SettingsService

	fields  [fieldCount]*input.Field
	focused int
	models  []string
	saved   bool
	err     error
}

// NewView creates a settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	v := &View{
		ctx:             context.Background(),
		styles:          s,
		settingsService: settingsService,
	}
	v.fields[FieldOllamaURL] = input.NewField(s, "Ollama URL:      ", domain.DefaultOllamaURL)
	v.fields[FieldModel] = input.NewField(s, "Model:           ", "e.g. llama3")
	v.fields[FieldEmbeddingModel] = input.NewField(s, "Embedding model: ", "e.g. nomic-embed-text")
	return v
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Load returns a command that reads the current settings.
func (v *View) Load() tea.Cmd {
	v.saved = false
	v.err = nil
	v.models = nil
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: errNoService}
		}
		return messages.SettingsLoaded{Settings: svc.Get()}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SettingsLoaded:
		v.fields[FieldOllamaURL].SetValue(msg.Settings.OllamaURL)
		v.fields[FieldModel].SetValue(msg.Settings.Model)
		v.fields[FieldEmbeddingModel].SetValue(msg.Settings.EmbeddingModel)
		return v, v.focus(FieldOllamaURL)

	case messages.SettingsSaved:
		v.err = msg.Err
		v.saved = msg.Err == nil
		return v, nil

	case messages.ModelsLoaded:
		v.models = msg.Models
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case "tab", "down":
		return v, v.focus((v.focused + 1) % fieldCount)
	case "shift+tab", "up":
		return v, v.focus((v.focused + fieldCount - 1) % fieldCount)
	case "ctrl+f":
		return v, v.fetchModels()
	case "enter":
		return v, v.save()
	}

	v.saved = false
	var cmd tea.Cmd
	v.fields[v.focused], cmd = v.fields[v.focused].Update(msg)
	return v, cmd
}

func (v *View) focus(i int) tea.Cmd {
	for j, f := range v.fields {
		if j != i {
			f.Blur()
		}
	}
	v.focused = i
	return v.fields[i].Focus()
}

func (v *View) fetchModels() tea.Cmd {
	svc := v.settingsService
	ctx := v.ctx
	url := strings.TrimSpace(v.fields[FieldOllamaURL].Value())
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: errNoService}
		}
		return messages.ModelsLoaded{Models: svc.ListModels(ctx, url)}
	}
}

func (v *View) save() tea.Cmd {
	svc := v.settingsService
	settings := v.Settings()
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoService}
		}
		return messages.SettingsSaved{Err: svc.Save(settings)}
	}
}

// Settings returns the values currently in the form.
func (v *View) Settings() domain.Settings {
	return domain.Settings{
		OllamaURL:      strings.TrimSpace(v.fields[FieldOllamaURL].Value()),
		Model:          strings.TrimSpace(v.fields[FieldModel].Value()),
		EmbeddingModel: strings.TrimSpace(v.fields[FieldEmbeddingModel].Value()),
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.models != nil {
		if len(v.models) == 0 {
			b.WriteString(v.styles.Warning.Render("No models found. Is Ollama running at that URL?"))
		} else {
			b.WriteString(v.styles.Subtitle.Render("Installed models"))
			b.WriteString("\n")
			for _, m := range v.models {
				b.WriteString(v.styles.Normal.Render("  " + m))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	case v.saved:
		b.WriteString(v.styles.Success.Render("Settings saved."))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render("[tab] next field  [ctrl+f] fetch models  [enter] save  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	for _, f := range v.fields {
		f.SetWidth(width)
	}
}

// Focused returns the index of the focused field.
func (v *View) Focused() int {
	return v.focused
}

// Models returns the last fetched model list.
func (v *View) Models() []string {
	return v.models
}

// Saved reports whether the last save succeeded.
func (v *View) Saved() bool {
	return v.saved
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
