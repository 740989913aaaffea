package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// SettingsService manages the user's model selections.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults.
	Get() domain.Settings

	// Save persists settings.
	Save(settings domain.Settings) error

	// ListModels returns the models installed on the given server.
	// An empty baseURL uses the saved one. Failures yield an empty list.
	ListModels(ctx context.Context, baseURL string) []string
}
