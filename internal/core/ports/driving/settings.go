package driving

import "github.com/telar-labs/weave-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetBackendURL updates the backend base URL.
	SetBackendURL(url string) error

	// SetModel updates the default chat model.
	SetModel(model string) error

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
