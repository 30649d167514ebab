package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBackendURL         = "backend.url"
	keyChatModel          = "chat.model"
	keyChatHistoryLimit   = "chat.history_limit"
	keyEditorFormatOnSave = "editor.format_on_save"
	keyEditorWatch        = "editor.watch"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			BaseURL: strings.TrimRight(s.getString(keyBackendURL, defaults.Backend.BaseURL), "/"),
		},
		Chat: domain.ChatSettings{
			Model:        s.getString(keyChatModel, defaults.Chat.Model),
			HistoryLimit: s.getInt(keyChatHistoryLimit, defaults.Chat.HistoryLimit),
		},
		Editor: domain.EditorSettings{
			FormatOnSave: s.getBool(keyEditorFormatOnSave, defaults.Editor.FormatOnSave),
			Watch:        s.getBool(keyEditorWatch, defaults.Editor.Watch),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyBackendURL, settings.Backend.BaseURL); err != nil {
		return fmt.Errorf("save backend url: %w", err)
	}
	if err := s.configStore.Set(keyChatModel, settings.Chat.Model); err != nil {
		return fmt.Errorf("save chat model: %w", err)
	}
	if err := s.configStore.Set(keyChatHistoryLimit, settings.Chat.HistoryLimit); err != nil {
		return fmt.Errorf("save chat history_limit: %w", err)
	}
	if err := s.configStore.Set(keyEditorFormatOnSave, settings.Editor.FormatOnSave); err != nil {
		return fmt.Errorf("save editor format_on_save: %w", err)
	}
	if err := s.configStore.Set(keyEditorWatch, settings.Editor.Watch); err != nil {
		return fmt.Errorf("save editor watch: %w", err)
	}

	return nil
}

// SetBackendURL updates the backend base URL.
func (s *SettingsService) SetBackendURL(rawURL string) error {
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if err := validateBackendURL(trimmed); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Backend.BaseURL = trimmed
	return s.Save(settings)
}

// SetModel updates the default chat model.
func (s *SettingsService) SetModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("%w: model must not be empty", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chat.Model = model
	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := validateBackendURL(settings.Backend.BaseURL); err != nil {
		return err
	}
	if settings.Chat.Model == "" {
		return fmt.Errorf("%w: chat model is not set", domain.ErrInvalidInput)
	}
	if settings.Chat.HistoryLimit <= 0 {
		return fmt.Errorf("%w: chat history_limit must be positive", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// validateBackendURL accepts absolute http or https URLs only.
func validateBackendURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: backend url must not be empty", domain.ErrInvalidInput)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: backend url: %v", domain.ErrInvalidInput, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: backend url must use http or https", domain.ErrInvalidInput)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: backend url is missing a host", domain.ErrInvalidInput)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
