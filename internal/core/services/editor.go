package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
	"github.com/telar-labs/weave-cli/internal/logger"
)

// Ensure EditorService implements the interface.
var _ driving.EditorService = (*EditorService)(nil)

// EditorService drives the fragment editing workflow: open an
// annotated file, splice an edited composite back, and move query
// code between local files and the backend.
type EditorService struct {
	sync      driving.SyncService
	directory driven.BackendDirectory
	settings  driving.SettingsService
}

// NewEditorService creates a new editor service. directory may be nil
// for offline use; Pull and Push then fail with ErrBackendUnavailable.
func NewEditorService(sync driving.SyncService, directory driven.BackendDirectory, settings driving.SettingsService) *EditorService {
	return &EditorService{
		sync:      sync,
		directory: directory,
		settings:  settings,
	}
}

// OpenFile reads an annotated file and extracts its fragments.
func (s *EditorService) OpenFile(path string) (*driving.SourceFileView, error) {
	source, err := readSource(path)
	if err != nil {
		return nil, err
	}

	fragments := s.sync.Locate(source)
	return &driving.SourceFileView{
		Path:      path,
		Source:    source,
		Fragments: fragments,
		Composite: s.sync.Combine(fragments),
	}, nil
}

// SaveComposite splices an edited composite back into the file,
// preserving every non-fragment line. With format_on_save enabled the
// composite is formatted first.
func (s *EditorService) SaveComposite(path string, edited string) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	if s.formatOnSave() {
		edited = s.sync.Format(edited)
	}

	fragments := s.sync.Locate(source)
	updated := s.sync.Split(source, fragments, edited)
	return writeSource(path, updated)
}

// FormatComposite returns the file's composite, formatted.
func (s *EditorService) FormatComposite(path string) (string, error) {
	view, err := s.OpenFile(path)
	if err != nil {
		return "", err
	}
	return s.sync.Format(view.Composite), nil
}

// Pull writes a backend query's annotated source to a local file.
func (s *EditorService) Pull(ctx context.Context, queryID, path string) error {
	if s.directory == nil {
		return fmt.Errorf("%w: no backend configured", domain.ErrBackendUnavailable)
	}
	if queryID == "" {
		return fmt.Errorf("%w: query id is empty", domain.ErrInvalidInput)
	}

	query, err := s.directory.GetQuery(ctx, queryID)
	if err != nil {
		return err
	}
	if err := writeSource(path, query.Code); err != nil {
		return err
	}

	logger.Info("Pulled query %s (%s) to %s", query.ID, query.Name, path)
	return nil
}

// Push sends a local file's content back to a backend query.
func (s *EditorService) Push(ctx context.Context, path, queryID string) (domain.Query, error) {
	if s.directory == nil {
		return domain.Query{}, fmt.Errorf("%w: no backend configured", domain.ErrBackendUnavailable)
	}
	if queryID == "" {
		return domain.Query{}, fmt.Errorf("%w: query id is empty", domain.ErrInvalidInput)
	}

	source, err := readSource(path)
	if err != nil {
		return domain.Query{}, err
	}

	query, err := s.directory.GetQuery(ctx, queryID)
	if err != nil {
		return domain.Query{}, err
	}
	query.Code = source

	saved, err := s.directory.SaveQuery(ctx, query)
	if err != nil {
		return domain.Query{}, err
	}

	logger.Info("Pushed %s to query %s (%s)", path, saved.ID, saved.Name)
	return saved, nil
}

// formatOnSave reads the editor setting, defaulting to true when
// settings are unavailable.
func (s *EditorService) formatOnSave() bool {
	if s.settings == nil {
		return true
	}
	settings, err := s.settings.Get()
	if err != nil {
		return true
	}
	return settings.Editor.FormatOnSave
}

// readSource loads a file, mapping a missing file to ErrNotFound.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeSource stores content, keeping the file's existing mode.
func writeSource(path, content string) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
