package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	settingsout "srs/internal/modules/settings/port/out"
	apperrors "srs/internal/platform/errors"
)

// FileSettingsStore keeps settings in the plugin data file layout:
// {"settings": {...}}. Other top-level keys in the file are preserved.
type FileSettingsStore struct {
	path string
}

func NewFileSettingsStore(path string) settingsout.Store {
	return &FileSettingsStore{path: path}
}

func (s *FileSettingsStore) Path() string {
	return s.path
}

func (s *FileSettingsStore) Read(_ context.Context) (map[string]any, bool, error) {
	doc, ok, err := s.readDocument()
	if err != nil || !ok {
		return nil, ok, err
	}
	raw, _ := doc["settings"].(map[string]any)
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, true, nil
}

func (s *FileSettingsStore) Write(_ context.Context, raw map[string]any) error {
	doc, _, err := s.readDocument()
	if err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	doc["settings"] = raw
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.Store("create settings dir", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(encoded, '\n'), 0o644); err != nil {
		return apperrors.Store("write settings", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperrors.Store("replace settings", err)
	}
	return nil
}

func (s *FileSettingsStore) readDocument() (map[string]any, bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Store("read settings", err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("%w: parse %s: %v", apperrors.ErrInvalidInput, s.path, err)
	}
	return doc, true, nil
}
