// Package prefs persists small per-device preferences as a JSON file.
package prefs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type prefsFile struct {
	Theme string `json:"theme,omitempty"`
}

// FileStore reads and writes preferences at a fixed path. A missing file
// behaves as all-defaults.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Theme returns the stored theme, defaulting to light when unset or when
// the stored value is not a known theme.
func (s *FileStore) Theme() string {
	var p prefsFile
	if err := s.read(&p); err != nil {
		return ThemeLight
	}
	if p.Theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (s *FileStore) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return errors.New("prefs: unknown theme " + theme)
	}
	var p prefsFile
	if err := s.read(&p); err != nil {
		return err
	}
	p.Theme = theme
	return s.write(p)
}

func (s *FileStore) read(p *prefsFile) error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, p)
}

func (s *FileStore) write(p prefsFile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
