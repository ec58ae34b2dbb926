package identity

import (
	"os"
	"path/filepath"
	"strings"
)

// FileStash persists the refresh token in a plain file, the desktop analogue
// of the browser's redirect-result storage.
type FileStash struct {
	path string
}

func NewFileStash(path string) *FileStash {
	return &FileStash{path: path}
}

func (s *FileStash) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStash) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileStash) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var _ TokenStash = (*FileStash)(nil)
