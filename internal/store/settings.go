package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/frudas24/autoclick/internal/model"
)

// Settings persists the last used targets and tool settings in one JSON file.
type Settings struct {
	path string
	mu   sync.Mutex
}

// NewSettings returns a settings store backed by path.
func NewSettings(path string) *Settings {
	return &Settings{path: path}
}

// Load reads the settings. A missing file yields defaults; fields absent from
// the file keep their defaults.
func (s *Settings) Load() (model.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Settings) load() (model.AppSettings, error) {
	out := model.NewAppSettings()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return model.NewAppSettings(), fmt.Errorf("decode settings %s: %w", s.path, err)
	}
	return out, nil
}

// Update applies fn to the stored settings and writes the result. A corrupt
// file is replaced.
func (s *Settings) Update(fn func(*model.AppSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, _ := s.load()
	fn(&cur)
	return writeJSON(s.path, cur)
}
