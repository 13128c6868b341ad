package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/frudas24/autoclick/internal/model"
)

// SaveRecording writes recorded actions to a JSON file.
func SaveRecording(path string, actions []model.RecordedAction) error {
	if actions == nil {
		actions = []model.RecordedAction{}
	}
	return writeJSON(path, actions)
}

// LoadRecording reads recorded actions written by SaveRecording.
func LoadRecording(path string) ([]model.RecordedAction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("recording %s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	var out []model.RecordedAction
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode recording %s: %w", path, err)
	}
	return out, nil
}

// Recordings stores named recordings under a directory.
type Recordings struct {
	d dir
}

// NewRecordings returns a recording store rooted at root.
func NewRecordings(root string) *Recordings {
	return &Recordings{d: dir{root: root, kind: "recording"}}
}

// Load reads a named recording.
func (s *Recordings) Load(name string) ([]model.RecordedAction, error) {
	var out []model.RecordedAction
	if err := s.d.load(name, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes a named recording.
func (s *Recordings) Save(name string, actions []model.RecordedAction) error {
	path, err := s.d.path(name)
	if err != nil {
		return err
	}
	return SaveRecording(path, actions)
}

// Names lists stored recordings.
func (s *Recordings) Names() ([]string, error) {
	return s.d.names()
}
