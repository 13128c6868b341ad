package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frudas24/autoclick/internal/model"
	"gopkg.in/yaml.v3"
)

// Profiles stores profiles under a directory.
type Profiles struct {
	d dir
}

// NewProfiles returns a profile store rooted at root.
func NewProfiles(root string) *Profiles {
	return &Profiles{d: dir{root: root, kind: "profile"}}
}

// Load reads a profile by name. Missing profiles wrap ErrNotFound.
func (s *Profiles) Load(name string) (model.Profile, error) {
	var p model.Profile
	if err := s.d.load(name, &p); err != nil {
		return model.Profile{}, err
	}
	return normalizeProfile(p), nil
}

// Save validates and writes a profile, stamping its modification time.
func (s *Profiles) Save(p model.Profile) error {
	p = normalizeProfile(p)
	if err := p.Validate(); err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.ModifiedAt = time.Now()
	return s.d.save(p.Name, p)
}

// Names lists stored profile names.
func (s *Profiles) Names() ([]string, error) {
	return s.d.names()
}

// Delete removes a profile. Deleting a missing profile is not an error.
func (s *Profiles) Delete(name string) error {
	return s.d.delete(name)
}

// Export writes a profile to path. A .yaml or .yml extension selects YAML,
// anything else JSON.
func (s *Profiles) Export(p model.Profile, path string) error {
	if !isYAML(path) {
		return writeJSON(path, p)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Import reads a profile exported by Export. It does not save it.
func (s *Profiles) Import(path string) (model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Profile{}, err
	}
	var p model.Profile
	if isYAML(path) {
		err = yaml.Unmarshal(data, &p)
	} else {
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	p = normalizeProfile(p)
	if err := p.Validate(); err != nil {
		return model.Profile{}, fmt.Errorf("import %s: %w", path, err)
	}
	return p, nil
}

func normalizeProfile(p model.Profile) model.Profile {
	if len(p.Actions) == 0 {
		return p
	}
	actions := make([]model.ActionItem, len(p.Actions))
	for i, a := range p.Actions {
		actions[i] = a.Normalize()
	}
	p.Actions = actions
	if p.LoopCount < 0 {
		p.LoopCount = 0
	}
	return p
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
