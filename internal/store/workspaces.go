package store

import (
	"time"

	"github.com/frudas24/autoclick/internal/model"
)

// Workspaces stores workspaces under a directory.
type Workspaces struct {
	d dir
}

// NewWorkspaces returns a workspace store rooted at root.
func NewWorkspaces(root string) *Workspaces {
	return &Workspaces{d: dir{root: root, kind: "workspace"}}
}

// Load reads a workspace by name.
func (s *Workspaces) Load(name string) (model.Workspace, error) {
	var w model.Workspace
	if err := s.d.load(name, &w); err != nil {
		return model.Workspace{}, err
	}
	for i := range w.Jobs {
		w.Jobs[i].SetDelayBetweenProfiles(w.Jobs[i].DelayBetweenProfilesMs)
	}
	return w, nil
}

// Save validates and writes a workspace.
func (s *Workspaces) Save(w model.Workspace) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	w.ModifiedAt = time.Now()
	return s.d.save(w.Name, w)
}

// Names lists stored workspace names.
func (s *Workspaces) Names() ([]string, error) {
	return s.d.names()
}

// Delete removes a workspace.
func (s *Workspaces) Delete(name string) error {
	return s.d.delete(name)
}
