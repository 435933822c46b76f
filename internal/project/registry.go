package project

import (
	"log/slog"
	"strings"
	"time"
)

// Store persists registry contents between sessions. A nil Store leaves the
// registry purely in-memory.
type Store interface {
	LoadProjects() ([]Project, error)
	SaveProject(p Project) error
	UpdateProject(p Project) error
	DeleteProject(id string) error
}

// Registry owns the ordered list of user-defined projects. The countdown
// engine only ever sees a copy of this list, never the registry itself.
type Registry struct {
	projects []Project
	store    Store
	logger   *slog.Logger
}

// NewRegistry creates a registry, loading any previously saved projects from
// the store. The store and logger may both be nil.
func NewRegistry(store Store, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{store: store, logger: logger}
	if store != nil {
		projects, err := store.LoadProjects()
		if err != nil {
			return nil, err
		}
		r.projects = projects
	}
	return r, nil
}

// Add appends a new project. The registry is left unchanged when the name is
// blank or the duration is not a positive number of minutes.
func (r *Registry) Add(name string, minutes int) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" || minutes <= 0 {
		return Project{}, ErrInvalidInput
	}

	p := newProject(name, minutes)
	r.projects = append(r.projects, p)
	if r.store != nil {
		if err := r.store.SaveProject(p); err != nil {
			r.logger.Warn("saving project", "id", p.ID, "error", err)
		}
	}
	return p, nil
}

// Edit replaces the name and duration of the project with the given id,
// keeping its position and id. Validation failures and unknown ids leave the
// registry unchanged.
func (r *Registry) Edit(id, name string, minutes int) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" || minutes <= 0 {
		return Project{}, ErrInvalidInput
	}

	for i := range r.projects {
		if r.projects[i].ID != id {
			continue
		}
		r.projects[i].Name = name
		r.projects[i].Duration = time.Duration(minutes) * time.Minute
		if r.store != nil {
			if err := r.store.UpdateProject(r.projects[i]); err != nil {
				r.logger.Warn("updating project", "id", id, "error", err)
			}
		}
		return r.projects[i], nil
	}
	return Project{}, ErrNotFound
}

// Delete removes the project with the given id.
func (r *Registry) Delete(id string) error {
	for i := range r.projects {
		if r.projects[i].ID != id {
			continue
		}
		r.projects = append(r.projects[:i], r.projects[i+1:]...)
		if r.store != nil {
			if err := r.store.DeleteProject(id); err != nil {
				r.logger.Warn("deleting project", "id", id, "error", err)
			}
		}
		return nil
	}
	return ErrNotFound
}

// List returns the projects in insertion order. The returned slice is a copy;
// callers cannot mutate registry state through it.
func (r *Registry) List() []Project {
	out := make([]Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// Len reports the number of registered projects.
func (r *Registry) Len() int {
	return len(r.projects)
}
