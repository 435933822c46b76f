package project

import (
	"time"

	"github.com/google/uuid"
)

// Project is a named unit of work with a fixed countdown duration.
type Project struct {
	ID       string
	Name     string
	Duration time.Duration
}

func newProject(name string, minutes int) Project {
	return Project{
		ID:       uuid.NewString(),
		Name:     name,
		Duration: time.Duration(minutes) * time.Minute,
	}
}
