package project

import "errors"

var (
	// ErrInvalidInput indicates a missing name or non-positive duration.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrNotFound indicates no project with the given id exists.
	ErrNotFound = errors.New("project not found")
)
