package project_test

import (
	"testing"
	"time"

	"agenda_tui/internal/project"

	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *project.Registry {
	t.Helper()
	registry, err := project.NewRegistry(nil, nil)
	require.NoError(t, err)
	return registry
}

func TestRegistry_Add(t *testing.T) {
	registry := newTestRegistry(t)

	p, err := registry.Add("Draft", 25)
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "Draft", p.Name)
	require.Equal(t, 25*time.Minute, p.Duration)

	projects := registry.List()
	require.Len(t, projects, 1)
	require.Equal(t, p, projects[0])
}

func TestRegistry_AddRejectsInvalidInput(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.Add("", 10)
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = registry.Add("   ", 10)
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = registry.Add("X", 0)
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = registry.Add("X", -5)
	require.ErrorIs(t, err, project.ErrInvalidInput)

	require.Equal(t, 0, registry.Len())
}

func TestRegistry_InsertionOrderPreserved(t *testing.T) {
	registry := newTestRegistry(t)

	names := []string{"Draft", "Review", "Ship"}
	for _, name := range names {
		_, err := registry.Add(name, 10)
		require.NoError(t, err)
	}

	projects := registry.List()
	require.Len(t, projects, 3)
	for i, name := range names {
		require.Equal(t, name, projects[i].Name)
	}
}

func TestRegistry_EditRoundTrip(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.Add("Draft", 10)
	require.NoError(t, err)
	middle, err := registry.Add("Review", 20)
	require.NoError(t, err)
	_, err = registry.Add("Ship", 30)
	require.NoError(t, err)

	updated, err := registry.Edit(middle.ID, "Deep Review", 45)
	require.NoError(t, err)
	require.Equal(t, middle.ID, updated.ID)

	projects := registry.List()
	require.Equal(t, middle.ID, projects[1].ID)
	require.Equal(t, "Deep Review", projects[1].Name)
	require.Equal(t, 45*time.Minute, projects[1].Duration)
}

func TestRegistry_EditValidation(t *testing.T) {
	registry := newTestRegistry(t)

	p, err := registry.Add("Draft", 10)
	require.NoError(t, err)

	_, err = registry.Edit(p.ID, "", 10)
	require.ErrorIs(t, err, project.ErrInvalidInput)
	_, err = registry.Edit(p.ID, "Draft", 0)
	require.ErrorIs(t, err, project.ErrInvalidInput)
	_, err = registry.Edit("no-such-id", "Draft", 10)
	require.ErrorIs(t, err, project.ErrNotFound)

	projects := registry.List()
	require.Equal(t, "Draft", projects[0].Name)
	require.Equal(t, 10*time.Minute, projects[0].Duration)
}

func TestRegistry_Delete(t *testing.T) {
	registry := newTestRegistry(t)

	first, err := registry.Add("Draft", 10)
	require.NoError(t, err)
	second, err := registry.Add("Review", 20)
	require.NoError(t, err)

	require.NoError(t, registry.Delete(first.ID))
	require.ErrorIs(t, registry.Delete(first.ID), project.ErrNotFound)

	projects := registry.List()
	require.Len(t, projects, 1)
	require.Equal(t, second.ID, projects[0].ID)
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.Add("Draft", 10)
	require.NoError(t, err)

	projects := registry.List()
	projects[0].Name = "Mutated"

	require.Equal(t, "Draft", registry.List()[0].Name)
}
