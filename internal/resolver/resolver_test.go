package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matheusjv11/wongames-api/internal/catalog"
	"github.com/matheusjv11/wongames-api/internal/storage/memory"
)

func newTestRepos() (catalog.Repositories, *memory.EntityStore) {
	developers := memory.NewEntityStore(catalog.EntityDeveloper)
	return catalog.Repositories{
		Developers: developers,
		Publishers: memory.NewEntityStore(catalog.EntityPublisher),
		Categories: memory.NewEntityStore(catalog.EntityCategory),
		Platforms:  memory.NewEntityStore(catalog.EntityPlatform),
	}, developers
}

func TestResolveCreatesWhenAbsent(t *testing.T) {
	t.Parallel()

	repos, developers := newTestRepos()
	r := New(repos, nil)

	got, err := r.Resolve(context.Background(), catalog.EntityDeveloper, "CD PROJEKT RED")
	require.NoError(t, err)
	require.Equal(t, "CD PROJEKT RED", got.Name)
	require.Equal(t, "cd-projekt-red", got.Slug)
	require.Equal(t, catalog.EntityDeveloper, got.Type)
	require.NotEmpty(t, got.ID)
	require.Equal(t, 1, developers.Len())
}

func TestResolveReturnsExistingUnchanged(t *testing.T) {
	t.Parallel()

	repos, developers := newTestRepos()
	seeded, err := developers.Create(context.Background(), catalog.Entity{
		Type: catalog.EntityDeveloper,
		Name: "Valve",
		Slug: "legacy-valve-slug",
	})
	require.NoError(t, err)

	r := New(repos, nil)
	got, err := r.Resolve(context.Background(), catalog.EntityDeveloper, "Valve")
	require.NoError(t, err)

	// The stored slug wins even though slug.Make would produce "valve".
	require.Equal(t, seeded, got)
	require.Equal(t, 1, developers.Len())
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()

	repos, developers := newTestRepos()
	r := New(repos, nil)

	first, err := r.Resolve(context.Background(), catalog.EntityDeveloper, "Remedy")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), catalog.EntityDeveloper, "Remedy")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, developers.Len())
}

func TestResolveUnknownType(t *testing.T) {
	t.Parallel()

	repos, _ := newTestRepos()
	r := New(repos, nil)

	_, err := r.Resolve(context.Background(), catalog.EntityType("studio"), "Remedy")
	require.Error(t, err)
}

type failingRepo struct {
	findErr   error
	createErr error
}

func (f *failingRepo) FindByName(context.Context, string) (*catalog.Entity, error) {
	return nil, f.findErr
}

func (f *failingRepo) Create(context.Context, catalog.Entity) (catalog.Entity, error) {
	return catalog.Entity{}, f.createErr
}

func TestResolvePropagatesRepositoryErrors(t *testing.T) {
	t.Parallel()

	findErr := errors.New("store unavailable")
	repos, _ := newTestRepos()
	repos.Publishers = &failingRepo{findErr: findErr}

	r := New(repos, nil)
	_, err := r.Resolve(context.Background(), catalog.EntityPublisher, "Devolver")
	require.ErrorIs(t, err, findErr)

	createErr := errors.New("insert rejected")
	repos.Publishers = &failingRepo{createErr: createErr}
	r = New(repos, nil)
	_, err = r.Resolve(context.Background(), catalog.EntityPublisher, "Devolver")
	require.ErrorIs(t, err, createErr)
}
