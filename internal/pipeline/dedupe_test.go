package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matheusjv11/wongames-api/internal/catalog"
	"github.com/matheusjv11/wongames-api/internal/resolver"
	"github.com/matheusjv11/wongames-api/internal/storage/memory"
)

type testStores struct {
	developers *memory.EntityStore
	publishers *memory.EntityStore
	categories *memory.EntityStore
	platforms  *memory.EntityStore
}

func newTestStores() (catalog.Repositories, testStores) {
	stores := testStores{
		developers: memory.NewEntityStore(catalog.EntityDeveloper),
		publishers: memory.NewEntityStore(catalog.EntityPublisher),
		categories: memory.NewEntityStore(catalog.EntityCategory),
		platforms:  memory.NewEntityStore(catalog.EntityPlatform),
	}
	return catalog.Repositories{
		Developers: stores.developers,
		Publishers: stores.publishers,
		Categories: stores.categories,
		Platforms:  stores.platforms,
	}, stores
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{
			Title:                     "The Witcher 3: Wild Hunt",
			Developer:                 "CD PROJEKT RED",
			Publisher:                 "CD PROJEKT RED",
			Genres:                    []string{"Role-playing", "Adventure"},
			SupportedOperatingSystems: []string{"windows", "linux"},
		},
		{
			Title:                     "Cyberpunk 2077",
			Developer:                 "CD PROJEKT RED",
			Publisher:                 "CD PROJEKT RED",
			Genres:                    []string{"Role-playing"},
			SupportedOperatingSystems: []string{"windows"},
		},
	}
}

func TestMaterializeReferencesDeduplicatesAcrossBatch(t *testing.T) {
	t.Parallel()

	repos, stores := newTestStores()
	d := NewDeduplicator(resolver.New(repos, nil), nil)

	err := d.MaterializeReferences(context.Background(), testProducts())
	require.NoError(t, err)

	// The developer and publisher repeat across both products and within
	// each product's fields; only the distinct values are created.
	require.Equal(t, 1, stores.developers.Len())
	require.Equal(t, 1, stores.publishers.Len())
	require.Equal(t, 2, stores.categories.Len())
	require.Equal(t, 2, stores.platforms.Len())
}

func TestMaterializeReferencesIdempotent(t *testing.T) {
	t.Parallel()

	repos, stores := newTestStores()
	d := NewDeduplicator(resolver.New(repos, nil), nil)

	require.NoError(t, d.MaterializeReferences(context.Background(), testProducts()))
	require.NoError(t, d.MaterializeReferences(context.Background(), testProducts()))

	require.Equal(t, 1, stores.developers.Len())
	require.Equal(t, 2, stores.categories.Len())
}

func TestMaterializeReferencesIgnoresEmptyFields(t *testing.T) {
	t.Parallel()

	repos, stores := newTestStores()
	d := NewDeduplicator(resolver.New(repos, nil), nil)

	products := []catalog.Product{
		{Title: "No Metadata", Genres: []string{""}, SupportedOperatingSystems: nil},
	}
	require.NoError(t, d.MaterializeReferences(context.Background(), products))

	require.Equal(t, 0, stores.developers.Len())
	require.Equal(t, 0, stores.publishers.Len())
	require.Equal(t, 0, stores.categories.Len())
	require.Equal(t, 0, stores.platforms.Len())
}

type brokenRepo struct {
	err error
}

func (b *brokenRepo) FindByName(context.Context, string) (*catalog.Entity, error) {
	return nil, b.err
}

func (b *brokenRepo) Create(context.Context, catalog.Entity) (catalog.Entity, error) {
	return catalog.Entity{}, b.err
}

func TestMaterializeReferencesAllOrNothing(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("developers table unavailable")
	repos, _ := newTestStores()
	repos.Developers = &brokenRepo{err: storeErr}

	d := NewDeduplicator(resolver.New(repos, nil), nil)
	err := d.MaterializeReferences(context.Background(), testProducts())
	require.ErrorIs(t, err, storeErr)
}
