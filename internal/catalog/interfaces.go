package catalog

import (
	"context"
	"fmt"
	"io"
	"time"
)

// EntityRepository stores reference entities of a single type.
// FindByName returns nil when no entity carries the name.
type EntityRepository interface {
	FindByName(ctx context.Context, name string) (*Entity, error)
	Create(ctx context.Context, entity Entity) (Entity, error)
}

// GameRepository stores materialized game records.
// FindByTitle returns nil when no game carries the title.
type GameRepository interface {
	FindByTitle(ctx context.Context, title string) (*Game, error)
	Create(ctx context.Context, game Game) (Game, error)
}

// CatalogClient fetches one page of raw product records.
type CatalogClient interface {
	FetchPage(ctx context.Context) ([]Product, error)
}

// Enricher scrapes description content for a product identified by its slug.
type Enricher interface {
	Fetch(ctx context.Context, slug string) (Enrichment, error)
}

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// Publisher pushes run events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

// Repositories holds one statically-typed repository per reference entity
// kind, replacing any name-keyed service lookup with an enumerated mapping.
type Repositories struct {
	Developers EntityRepository
	Publishers EntityRepository
	Categories EntityRepository
	Platforms  EntityRepository
}

// ByType maps an entity type to its repository.
func (r Repositories) ByType(t EntityType) (EntityRepository, error) {
	switch t {
	case EntityDeveloper:
		return r.Developers, nil
	case EntityPublisher:
		return r.Publishers, nil
	case EntityCategory:
		return r.Categories, nil
	case EntityPlatform:
		return r.Platforms, nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", t)
	}
}
