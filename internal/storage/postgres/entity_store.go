package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matheusjv11/wongames-api/internal/catalog"
)

// EntityStore implements catalog.EntityRepository for one entity type over
// a shared entities table. It assumes a schema like:
//
//	CREATE TABLE entities (
//		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//		type TEXT NOT NULL,
//		name TEXT NOT NULL,
//		slug TEXT NOT NULL,
//		created_at TIMESTAMPTZ DEFAULT NOW()
//	);
//
// There is deliberately no unique constraint on (type, name): the pipeline
// checks existence before creating, and a concurrent duplicate insert is
// tolerated rather than rejected.
type EntityStore struct {
	pool       queryRower
	entityType catalog.EntityType
}

// NewEntityStore constructs a store scoped to one entity type.
func NewEntityStore(pool queryRower, entityType catalog.EntityType) (*EntityStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	switch entityType {
	case catalog.EntityDeveloper, catalog.EntityPublisher, catalog.EntityCategory, catalog.EntityPlatform:
	default:
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}
	return &EntityStore{pool: pool, entityType: entityType}, nil
}

// FindByName returns the entity with the exact name, or nil when absent.
func (s *EntityStore) FindByName(ctx context.Context, name string) (*catalog.Entity, error) {
	query := `SELECT id, name, slug FROM entities WHERE type = $1 AND name = $2 LIMIT 1`

	entity := catalog.Entity{Type: s.entityType}
	err := s.pool.QueryRow(ctx, query, string(s.entityType), name).
		Scan(&entity.ID, &entity.Name, &entity.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select entity: %w", err)
	}
	return &entity, nil
}

// Create inserts the entity and returns it with the generated ID.
func (s *EntityStore) Create(ctx context.Context, entity catalog.Entity) (catalog.Entity, error) {
	query := `INSERT INTO entities (type, name, slug) VALUES ($1, $2, $3) RETURNING id`

	entity.Type = s.entityType
	err := s.pool.QueryRow(ctx, query, string(s.entityType), entity.Name, entity.Slug).
		Scan(&entity.ID)
	if err != nil {
		return catalog.Entity{}, fmt.Errorf("insert entity: %w", err)
	}
	return entity, nil
}
