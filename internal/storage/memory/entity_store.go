// Package memory provides in-memory repository implementations for tests
// and dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matheusjv11/wongames-api/internal/catalog"
)

// EntityStore keeps reference entities of one type in memory, keyed by name.
type EntityStore struct {
	entityType catalog.EntityType

	mu      sync.RWMutex
	byName  map[string]catalog.Entity
	nextSeq int
}

// NewEntityStore creates an empty store for one entity type.
func NewEntityStore(entityType catalog.EntityType) *EntityStore {
	return &EntityStore{
		entityType: entityType,
		byName:     make(map[string]catalog.Entity),
	}
}

// FindByName returns the entity with the exact name, or nil when absent.
func (s *EntityStore) FindByName(_ context.Context, name string) (*catalog.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.byName[name]; ok {
		out := e
		return &out, nil
	}
	return nil, nil
}

// Create stores the entity and assigns a sequential ID. Like the real store,
// it does not reject a name that already exists.
func (s *EntityStore) Create(_ context.Context, entity catalog.Entity) (catalog.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	entity.ID = fmt.Sprintf("%s-%d", s.entityType, s.nextSeq)
	if entity.Type == "" {
		entity.Type = s.entityType
	}
	s.byName[entity.Name] = entity
	return entity, nil
}

// Len reports how many entities the store holds.
func (s *EntityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}

// Entities returns a copy of every stored entity.
func (s *EntityStore) Entities() []catalog.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Entity, 0, len(s.byName))
	for _, e := range s.byName {
		out = append(out, e)
	}
	return out
}
