package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matheusjv11/wongames-api/internal/catalog"
)

// GameStore keeps game records in memory, keyed by title.
type GameStore struct {
	mu      sync.RWMutex
	byTitle map[string]catalog.Game
	creates int
}

// NewGameStore creates an empty game store.
func NewGameStore() *GameStore {
	return &GameStore{byTitle: make(map[string]catalog.Game)}
}

// FindByTitle returns the game with the exact title, or nil when absent.
func (s *GameStore) FindByTitle(_ context.Context, title string) (*catalog.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.byTitle[title]; ok {
		out := g
		return &out, nil
	}
	return nil, nil
}

// Create stores the game and assigns a sequential ID.
func (s *GameStore) Create(_ context.Context, game catalog.Game) (catalog.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	game.ID = fmt.Sprintf("game-%d", s.creates)
	s.byTitle[game.Title] = game
	return game, nil
}

// CreateCalls reports how many creates the store has seen.
func (s *GameStore) CreateCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creates
}

// Len reports how many games the store holds.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byTitle)
}
