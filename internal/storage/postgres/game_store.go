package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matheusjv11/wongames-api/internal/catalog"
)

// GameStore implements catalog.GameRepository. It assumes a schema like:
//
//	CREATE TABLE games (
//		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//		title TEXT NOT NULL,
//		slug TEXT NOT NULL,
//		price DOUBLE PRECISION NOT NULL,
//		release_date TIMESTAMPTZ NOT NULL,
//		categories JSONB NOT NULL,
//		platforms JSONB NOT NULL,
//		developers JSONB NOT NULL,
//		publisher JSONB NOT NULL,
//		rating TEXT NOT NULL,
//		short_description TEXT NOT NULL,
//		description TEXT NOT NULL,
//		created_at TIMESTAMPTZ DEFAULT NOW()
//	);
//
// Title uniqueness is enforced by the existence check in the assembler, not
// by a store-level constraint.
type GameStore struct {
	pool queryRower
}

// NewGameStore constructs a GameStore.
func NewGameStore(pool queryRower) (*GameStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &GameStore{pool: pool}, nil
}

// FindByTitle returns the game with the exact title, or nil when absent.
// Only the identifying columns are loaded; the caller uses the result as an
// existence check.
func (s *GameStore) FindByTitle(ctx context.Context, title string) (*catalog.Game, error) {
	query := `SELECT id, title, slug FROM games WHERE title = $1 LIMIT 1`

	var game catalog.Game
	err := s.pool.QueryRow(ctx, query, title).Scan(&game.ID, &game.Title, &game.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select game: %w", err)
	}
	return &game, nil
}

// Create inserts the game and returns it with the generated ID. The
// reference lists are stored as JSONB.
func (s *GameStore) Create(ctx context.Context, game catalog.Game) (catalog.Game, error) {
	categories, err := marshalRefs(game.Categories)
	if err != nil {
		return catalog.Game{}, fmt.Errorf("marshal categories: %w", err)
	}
	platforms, err := marshalRefs(game.Platforms)
	if err != nil {
		return catalog.Game{}, fmt.Errorf("marshal platforms: %w", err)
	}
	developers, err := marshalRefs(game.Developers)
	if err != nil {
		return catalog.Game{}, fmt.Errorf("marshal developers: %w", err)
	}
	publisher, err := json.Marshal(game.Publisher)
	if err != nil {
		return catalog.Game{}, fmt.Errorf("marshal publisher: %w", err)
	}

	query := `
INSERT INTO games (
	title,
	slug,
	price,
	release_date,
	categories,
	platforms,
	developers,
	publisher,
	rating,
	short_description,
	description
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) RETURNING id`

	err = s.pool.QueryRow(ctx, query,
		game.Title,
		game.Slug,
		game.Price,
		game.ReleaseDate,
		categories,
		platforms,
		developers,
		publisher,
		game.Rating,
		game.ShortDescription,
		game.Description,
	).Scan(&game.ID)
	if err != nil {
		return catalog.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return game, nil
}

func marshalRefs(refs []catalog.Entity) ([]byte, error) {
	if refs == nil {
		refs = []catalog.Entity{}
	}
	return json.Marshal(refs)
}
