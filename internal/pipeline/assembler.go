package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matheusjv11/wongames-api/internal/catalog"
	"github.com/matheusjv11/wongames-api/internal/metrics"
	"github.com/matheusjv11/wongames-api/internal/resolver"
)

// Assembler materializes one game record per catalog product, joining
// resolved references with scraped enrichment data.
type Assembler struct {
	resolver *resolver.Resolver
	enricher catalog.Enricher
	games    catalog.GameRepository
	logger   *zap.Logger
}

// NewAssembler constructs an Assembler.
func NewAssembler(res *resolver.Resolver, enricher catalog.Enricher, games catalog.GameRepository, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		resolver: res,
		enricher: enricher,
		games:    games,
		logger:   logger,
	}
}

// MaterializeGame creates the game record for product. When a game with the
// same title already exists it returns (nil, nil) and issues no create;
// existing games are never refreshed. All reference resolutions and the
// enrichment fetch run concurrently; the first failure aborts the item and
// no partial record is persisted.
func (a *Assembler) MaterializeGame(ctx context.Context, product catalog.Product) (*catalog.Game, error) {
	existing, err := a.games.FindByTitle(ctx, product.Title)
	if err != nil {
		return nil, fmt.Errorf("find game %q: %w", product.Title, err)
	}
	if existing != nil {
		a.logger.Info("game already present, skipping", zap.String("title", product.Title))
		metrics.RecordGameSkipped()
		return nil, nil
	}

	a.logger.Info("creating game", zap.String("title", product.Title))

	var (
		categories = make([]catalog.Entity, len(product.Genres))
		platforms  = make([]catalog.Entity, len(product.SupportedOperatingSystems))
		developers = make([]catalog.Entity, 1)
		publisher  catalog.Entity
		enrichment catalog.Enrichment
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range product.Genres {
		g.Go(func() error {
			e, err := a.resolver.Resolve(gctx, catalog.EntityCategory, name)
			if err != nil {
				return err
			}
			categories[i] = e
			return nil
		})
	}
	for i, name := range product.SupportedOperatingSystems {
		g.Go(func() error {
			e, err := a.resolver.Resolve(gctx, catalog.EntityPlatform, name)
			if err != nil {
				return err
			}
			platforms[i] = e
			return nil
		})
	}
	g.Go(func() error {
		e, err := a.resolver.Resolve(gctx, catalog.EntityDeveloper, product.Developer)
		if err != nil {
			return err
		}
		developers[0] = e
		return nil
	})
	g.Go(func() error {
		e, err := a.resolver.Resolve(gctx, catalog.EntityPublisher, product.Publisher)
		if err != nil {
			return err
		}
		publisher = e
		return nil
	})
	g.Go(func() error {
		info, err := a.enricher.Fetch(gctx, product.Slug)
		if err != nil {
			return err
		}
		enrichment = info
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble game %q: %w", product.Title, err)
	}

	releaseDate, err := parseReleaseDate(product.GlobalReleaseDate.String())
	if err != nil {
		return nil, fmt.Errorf("assemble game %q: %w", product.Title, err)
	}
	price, err := parsePrice(product.Price.Amount)
	if err != nil {
		return nil, fmt.Errorf("assemble game %q: %w", product.Title, err)
	}

	created, err := a.games.Create(ctx, catalog.Game{
		Title: product.Title,
		// The product's own slug is taken as-is with underscores swapped
		// for dashes; it is not re-derived from the title.
		Slug:             strings.ReplaceAll(product.Slug, "_", "-"),
		Price:            price,
		ReleaseDate:      releaseDate,
		Categories:       categories,
		Platforms:        platforms,
		Developers:       developers,
		Publisher:        publisher,
		Rating:           enrichment.Rating,
		ShortDescription: enrichment.ShortDescription,
		Description:      enrichment.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create game %q: %w", product.Title, err)
	}

	metrics.RecordGameCreated()
	return &created, nil
}

// parseReleaseDate interprets an epoch-seconds field as a UTC instant.
func parseReleaseDate(epoch string) (time.Time, error) {
	seconds, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse release date %q: %w", epoch, err)
	}
	return time.Unix(seconds, 0).UTC(), nil
}

func parsePrice(amount string) (float64, error) {
	price, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", amount, err)
	}
	return price, nil
}
