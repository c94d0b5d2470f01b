// Package pipeline orchestrates catalog population: the reference
// deduplication pass, per-product game assembly, and the coordinator that
// runs one before the other.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matheusjv11/wongames-api/internal/catalog"
	"github.com/matheusjv11/wongames-api/internal/resolver"
)

// Deduplicator materializes the distinct reference entities of a product
// batch before any game referencing them is assembled.
type Deduplicator struct {
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// NewDeduplicator constructs a Deduplicator.
func NewDeduplicator(res *resolver.Resolver, logger *zap.Logger) *Deduplicator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deduplicator{
		resolver: res,
		logger:   logger,
	}
}

// MaterializeReferences collects the distinct developer, publisher, genre,
// and operating-system names across the batch and resolves each one
// concurrently. The pass is all-or-nothing: the first failed resolution
// fails the whole pass and no partial-success bookkeeping is kept.
func (d *Deduplicator) MaterializeReferences(ctx context.Context, products []catalog.Product) error {
	distinct := collectDistinct(products)

	g, gctx := errgroup.WithContext(ctx)
	total := 0
	for entityType, names := range distinct {
		for name := range names {
			total++
			g.Go(func() error {
				_, err := d.resolver.Resolve(gctx, entityType, name)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("materialize references: %w", err)
	}

	d.logger.Info("reference pass complete",
		zap.Int("products", len(products)),
		zap.Int("distinct_names", total),
	)
	return nil
}

// collectDistinct buckets every non-empty reference-bearing field value by
// entity type. Distinctness is exact string equality.
func collectDistinct(products []catalog.Product) map[catalog.EntityType]map[string]struct{} {
	distinct := map[catalog.EntityType]map[string]struct{}{
		catalog.EntityDeveloper: {},
		catalog.EntityPublisher: {},
		catalog.EntityCategory:  {},
		catalog.EntityPlatform:  {},
	}
	add := func(t catalog.EntityType, name string) {
		if name == "" {
			return
		}
		distinct[t][name] = struct{}{}
	}

	for _, p := range products {
		add(catalog.EntityDeveloper, p.Developer)
		add(catalog.EntityPublisher, p.Publisher)
		for _, genre := range p.Genres {
			add(catalog.EntityCategory, genre)
		}
		for _, os := range p.SupportedOperatingSystems {
			add(catalog.EntityPlatform, os)
		}
	}
	return distinct
}
