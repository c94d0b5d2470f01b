package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matheusjv11/wongames-api/internal/catalog"
	"github.com/matheusjv11/wongames-api/internal/metrics"
)

// Selection names which catalog positions feed each pass. The two passes are
// independent: a game-pass product whose references were never covered by
// the reference pass still resolves them through the same lookup-or-create
// path, just without the batch deduplication.
type Selection struct {
	RefIndexes  []int
	GameIndexes []int
}

// DefaultSelection returns the selection the populate workflow has always
// used: two products for the reference pass, two others for the game pass.
func DefaultSelection() Selection {
	return Selection{
		RefIndexes:  []int{5, 7},
		GameIndexes: []int{2, 3},
	}
}

// RunSummary is the event published after a successful run.
type RunSummary struct {
	RunID        string    `json:"run_id"`
	GamesCreated int       `json:"games_created"`
	GamesSkipped int       `json:"games_skipped"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Coordinator drives one populate run: fetch the catalog page, materialize
// the distinct references of the reference-pass subset, then assemble games
// for the game-pass subset.
type Coordinator struct {
	client    catalog.CatalogClient
	dedupe    *Deduplicator
	assembler *Assembler
	publisher catalog.Publisher
	topic     string
	selection Selection
	idGen     catalog.IDGenerator
	clock     catalog.Clock
	logger    *zap.Logger
}

// NewCoordinator constructs a Coordinator. publisher may be nil, in which
// case no run event is published.
func NewCoordinator(
	client catalog.CatalogClient,
	dedupe *Deduplicator,
	assembler *Assembler,
	publisher catalog.Publisher,
	topic string,
	selection Selection,
	idGen catalog.IDGenerator,
	clock catalog.Clock,
	logger *zap.Logger,
) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		client:    client,
		dedupe:    dedupe,
		assembler: assembler,
		publisher: publisher,
		topic:     topic,
		selection: selection,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
	}
}

// Populate executes one run. The reference pass completes entirely before
// the game pass begins, so assembled games reference already-materialized
// entities. Any failure aborts the run; there is no partial-success report.
func (c *Coordinator) Populate(ctx context.Context) error {
	runID, err := c.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger := c.logger.With(zap.String("run_id", runID))
	logger.Info("populate run started")

	products, err := c.client.FetchPage(ctx)
	if err != nil {
		metrics.RecordRun("failed")
		return err
	}

	refProducts := pick(products, c.selection.RefIndexes)
	gameProducts := pick(products, c.selection.GameIndexes)

	if err := c.dedupe.MaterializeReferences(ctx, refProducts); err != nil {
		metrics.RecordRun("failed")
		return err
	}

	var created, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, product := range gameProducts {
		g.Go(func() error {
			game, err := c.assembler.MaterializeGame(gctx, product)
			if err != nil {
				return err
			}
			if game == nil {
				skipped.Add(1)
				return nil
			}
			created.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordRun("failed")
		return fmt.Errorf("game pass: %w", err)
	}

	summary := RunSummary{
		RunID:        runID,
		GamesCreated: int(created.Load()),
		GamesSkipped: int(skipped.Load()),
		FinishedAt:   c.clock.Now(),
	}
	c.publishSummary(ctx, logger, summary)

	logger.Info("populate run complete",
		zap.Int("games_created", summary.GamesCreated),
		zap.Int("games_skipped", summary.GamesSkipped),
	)
	metrics.RecordRun("succeeded")
	return nil
}

// publishSummary emits the run event. The catalog work has already
// committed, so a publish failure is logged rather than failing the run.
func (c *Coordinator) publishSummary(ctx context.Context, logger *zap.Logger, summary RunSummary) {
	if c.publisher == nil {
		return
	}
	if _, err := c.publisher.Publish(ctx, c.topic, summary); err != nil {
		logger.Warn("publish run summary failed", zap.Error(err))
	}
}

// pick selects products by index, skipping positions the page does not have.
func pick(products []catalog.Product, indexes []int) []catalog.Product {
	out := make([]catalog.Product, 0, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= len(products) {
			continue
		}
		out = append(out, products[i])
	}
	return out
}
