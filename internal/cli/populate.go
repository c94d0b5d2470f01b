package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gcppubsub "cloud.google.com/go/pubsub"
	gcpstorage "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matheusjv11/wongames-api/internal/api"
	archivegcs "github.com/matheusjv11/wongames-api/internal/archive/gcs"
	archivelocal "github.com/matheusjv11/wongames-api/internal/archive/local"
	archivememory "github.com/matheusjv11/wongames-api/internal/archive/memory"
	"github.com/matheusjv11/wongames-api/internal/catalog"
	"github.com/matheusjv11/wongames-api/internal/clock/system"
	"github.com/matheusjv11/wongames-api/internal/config"
	"github.com/matheusjv11/wongames-api/internal/enrich"
	"github.com/matheusjv11/wongames-api/internal/gog"
	"github.com/matheusjv11/wongames-api/internal/id/uuid"
	"github.com/matheusjv11/wongames-api/internal/logging"
	"github.com/matheusjv11/wongames-api/internal/metrics"
	"github.com/matheusjv11/wongames-api/internal/pipeline"
	pubsubpublisher "github.com/matheusjv11/wongames-api/internal/publisher/pubsub"
	"github.com/matheusjv11/wongames-api/internal/resolver"
	"github.com/matheusjv11/wongames-api/internal/storage/postgres"
)

// newPopulateCmd creates the 'populate' subcommand, which executes one
// catalog population run.
func newPopulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "populate",
		Short: "Runs one catalog population pass",
		Long: `Fetches the first page of the GOG catalog, materializes the distinct
reference entities of the configured reference subset, then assembles game
records for the configured game subset.`,
		RunE: runPopulateCommand,
	}
}

func runPopulateCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	metrics.Init()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, postgres.Config{
		DSN:      cfg.DB.DSN,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pool.Close()

	repos, games, err := buildRepositories(pool)
	if err != nil {
		return err
	}

	blobStore, err := buildArchive(ctx, cfg.Archive)
	if err != nil {
		return err
	}

	publisher, topic, closePublisher, err := buildPublisher(ctx, cfg.PubSub)
	if err != nil {
		return err
	}
	defer closePublisher()

	client := gog.New(gog.Config{
		BaseURL:   cfg.GOG.BaseURL,
		UserAgent: cfg.GOG.UserAgent,
		Timeout:   cfg.GOGTimeout(),
	}, logger.Named("gog"))

	enricher := enrich.New(client, blobStore, enrich.Config{
		ArchivePrefix: cfg.Archive.Prefix,
	}, logger.Named("enrich"))

	res := resolver.New(repos, logger.Named("resolver"))
	coordinator := pipeline.NewCoordinator(
		client,
		pipeline.NewDeduplicator(res, logger.Named("dedupe")),
		pipeline.NewAssembler(res, enricher, games, logger.Named("assembler")),
		publisher,
		topic,
		pipeline.Selection{
			RefIndexes:  cfg.Selection.RefIndexes,
			GameIndexes: cfg.Selection.GameIndexes,
		},
		uuid.New(),
		system.New(),
		logger.Named("coordinator"),
	)

	shutdownServer := startServer(cfg.Server, logger)
	defer shutdownServer()

	if err := coordinator.Populate(ctx); err != nil {
		logger.Error("populate run failed", zap.Error(err))
		return err
	}
	return nil
}

func buildRepositories(pool *pgxpool.Pool) (catalog.Repositories, catalog.GameRepository, error) {
	var (
		repos catalog.Repositories
		err   error
	)
	if repos.Developers, err = postgres.NewEntityStore(pool, catalog.EntityDeveloper); err != nil {
		return catalog.Repositories{}, nil, fmt.Errorf("init developer store: %w", err)
	}
	if repos.Publishers, err = postgres.NewEntityStore(pool, catalog.EntityPublisher); err != nil {
		return catalog.Repositories{}, nil, fmt.Errorf("init publisher store: %w", err)
	}
	if repos.Categories, err = postgres.NewEntityStore(pool, catalog.EntityCategory); err != nil {
		return catalog.Repositories{}, nil, fmt.Errorf("init category store: %w", err)
	}
	if repos.Platforms, err = postgres.NewEntityStore(pool, catalog.EntityPlatform); err != nil {
		return catalog.Repositories{}, nil, fmt.Errorf("init platform store: %w", err)
	}
	games, err := postgres.NewGameStore(pool)
	if err != nil {
		return catalog.Repositories{}, nil, fmt.Errorf("init game store: %w", err)
	}
	return repos, games, nil
}

func buildArchive(ctx context.Context, cfg config.ArchiveConfig) (catalog.BlobStore, error) {
	switch cfg.Backend {
	case config.ArchiveNone:
		return nil, nil
	case config.ArchiveMemory:
		return archivememory.NewBlobStore(), nil
	case config.ArchiveLocal:
		store, err := archivelocal.New(archivelocal.Config{BaseDir: cfg.BaseDir})
		if err != nil {
			return nil, fmt.Errorf("init local archive: %w", err)
		}
		return store, nil
	case config.ArchiveGCS:
		client, err := gcpstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		store, err := archivegcs.New(client, archivegcs.Config{Bucket: cfg.GCSBucket})
		if err != nil {
			return nil, fmt.Errorf("init gcs archive: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("archive backend %q is not supported", cfg.Backend)
	}
}

func buildPublisher(ctx context.Context, cfg config.PubSubConfig) (catalog.Publisher, string, func(), error) {
	if cfg.ProjectID == "" {
		return nil, "", func() {}, nil
	}
	client, err := gcppubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, "", nil, fmt.Errorf("init pubsub client: %w", err)
	}
	topic := client.Topic(cfg.Topic)
	closeFn := func() {
		topic.Stop()
		_ = client.Close()
	}
	return pubsubpublisher.New(topic), cfg.Topic, closeFn, nil
}

// startServer launches the health/metrics server when enabled and returns a
// shutdown func.
func startServer(cfg config.ServerConfig, logger *zap.Logger) func() {
	if !cfg.Enabled {
		return func() {}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewServer(logger.Named("api")).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}
	}
}
