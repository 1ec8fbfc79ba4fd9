package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-roster/external/rosterapi"
	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/domain/account"
	"github.com/riskibarqy/fantasy-roster/internal/domain/advice"
	"github.com/riskibarqy/fantasy-roster/internal/domain/catalog"
	"github.com/riskibarqy/fantasy-roster/internal/domain/performance"
	"github.com/riskibarqy/fantasy-roster/internal/domain/roster"
	cacherepo "github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/sqlite"
	basecache "github.com/riskibarqy/fantasy-roster/internal/platform/cache"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

// Services is the use case layer shared by the API and the CLI.
type Services struct {
	Roster      *usecase.RosterService
	StartSit    *usecase.StartSitService
	Advice      *usecase.AdviceService
	Catalog     *usecase.CatalogService
	Performance *usecase.PerformanceService

	// Demo is set when the in-process backend serves the data.
	Demo *memory.RosterBackend
}

// Options carries what differs between the API and the CLI.
type Options struct {
	// Tokens resolves the bearer token for backend calls. Defaults to the
	// token attached to the request context.
	Tokens     rosterapi.TokenSource
	HTTPClient *http.Client
}

type backend struct {
	profiles    account.Repository
	store       roster.Repository
	catalog     catalog.Repository
	performance performance.Repository
	generator   advice.Generator
	demo        *memory.RosterBackend
}

// NewServices wires repositories and use cases from cfg. The returned close
// func releases database handles and is safe to call once.
func NewServices(ctx context.Context, cfg config.Config, opts Options, logger *logging.Logger) (Services, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	b := newBackend(cfg, opts, logger)
	blobs, closeBlobs, err := openAdviceBlobStore(ctx, cfg, logger)
	if err != nil {
		return Services{}, nil, err
	}

	readCache := basecache.NewStore(cfg.CatalogCacheTTL)
	adviceCache := usecase.NewAdviceCache(blobs, usecase.AdviceCacheConfig{
		Key: cfg.AdviceCacheKey,
		TTL: cfg.AdviceCacheTTL,
	}, logger)

	reports := cacherepo.NewPerformanceRepository(b.performance, readCache)
	store := cacherepo.NewRosterRepository(b.store, reports)

	services := Services{
		Roster:      usecase.NewRosterService(b.profiles, store, logger),
		StartSit:    usecase.NewStartSitService(b.profiles, store, logger),
		Advice:      usecase.NewAdviceService(b.profiles, store, b.generator, adviceCache, cfg.AdviceApplyWorkers, logger),
		Catalog:     usecase.NewCatalogService(cacherepo.NewCatalogRepository(b.catalog, readCache)),
		Performance: usecase.NewPerformanceService(b.profiles, reports, logger),
		Demo:        b.demo,
	}

	return services, closeBlobs, nil
}

func newBackend(cfg config.Config, opts Options, logger *logging.Logger) backend {
	if !cfg.UsesRemoteBackend() {
		demo := memory.NewRosterBackend(memory.DefaultSeed(), nil)
		logger.Warn("roster backend not configured, serving demo data", "reason", "BACKEND_BASE_URL empty")
		return backend{
			profiles:    demo,
			store:       demo,
			catalog:     demo,
			performance: demo,
			generator:   memory.NewAdviceGenerator(demo),
			demo:        demo,
		}
	}

	client := rosterapi.NewClient(rosterapi.ClientConfig{
		HTTPClient:     opts.HTTPClient,
		BaseURL:        cfg.BackendBaseURL,
		Timeout:        cfg.BackendTimeout,
		MaxRetries:     cfg.BackendMaxRetries,
		Tokens:         opts.Tokens,
		Logger:         logger,
		CircuitBreaker: cfg.BackendCircuit,
	})
	return backend{
		profiles:    client,
		store:       client,
		catalog:     client,
		performance: client,
		generator:   client,
	}
}

func openAdviceBlobStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (advice.BlobStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.AdviceCacheDriver {
	case "", config.AdviceCacheMemory:
		logger.Debug("advice cache kept in process memory")
		return memory.NewBlobStore(), noop, nil
	case config.AdviceCachePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("advice cache backed by postgres", "db_name", dbName(cfg.DBURL))
		return postgres.NewAdviceBlobRepository(db), db.Close, nil
	case config.AdviceCacheSQLite:
		db, err := sqlite.Open(cfg.AdviceCacheSQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := sqlite.NewAdviceBlobRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("advice cache backed by sqlite", "path", cfg.AdviceCacheSQLitePath)
		return repo, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported advice cache driver %q", cfg.AdviceCacheDriver)
	}
}
