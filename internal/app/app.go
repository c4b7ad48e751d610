package app

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/config"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/ninety-minute/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/ninety-minute/internal/platform/id"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"github.com/riskibarqy/ninety-minute/internal/usecase"
)

// Closer releases a resource opened while building the server.
type Closer func() error

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, Closer, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	ids := idgen.NewUUIDGenerator()
	rankingSvc := usecase.NewRankingService(store, usecase.RankingServiceConfig{
		DefaultLimit: cfg.LeaderboardSize,
		Workers:      cfg.LeaderboardWorkers,
		CacheTTL:     cfg.CacheTTL,
	}, logger)
	handler := httpapi.NewHandler(
		usecase.NewTeamService(store, ids, logger),
		usecase.NewProposalService(store, ids, logger),
		usecase.NewMatchService(store, logger),
		usecase.NewLineupService(store, ids, logger),
		usecase.NewSettlementService(store, ids, rankingSvc, logger),
		rankingSvc,
		logger,
	)

	anubisClient := anubis.NewClient(anubis.Config{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       cfg.CacheTTL,
		CircuitBreaker: cfg.AnubisCircuitBreaker(),
	}, logger.Named("anubis"))

	router := httpapi.NewRouter(handler, anubisClient, logger.Named("http"), cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = closeStore()
		return nil, nil, errors.New("http server addr cannot be empty")
	}

	return server, closeStore, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (uow.Transactor, Closer, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, target, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewStore(db)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrapf(err, "ping postgres %s/%s", target.host, target.name)
		}
		if cfg.SeedDemoData {
			if err := postgres.BootstrapSeed(ctx, store, time.Now().UTC()); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}

		logger.Info("store ready", "driver", cfg.StoreDriver, "db_host", target.host, "db_name", target.name)
		return store, db.Close, nil
	default:
		store := memory.NewStore()
		if cfg.SeedDemoData {
			if err := memory.SeedDemo(ctx, store, time.Now().UTC()); err != nil {
				return nil, nil, errors.Wrap(err, "seed memory store")
			}
		}

		logger.Info("store ready", "driver", cfg.StoreDriver, "seeded", cfg.SeedDemoData)
		return store, func() error { return nil }, nil
	}
}
