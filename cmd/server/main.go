package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/database"
	"github.com/stemsi/pathway-planner/internal/handler"
	"github.com/stemsi/pathway-planner/internal/logger"
	"github.com/stemsi/pathway-planner/internal/planner"
	"github.com/stemsi/pathway-planner/internal/repository"
	"github.com/stemsi/pathway-planner/internal/router"
	"github.com/stemsi/pathway-planner/internal/service"
	"github.com/stemsi/pathway-planner/internal/validator"
	"github.com/stemsi/pathway-planner/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("catalog_source", cfg.CatalogSource).
		Bool("snapshots", cfg.SnapshotsEnabled).
		Msg("Starting Pathway Planner")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL (optional) ──────────────────────────────
	var pool *pgxpool.Pool
	if cfg.UsesDatabase() {
		var err error
		pool, err = database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
	}

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Load Catalog ──────────────────────────────────────────────────
	var catalogRepo repository.CatalogRepository
	if pool != nil {
		catalogRepo = repository.NewCatalogRepository(pool)
	}
	cat, err := service.LoadCatalog(ctx, cfg, catalogRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	cohortIDs := make([]string, 0, len(cat.Cohorts()))
	for _, co := range cat.Cohorts() {
		cohortIDs = append(cohortIDs, co.ID)
	}
	validator.Setup(cohortIDs...)

	// ─── Initialize Repositories ───────────────────────────────────────
	planRepo := repository.NewPlanRepository(rdb, cfg.PlanTTL, cat.Aliases(), log)

	var (
		snapshotQueue repository.SnapshotQueue
		snapshotRepo  repository.SnapshotRepository
	)
	if cfg.SnapshotsEnabled {
		snapshotQueue = repository.NewSnapshotQueue(rdb)
		snapshotRepo = repository.NewSnapshotRepository(pool)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	engine := planner.New(cat)
	catalogService := service.NewCatalogService(cat)
	planService := service.NewPlanService(engine, planRepo, snapshotQueue, snapshotRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	deps := map[string]handler.Pinger{
		"redis": handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}
	if pool != nil {
		deps["postgres"] = pool
	}

	handlers := &router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService, log),
		Plan:    handler.NewPlanHandler(planService, log),
		System:  handler.NewSystemHandler(deps, planRepo, snapshotQueue, catalogService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	if cfg.SnapshotsEnabled {
		snapshotWorker := worker.NewSnapshotWorker(rdb, snapshotRepo, log)
		workers.Go(func() { snapshotWorker.Start(workerCtx) })
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, handlers, cfg, catalogService.Version())

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the snapshot queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
