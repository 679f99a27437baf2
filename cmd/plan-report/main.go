package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/database"
	"github.com/stemsi/pathway-planner/internal/logger"
	"github.com/stemsi/pathway-planner/internal/model"
	"github.com/stemsi/pathway-planner/internal/planner"
	"github.com/stemsi/pathway-planner/internal/repository"
	"github.com/stemsi/pathway-planner/internal/service"
)

func main() {
	var (
		planFile string
		planID   string
		outFile  string
	)
	flag.StringVar(&planFile, "plan", "", "Saved plan JSON file, or - for stdin")
	flag.StringVar(&planID, "id", "", "Stored plan id to read from Redis")
	flag.StringVar(&outFile, "out", "", "Write the plain-text export here instead of stdout")
	flag.Parse()

	if (planFile == "") == (planID == "") {
		fmt.Fprintln(os.Stderr, "Usage: plan-report (-plan <file|-> | -id <plan id>) [-out <file>]")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// ─── Catalog ───────────────────────────────────────────────────────
	var catalogRepo repository.CatalogRepository
	if cfg.CatalogSource == config.CatalogPostgres {
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		catalogRepo = repository.NewCatalogRepository(pool)
	}
	cat, err := service.LoadCatalog(ctx, cfg, catalogRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	// ─── Plan ──────────────────────────────────────────────────────────
	var plan model.PlanState
	if planID != "" {
		plan, err = storedPlan(ctx, cfg, log, cat, planID)
	} else {
		plan, err = filePlan(planFile, cat)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read plan")
	}

	engine := planner.New(cat)

	// ─── Export ────────────────────────────────────────────────────────
	out := io.Writer(os.Stdout)
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create output file")
		}
		defer f.Close()
		out = f
	}
	if _, err := io.WriteString(out, engine.ExportText(plan)); err != nil {
		log.Fatal().Err(err).Msg("Failed to write export")
	}
	if outFile != "" {
		fmt.Printf("Wrote %s (suggested name %s)\n", outFile, engine.ExportFilename(plan))
	}

	// ─── Alerts ────────────────────────────────────────────────────────
	alerts := engine.Alerts(plan)
	fmt.Fprintf(os.Stderr, "\n%d alert(s)\n", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", a.Severity, a.Message)
	}
}

func storedPlan(ctx context.Context, cfg *config.Config, log zerolog.Logger, cat *catalog.Catalog, id string) (model.PlanState, error) {
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		return model.PlanState{}, err
	}
	defer rdb.Close()

	// A zero TTL leaves the stored expiry alone.
	return repository.NewPlanRepository(rdb, 0, cat.Aliases(), log).Get(ctx, id)
}

func filePlan(path string, cat *catalog.Catalog) (model.PlanState, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return model.PlanState{}, err
	}

	plan := model.NewPlanState()
	if err := json.Unmarshal(raw, &plan); err != nil {
		return model.PlanState{}, fmt.Errorf("decode plan %s: %w", path, err)
	}
	return plan.Normalize(cat.Aliases()), nil
}
