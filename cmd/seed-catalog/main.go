package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/pathway-planner/internal/catalog"
	"github.com/stemsi/pathway-planner/internal/config"
	"github.com/stemsi/pathway-planner/internal/database"
	"github.com/stemsi/pathway-planner/internal/logger"
	"github.com/stemsi/pathway-planner/internal/repository"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "", "YAML catalog to load (default: the bundled catalog)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var (
		data *catalog.Data
		err  error
	)
	if file == "" {
		fmt.Println("=== Seeding bundled catalog ===")
		data, err = catalog.BundledData()
	} else {
		fmt.Printf("=== Seeding catalog from %s ===\n", file)
		var raw []byte
		if raw, err = os.ReadFile(file); err == nil {
			data, err = catalog.ParseData(raw)
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read catalog")
	}

	// Index once before touching the database so a broken document never
	// replaces a working catalog.
	cat, err := catalog.New(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Catalog is invalid")
	}
	for _, w := range cat.Validate() {
		fmt.Println("warning:", w)
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	repo := repository.NewCatalogRepository(pool)
	if err := repo.Replace(ctx, data); err != nil {
		log.Fatal().Err(err).Msg("Failed to write catalog")
	}

	// Read it back through the same path the server uses.
	stored, err := repo.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read catalog back")
	}
	if _, err := catalog.New(stored); err != nil {
		log.Fatal().Err(err).Msg("Stored catalog does not index")
	}

	fmt.Printf("Seeded %d cohorts, %d courses, %d block courses, %d majors\n",
		len(stored.Cohorts), len(stored.Courses), len(stored.BlockCourses), len(stored.Majors))
	fmt.Println("Done.")
}
