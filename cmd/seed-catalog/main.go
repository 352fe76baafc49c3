// Command seed-catalog loads tent types, tents and extras from a YAML file.
//
//	seed-catalog -file catalog.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"tentquote_backend/internal/catalog/repository"
	"tentquote_backend/internal/catalog/seed"
	"tentquote_backend/internal/catalog/service"
	"tentquote_backend/platform/config"
	"tentquote_backend/platform/db"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/validator"
)

func main() {
	fileFlag := flag.String("file", "catalog.yaml", "seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	f, err := os.Open(*fileFlag)
	if err != nil {
		log.Error("failed to open seed file", "file", *fileFlag, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	doc, err := seed.Parse(f)
	if err != nil {
		log.Error("failed to read seed file", "file", *fileFlag, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.RunMigrations(ctx, cfg); err != nil {
		log.Error("failed to run database migrations", "error", err)
		os.Exit(1)
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// No image store or event bus: the API invalidates its extras cache on its own TTL.
	svc := service.New(repository.New(pool), nil, nil, log)
	res, err := seed.New(svc, validator.New(), log).Apply(ctx, doc)
	if err != nil {
		log.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}

	fmt.Printf("seeded catalog: %d created, %d already present\n", res.Created, res.Skipped)
}
