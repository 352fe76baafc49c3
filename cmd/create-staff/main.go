// Command create-staff adds a back-office account.
//
//	create-staff -email ops@example.com -password 'S3cure!pass'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"tentquote_backend/internal/auth/repository"
	"tentquote_backend/internal/auth/service"
	"tentquote_backend/platform/config"
	"tentquote_backend/platform/db"
	"tentquote_backend/platform/logger"
)

func main() {
	emailFlag := flag.String("email", "", "staff email address")
	passwordFlag := flag.String("password", os.Getenv("STAFF_PASSWORD"), "staff password (defaults to $STAFF_PASSWORD)")
	flag.Parse()

	if *emailFlag == "" || *passwordFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	svc := service.New(repository.New(pool), cfg, log)
	user, err := svc.CreateStaff(ctx, *emailFlag, *passwordFlag)
	if err != nil {
		log.Error("failed to create staff user", "error", err)
		os.Exit(1)
	}

	fmt.Printf("created staff user %s (%s)\n", user.Email, user.ID)
}
