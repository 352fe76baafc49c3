package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tentquote_backend/internal/adapters"
	"tentquote_backend/internal/adapters/storage"
	"tentquote_backend/internal/auth"
	"tentquote_backend/internal/catalog"
	"tentquote_backend/internal/email"
	"tentquote_backend/internal/enquiries"
	"tentquote_backend/internal/events"
	apphttp "tentquote_backend/internal/http"
	"tentquote_backend/internal/http/router"
	"tentquote_backend/internal/notification"
	"tentquote_backend/internal/quote"
	quoterepo "tentquote_backend/internal/quote/repository"
	"tentquote_backend/internal/scheduler"
	"tentquote_backend/platform/config"
	"tentquote_backend/platform/db"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/phone"
	"tentquote_backend/platform/rediskit"
	"tentquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

type redisHealth struct {
	client *redis.Client
}

func (h redisHealth) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	var redisClient *redis.Client
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		c, err := rediskit.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		redisClient = c
		return nil
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	// Shared validator instance for dependency injection
	val := validator.New()

	images := initImageStore(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	queue, closeQueue := initTaskQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}
	notifier := notification.NewNotifier(newSender(cfg, log), cfg, log)
	notificationModule := notification.New(notifier, queue, log)
	notificationModule.RegisterHandlers(eventBus)

	catalogModule := catalog.NewModule(pool, images, eventBus, val, log)
	authModule := auth.NewModule(pool, cfg, val, log)

	catalogStats := adapters.NewCatalogStats(catalogModule.Service())
	enquiriesModule := enquiries.NewModule(pool, catalogStats, eventBus, cfg.GetEnquiryStrictTransitions(), val, log)

	// Anti-Corruption Layer: quote submits through its own EnquiryWriter port
	enquiryWriter := adapters.NewEnquiryWriter(enquiriesModule.Service())
	sessions := quoterepo.NewRedisStore(redisClient, cfg.GetQuoteSessionTTL())
	quoteModule := quote.NewModule(sessions, catalogModule.Service(), enquiryWriter, eventBus,
		phone.NewNormalizer(cfg.GetPhoneDefaultRegion()), val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   []apphttp.HealthChecker{pool, redisHealth{client: redisClient}},
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			quoteModule,
			enquiriesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initImageStore returns nil when MinIO is not configured; uploads then fail
// with a persistence error and the rest of the catalog keeps working.
func initImageStore(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.ImageStore {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; catalog image uploads disabled")
		return nil
	}

	minioSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure catalog image bucket", 5, 2*time.Second, func() error {
		return minioSvc.EnsureBucket(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketCatalogImages())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "catalogImagesBucket", cfg.GetMinioBucketCatalogImages())
	return minioSvc
}

func initTaskQueue(cfg *config.Config, log *logger.Logger) (notification.TaskQueue, func()) {
	if !cfg.GetNotificationsAsync() {
		log.Info("NOTIFICATIONS_ASYNC disabled; enquiry emails are sent inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client; enquiry emails are sent inline", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func newSender(cfg config.EmailConfig, log *logger.Logger) email.Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("SMTP not configured; enquiry emails are logged only")
		return email.NewNoopSender(log)
	}
	return email.NewSMTPSender(cfg)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
