package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tentquote_backend/internal/email"
	"tentquote_backend/internal/notification"
	"tentquote_backend/internal/scheduler"
	"tentquote_backend/platform/config"
	"tentquote_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("SMTP not configured; enquiry emails are logged only")
		sender = email.NewNoopSender(log)
	}
	notifier := notification.NewNotifier(sender, cfg, log)

	worker, err := scheduler.NewWorker(cfg, notifier, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
