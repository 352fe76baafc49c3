package scheduler

import (
	"context"
	"fmt"

	"tentquote_backend/internal/events"
	"tentquote_backend/platform/config"
	"tentquote_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// EnquiryNotifier sends the emails for a submitted enquiry.
type EnquiryNotifier interface {
	NotifyCustomer(ctx context.Context, event events.EnquirySubmitted) error
	NotifyStaff(ctx context.Context, event events.EnquirySubmitted) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	notifier EnquiryNotifier
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, notifier EnquiryNotifier, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:   server,
		mux:      asynq.NewServeMux(),
		notifier: notifier,
		log:      log,
	}
	w.mux.HandleFunc(TaskEnquiryConfirm, w.handleEnquiryConfirm)
	w.mux.HandleFunc(TaskEnquiryAlert, w.handleEnquiryAlert)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleEnquiryConfirm(ctx context.Context, task *asynq.Task) error {
	return w.handleEnquiry(ctx, task, w.notifier.NotifyCustomer)
}

func (w *Worker) handleEnquiryAlert(ctx context.Context, task *asynq.Task) error {
	return w.handleEnquiry(ctx, task, w.notifier.NotifyStaff)
}

func (w *Worker) handleEnquiry(ctx context.Context, task *asynq.Task, send func(context.Context, events.EnquirySubmitted) error) error {
	payload, err := ParseEnquiryPayload(task)
	if err != nil {
		// a payload that cannot be decoded will never succeed
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := send(ctx, payload); err != nil {
		w.log.Error("enquiry notification failed", "task", task.Type(), "enquiryId", payload.EnquiryID, "error", err)
		return err
	}
	return nil
}
