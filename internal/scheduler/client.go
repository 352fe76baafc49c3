// Package scheduler queues background work on Redis with asynq and runs the
// worker that processes it.
package scheduler

import (
	"context"
	"errors"
	"time"

	"tentquote_backend/internal/events"
	"tentquote_backend/platform/config"
	"tentquote_backend/platform/rediskit"

	"github.com/hibiken/asynq"
)

const (
	defaultQueue      = "default"
	notifyMaxRetry    = 8
	notifyTaskTimeout = 2 * time.Minute
)

type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient returns a task client, or rediskit.ErrNotConfigured when Redis is absent.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueEnquiryConfirmation queues the customer's thank-you email.
func (c *Client) EnqueueEnquiryConfirmation(ctx context.Context, event events.EnquirySubmitted) error {
	task, err := NewEnquiryConfirmTask(event)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, "enquiry-confirm-"+event.EnquiryID.String())
}

// EnqueueEnquiryAlert queues the staff alert.
func (c *Client) EnqueueEnquiryAlert(ctx context.Context, event events.EnquirySubmitted) error {
	task, err := NewEnquiryAlertTask(event)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, "enquiry-alert-"+event.EnquiryID.String())
}

// enqueue treats a task id that is already queued as done.
func (c *Client) enqueue(ctx context.Context, task *asynq.Task, taskID string) error {
	_, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(notifyMaxRetry),
		asynq.Timeout(notifyTaskTimeout),
		asynq.TaskID(taskID),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func redisClientOpt(cfg config.RedisConfig) (asynq.RedisClientOpt, error) {
	opt, err := rediskit.Options(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return defaultQueue
}
