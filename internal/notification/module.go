// Package notification sends emails in response to domain events so the
// quoting flow never waits on SMTP.
package notification

import (
	"context"
	"errors"

	"tentquote_backend/internal/events"
	"tentquote_backend/platform/logger"
)

// TaskQueue defers enquiry emails to the background worker. Each email is
// its own task so a retry only resends the one that failed.
type TaskQueue interface {
	EnqueueEnquiryConfirmation(ctx context.Context, event events.EnquirySubmitted) error
	EnqueueEnquiryAlert(ctx context.Context, event events.EnquirySubmitted) error
}

// Module subscribes to enquiry events.
type Module struct {
	notifier *Notifier
	queue    TaskQueue
	log      *logger.Logger
}

// New creates the notification module. With a nil queue emails are sent
// inline from the event handler.
func New(notifier *Notifier, queue TaskQueue, log *logger.Logger) *Module {
	return &Module{notifier: notifier, queue: queue, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes to the events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.EnquirySubmitted{}.EventName(), m)
	bus.Subscribe(events.EnquiryStatusChanged{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.EnquirySubmitted:
		return m.handleEnquirySubmitted(ctx, e)
	case events.EnquiryStatusChanged:
		m.log.Info("enquiry status changed", "enquiryId", e.EnquiryID, "from", e.From, "to", e.To, "by", e.ChangedBy)
		return nil
	default:
		return nil
	}
}

func (m *Module) handleEnquirySubmitted(ctx context.Context, e events.EnquirySubmitted) error {
	if m.queue == nil {
		return m.notifier.Notify(ctx, e)
	}

	var errs []error
	if err := m.queue.EnqueueEnquiryConfirmation(ctx, e); err != nil {
		m.log.Warn("failed to enqueue enquiry confirmation, sending inline", "enquiryId", e.EnquiryID, "error", err)
		errs = append(errs, m.notifier.NotifyCustomer(ctx, e))
	}
	if err := m.queue.EnqueueEnquiryAlert(ctx, e); err != nil {
		m.log.Warn("failed to enqueue enquiry alert, sending inline", "enquiryId", e.EnquiryID, "error", err)
		errs = append(errs, m.notifier.NotifyStaff(ctx, e))
	}
	return errors.Join(errs...)
}
