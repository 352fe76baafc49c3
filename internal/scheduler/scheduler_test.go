package scheduler

import (
	"context"
	"errors"
	"testing"

	"tentquote_backend/internal/email"
	"tentquote_backend/internal/events"
	"tentquote_backend/internal/notification"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/rediskit"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type schedulerConfig struct {
	url   string
	queue string
}

func (c schedulerConfig) GetRedisURL() string       { return c.url }
func (c schedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c schedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c schedulerConfig) GetAsynqConcurrency() int  { return 0 }

type recordingNotifier struct {
	customers []events.EnquirySubmitted
	staff     []events.EnquirySubmitted
	err       error
}

func (n *recordingNotifier) NotifyCustomer(_ context.Context, event events.EnquirySubmitted) error {
	n.customers = append(n.customers, event)
	return n.err
}

func (n *recordingNotifier) NotifyStaff(_ context.Context, event events.EnquirySubmitted) error {
	n.staff = append(n.staff, event)
	return n.err
}

type notificationConfig struct{}

func (notificationConfig) GetStaffInboxAddress() string { return "bookings@example.com" }
func (notificationConfig) GetCurrencyCode() string      { return "GBP" }
func (notificationConfig) GetNotificationsAsync() bool  { return true }

// countingSender fails every staff alert.
type countingSender struct {
	confirmations int
	alerts        int
}

func (s *countingSender) SendEnquiryConfirmation(context.Context, string, email.Enquiry) error {
	s.confirmations++
	return nil
}

func (s *countingSender) SendNewEnquiryAlert(context.Context, string, email.Enquiry) error {
	s.alerts++
	return errors.New("staff mailbox rejected the message")
}

func TestEnquiryTasksReachTheirRecipient(t *testing.T) {
	event := events.EnquirySubmitted{
		BaseEvent:  events.NewBaseEvent(),
		EnquiryID:  uuid.New(),
		Name:       "Sam",
		TotalCents: 1050,
		Lines:      []events.EnquiryLine{{Name: "Stretch Tent", Quantity: 1, LineTotalCents: 1000}},
	}

	confirm, err := NewEnquiryConfirmTask(event)
	if err != nil {
		t.Fatalf("new confirm task: %v", err)
	}
	alert, err := NewEnquiryAlertTask(event)
	if err != nil {
		t.Fatalf("new alert task: %v", err)
	}
	if confirm.Type() != TaskEnquiryConfirm || alert.Type() != TaskEnquiryAlert {
		t.Fatalf("unexpected task types %q %q", confirm.Type(), alert.Type())
	}

	notifier := &recordingNotifier{}
	w := &Worker{notifier: notifier, log: logger.Discard()}
	if err := w.handleEnquiryConfirm(context.Background(), confirm); err != nil {
		t.Fatalf("handle confirm: %v", err)
	}
	if len(notifier.customers) != 1 || len(notifier.staff) != 0 {
		t.Fatalf("expected only the customer email, got %d customer %d staff", len(notifier.customers), len(notifier.staff))
	}
	if notifier.customers[0].EnquiryID != event.EnquiryID || notifier.customers[0].TotalCents != 1050 {
		t.Fatalf("unexpected delivery %+v", notifier.customers[0])
	}

	if err := w.handleEnquiryAlert(context.Background(), alert); err != nil {
		t.Fatalf("handle alert: %v", err)
	}
	if len(notifier.customers) != 1 || len(notifier.staff) != 1 {
		t.Fatalf("expected one email each, got %d customer %d staff", len(notifier.customers), len(notifier.staff))
	}
}

func TestRetriedAlertDoesNotResendConfirmation(t *testing.T) {
	sender := &countingSender{}
	w := &Worker{
		notifier: notification.NewNotifier(sender, notificationConfig{}, logger.Discard()),
		log:      logger.Discard(),
	}
	event := events.EnquirySubmitted{EnquiryID: uuid.New(), Email: "sam@example.com"}
	confirm, _ := NewEnquiryConfirmTask(event)
	alert, _ := NewEnquiryAlertTask(event)

	if err := w.handleEnquiryConfirm(context.Background(), confirm); err != nil {
		t.Fatalf("handle confirm: %v", err)
	}
	for attempt := 0; attempt < 3; attempt++ {
		if err := w.handleEnquiryAlert(context.Background(), alert); err == nil {
			t.Fatal("expected the alert to fail")
		}
	}

	if sender.confirmations != 1 {
		t.Fatalf("expected the confirmation once, got %d", sender.confirmations)
	}
	if sender.alerts != 3 {
		t.Fatalf("expected three alert attempts, got %d", sender.alerts)
	}
}

func TestBadPayloadSkipsRetry(t *testing.T) {
	w := &Worker{notifier: &recordingNotifier{}, log: logger.Discard()}
	err := w.handleEnquiryConfirm(context.Background(), asynq.NewTask(TaskEnquiryConfirm, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestNotifierErrorIsRetried(t *testing.T) {
	boom := errors.New("smtp down")
	task, _ := NewEnquiryAlertTask(events.EnquirySubmitted{EnquiryID: uuid.New()})
	w := &Worker{notifier: &recordingNotifier{err: boom}, log: logger.Discard()}
	if err := w.handleEnquiryAlert(context.Background(), task); !errors.Is(err, boom) || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestClientRequiresRedis(t *testing.T) {
	if _, err := NewClient(schedulerConfig{}); !errors.Is(err, rediskit.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRedisClientOptFromURL(t *testing.T) {
	opt, err := redisClientOpt(schedulerConfig{url: "redis://:secret@cache:6380/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "cache:6380" || opt.Password != "secret" || opt.DB != 2 || opt.TLSConfig != nil {
		t.Fatalf("unexpected options %+v", opt)
	}
	if got := queueName(schedulerConfig{}); got != "default" {
		t.Fatalf("expected default queue, got %q", got)
	}
}
