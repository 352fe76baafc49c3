package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tentquote_backend/internal/email"
	"tentquote_backend/internal/events"
	"tentquote_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct {
	inbox string
}

func (c testNotificationConfig) GetStaffInboxAddress() string { return c.inbox }
func (testNotificationConfig) GetCurrencyCode() string        { return "GBP" }
func (testNotificationConfig) GetNotificationsAsync() bool    { return true }

type sentEmail struct {
	to      string
	enquiry email.Enquiry
}

type testSender struct {
	confirmations []sentEmail
	alerts        []sentEmail
	failConfirm   bool
}

func (s *testSender) SendEnquiryConfirmation(_ context.Context, to string, e email.Enquiry) error {
	if s.failConfirm {
		return errors.New("mailbox unavailable")
	}
	s.confirmations = append(s.confirmations, sentEmail{to, e})
	return nil
}

func (s *testSender) SendNewEnquiryAlert(_ context.Context, to string, e email.Enquiry) error {
	s.alerts = append(s.alerts, sentEmail{to, e})
	return nil
}

type testQueue struct {
	confirmations []events.EnquirySubmitted
	alerts        []events.EnquirySubmitted
	err           error
	alertErr      error
}

func (q *testQueue) EnqueueEnquiryConfirmation(_ context.Context, e events.EnquirySubmitted) error {
	if q.err != nil {
		return q.err
	}
	q.confirmations = append(q.confirmations, e)
	return nil
}

func (q *testQueue) EnqueueEnquiryAlert(_ context.Context, e events.EnquirySubmitted) error {
	if q.err != nil {
		return q.err
	}
	if q.alertErr != nil {
		return q.alertErr
	}
	q.alerts = append(q.alerts, e)
	return nil
}

const testCustomerEmail = "sam@example.com"
const testStaffInbox = "bookings@example.com"

func submitted() events.EnquirySubmitted {
	date := time.Date(2026, time.June, 13, 0, 0, 0, 0, time.UTC)
	return events.EnquirySubmitted{
		BaseEvent:  events.NewBaseEvent(),
		EnquiryID:  uuid.MustParse("3f1c2a9e-0000-4000-8000-000000000001"),
		Name:       "Sam",
		Email:      testCustomerEmail,
		EventDate:  &date,
		TotalCents: 1050,
		Lines: []events.EnquiryLine{
			{Name: "Stretch Tent", Quantity: 1, LineTotalCents: 1000},
			{Name: "Festoon lighting", Quantity: 1, LineTotalCents: 50},
		},
	}
}

func TestInlineSendWithoutQueue(t *testing.T) {
	sender := &testSender{}
	m := New(NewNotifier(sender, testNotificationConfig{inbox: testStaffInbox}, logger.Discard()), nil, logger.Discard())

	if err := m.Handle(context.Background(), submitted()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.confirmations) != 1 || sender.confirmations[0].to != testCustomerEmail {
		t.Fatalf("expected a confirmation to the customer, got %+v", sender.confirmations)
	}
	if len(sender.alerts) != 1 || sender.alerts[0].to != testStaffInbox {
		t.Fatalf("expected an alert to staff, got %+v", sender.alerts)
	}

	got := sender.confirmations[0].enquiry
	if got.Reference != "3f1c2a9e" || got.EventDate != "Saturday 13 June 2026" {
		t.Fatalf("unexpected rendering %+v", got)
	}
	if !strings.Contains(got.Total, "10.50") || len(got.Lines) != 2 {
		t.Fatalf("unexpected amounts %+v", got)
	}
}

func TestQueuedWhenAvailable(t *testing.T) {
	sender := &testSender{}
	queue := &testQueue{}
	m := New(NewNotifier(sender, testNotificationConfig{inbox: testStaffInbox}, logger.Discard()), queue, logger.Discard())

	if err := m.Handle(context.Background(), submitted()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue.confirmations) != 1 || len(queue.alerts) != 1 {
		t.Fatalf("expected one task per recipient, got %d confirmations %d alerts", len(queue.confirmations), len(queue.alerts))
	}
	if len(sender.confirmations) != 0 || len(sender.alerts) != 0 {
		t.Fatal("expected nothing sent inline")
	}
}

func TestOnlyTheUnqueuedEmailIsSentInline(t *testing.T) {
	sender := &testSender{}
	queue := &testQueue{alertErr: errors.New("redis down")}
	m := New(NewNotifier(sender, testNotificationConfig{inbox: testStaffInbox}, logger.Discard()), queue, logger.Discard())

	if err := m.Handle(context.Background(), submitted()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue.confirmations) != 1 || len(sender.confirmations) != 0 {
		t.Fatal("expected the confirmation to stay queued and not be sent inline")
	}
	if len(sender.alerts) != 1 {
		t.Fatalf("expected the alert inline, got %d", len(sender.alerts))
	}
}

func TestFallsBackInlineWhenEnqueueFails(t *testing.T) {
	sender := &testSender{}
	queue := &testQueue{err: errors.New("redis down")}
	m := New(NewNotifier(sender, testNotificationConfig{}, logger.Discard()), queue, logger.Discard())

	if err := m.Handle(context.Background(), submitted()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.confirmations) != 1 {
		t.Fatal("expected inline confirmation")
	}
	if len(sender.alerts) != 0 {
		t.Fatal("expected no staff alert without an inbox")
	}
}

func TestStaffAlertStillSentWhenConfirmationFails(t *testing.T) {
	sender := &testSender{failConfirm: true}
	n := NewNotifier(sender, testNotificationConfig{inbox: testStaffInbox}, logger.Discard())

	err := n.Notify(context.Background(), submitted())
	if err == nil || !strings.Contains(err.Error(), "customer confirmation") {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if len(sender.alerts) != 1 {
		t.Fatal("expected staff alert despite customer failure")
	}
}
