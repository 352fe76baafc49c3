// Package email renders and delivers the enquiry emails.
package email

import (
	"context"

	"tentquote_backend/platform/logger"
)

// Line is one priced row as shown in an email.
type Line struct {
	Name     string
	Label    string
	Quantity int
	Total    string
}

// Enquiry is what both enquiry emails render. Amounts are preformatted.
type Enquiry struct {
	Reference     string
	CustomerName  string
	Email         string
	Telephone     string
	EventType     string
	EventDate     string
	VenueLocation string
	TotalGuests   int
	Comments      string
	SendBrochure  bool
	Lines         []Line
	Total         string
}

// Sender delivers enquiry emails.
type Sender interface {
	SendEnquiryConfirmation(ctx context.Context, toEmail string, enquiry Enquiry) error
	SendNewEnquiryAlert(ctx context.Context, toEmail string, enquiry Enquiry) error
}

// NoopSender logs instead of sending. Used when SMTP is not configured.
type NoopSender struct {
	log *logger.Logger
}

// NewNoopSender creates a sender that only logs.
func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) SendEnquiryConfirmation(_ context.Context, toEmail string, enquiry Enquiry) error {
	s.log.Info("email disabled, skipping enquiry confirmation", "to", toEmail, "reference", enquiry.Reference)
	return nil
}

func (s *NoopSender) SendNewEnquiryAlert(_ context.Context, toEmail string, enquiry Enquiry) error {
	s.log.Info("email disabled, skipping new enquiry alert", "to", toEmail, "reference", enquiry.Reference)
	return nil
}

var (
	_ Sender = (*NoopSender)(nil)
	_ Sender = (*SMTPSender)(nil)
)
