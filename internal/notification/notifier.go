package notification

import (
	"context"
	"errors"
	"fmt"

	"tentquote_backend/internal/email"
	"tentquote_backend/internal/events"
	"tentquote_backend/platform/config"
	"tentquote_backend/platform/logger"
)

const eventDateLayout = "Monday 2 January 2006"

// Notifier sends the customer confirmation and the staff alert for an enquiry.
type Notifier struct {
	sender       email.Sender
	staffInbox   string
	currencyCode string
	log          *logger.Logger
}

// NewNotifier creates a notifier. An empty staff inbox skips the staff alert.
func NewNotifier(sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Notifier {
	return &Notifier{
		sender:       sender,
		staffInbox:   cfg.GetStaffInboxAddress(),
		currencyCode: cfg.GetCurrencyCode(),
		log:          log,
	}
}

// Notify sends both emails. Both are attempted even if the first fails.
func (n *Notifier) Notify(ctx context.Context, event events.EnquirySubmitted) error {
	return errors.Join(n.NotifyCustomer(ctx, event), n.NotifyStaff(ctx, event))
}

// NotifyCustomer sends the thank-you email. Enquiries without an email
// address are skipped.
func (n *Notifier) NotifyCustomer(ctx context.Context, event events.EnquirySubmitted) error {
	if event.Email == "" {
		return nil
	}
	if err := n.sender.SendEnquiryConfirmation(ctx, event.Email, n.render(event)); err != nil {
		return fmt.Errorf("customer confirmation: %w", err)
	}
	n.log.Info("enquiry confirmation sent", "enquiryId", event.EnquiryID)
	return nil
}

// NotifyStaff sends the new-enquiry alert to the staff inbox, if one is set.
func (n *Notifier) NotifyStaff(ctx context.Context, event events.EnquirySubmitted) error {
	if n.staffInbox == "" {
		return nil
	}
	if err := n.sender.SendNewEnquiryAlert(ctx, n.staffInbox, n.render(event)); err != nil {
		return fmt.Errorf("staff alert: %w", err)
	}
	n.log.Info("new enquiry alert sent", "enquiryId", event.EnquiryID)
	return nil
}

func (n *Notifier) render(event events.EnquirySubmitted) email.Enquiry {
	lines := make([]email.Line, 0, len(event.Lines))
	for _, line := range event.Lines {
		lines = append(lines, email.Line{
			Name:     line.Name,
			Label:    line.Label,
			Quantity: line.Quantity,
			Total:    email.FormatMoney(line.LineTotalCents, n.currencyCode),
		})
	}

	var eventDate string
	if event.EventDate != nil {
		eventDate = event.EventDate.Format(eventDateLayout)
	}

	return email.Enquiry{
		Reference:     shortReference(event.EnquiryID.String()),
		CustomerName:  event.Name,
		Email:         event.Email,
		Telephone:     event.Telephone,
		EventType:     event.EventType,
		EventDate:     eventDate,
		VenueLocation: event.VenueLocation,
		TotalGuests:   event.TotalGuests,
		Comments:      event.Comments,
		SendBrochure:  event.SendBrochure,
		Lines:         lines,
		Total:         email.FormatMoney(event.TotalCents, n.currencyCode),
	}
}

func shortReference(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
