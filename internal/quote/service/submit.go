package service

import (
	"context"
	"strings"

	"tentquote_backend/internal/events"
	"tentquote_backend/internal/quote/domain"
	"tentquote_backend/internal/quote/transport"
	"tentquote_backend/platform/apperr"
	"tentquote_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Submit turns the quote into an enquiry. The enquiry stores exactly the
// selection and breakdown priced here. The session is only removed after the
// enquiry is stored, so a failed submit can be retried unchanged.
func (s *Service) Submit(ctx context.Context, id uuid.UUID, req transport.SubmitRequest) (transport.SubmitResponse, error) {
	contact, err := s.contactDetails(req)
	if err != nil {
		return transport.SubmitResponse{}, err
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SubmitResponse{}, err
	}
	if session.EventDetails == nil {
		return transport.SubmitResponse{}, apperr.Validation("event details are required before submitting").
			WithOp("quote.submit")
	}

	sel, breakdown, err := s.price(ctx, session)
	if err != nil {
		return transport.SubmitResponse{}, err
	}

	enquiryID, err := s.enquiries.CreateEnquiry(ctx, Submission{
		SessionID:    session.ID,
		Contact:      contact,
		EventDetails: *session.EventDetails,
		Selection:    sel,
		Breakdown:    breakdown,
	})
	if err != nil {
		s.log.Error("enquiry submission failed", "sessionId", id, "error", err)
		return transport.SubmitResponse{}, apperr.Persistence("failed to submit enquiry, please try again", err).
			WithOp("quote.submit")
	}

	s.log.Info("enquiry submitted", "sessionId", id, "enquiryId", enquiryID, "totalCents", breakdown.TotalCents)
	s.bus.Publish(ctx, submittedEvent(enquiryID, contact, *session.EventDetails, breakdown))

	if err := s.store.Delete(ctx, id); err != nil {
		s.log.Warn("failed to remove submitted quote session", "sessionId", id, "error", err)
	}

	return transport.SubmitResponse{
		EnquiryID:  enquiryID,
		TotalCents: breakdown.TotalCents,
		LineItems:  breakdown.LineItems,
	}, nil
}

func (s *Service) contactDetails(req transport.SubmitRequest) (domain.ContactDetails, error) {
	telephone, err := s.phones.Parse(req.Telephone)
	if err != nil {
		return domain.ContactDetails{}, apperr.Validation("invalid telephone number").
			WithOp("quote.submit").
			WithDetails(map[string]string{"telephone": "invalid phone number"})
	}

	contact := domain.ContactDetails{
		Name:         sanitize.Line(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Telephone:    telephone,
		EventType:    sanitize.Line(req.EventType),
		Comments:     sanitize.Text(req.Comments),
		SendBrochure: req.SendBrochure,
	}
	if contact.Name == "" || contact.EventType == "" {
		return domain.ContactDetails{}, apperr.Validation("name and event type are required").
			WithOp("quote.submit")
	}
	return contact, nil
}

func submittedEvent(enquiryID uuid.UUID, contact domain.ContactDetails, details domain.EventDetails, breakdown domain.Breakdown) events.EnquirySubmitted {
	lines := make([]events.EnquiryLine, 0, len(breakdown.LineItems))
	for _, item := range breakdown.LineItems {
		lines = append(lines, events.EnquiryLine{
			Name:           item.Name,
			Label:          item.Label,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return events.EnquirySubmitted{
		BaseEvent:     events.NewBaseEvent(),
		EnquiryID:     enquiryID,
		Name:          contact.Name,
		Email:         contact.Email,
		Telephone:     contact.Telephone,
		EventType:     contact.EventType,
		EventDate:     details.EventDate,
		VenueLocation: details.VenueLocation,
		TotalGuests:   details.TotalGuests,
		Comments:      contact.Comments,
		SendBrochure:  contact.SendBrochure,
		Lines:         lines,
		TotalCents:    breakdown.TotalCents,
	}
}
