package adapters

import (
	"context"
	"fmt"

	enqdomain "tentquote_backend/internal/enquiries/domain"
	enqsvc "tentquote_backend/internal/enquiries/service"
	quotesvc "tentquote_backend/internal/quote/service"

	"github.com/google/uuid"
)

// EnquiryWriter adapts the enquiries service for the quote domain.
// It implements quotesvc.EnquiryWriter by turning a submission into an
// enquiry record and delegating to enqsvc.Service.Create.
type EnquiryWriter struct {
	svc *enqsvc.Service
}

// NewEnquiryWriter creates a new enquiry writer adapter.
func NewEnquiryWriter(svc *enqsvc.Service) *EnquiryWriter {
	return &EnquiryWriter{svc: svc}
}

// CreateEnquiry stores the submission with the breakdown the customer was shown.
func (a *EnquiryWriter) CreateEnquiry(ctx context.Context, sub quotesvc.Submission) (uuid.UUID, error) {
	enquiry := enqdomain.NewEnquiry(sub.Contact, sub.EventDetails, sub.Selection, sub.Breakdown)

	created, err := a.svc.Create(ctx, enquiry)
	if err != nil {
		return uuid.Nil, fmt.Errorf("enquiry writer adapter: %w", err)
	}
	return created.ID, nil
}

// Compile-time check that EnquiryWriter implements quotesvc.EnquiryWriter.
var _ quotesvc.EnquiryWriter = (*EnquiryWriter)(nil)
