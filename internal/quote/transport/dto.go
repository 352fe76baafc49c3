package transport

import (
	"time"

	"tentquote_backend/internal/quote/domain"

	"github.com/google/uuid"
)

// EventDetailsRequest is the first quoting step. InterestedIn maps tent type
// keys or names to whether the customer wants them.
type EventDetailsRequest struct {
	EventDate         string          `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	VenueLocation     string          `json:"venue_location" validate:"max=300"`
	TotalGuests       int             `json:"total_guests" validate:"min=0,max=100000"`
	FormalDiningSeats int             `json:"formal_dining_seats" validate:"min=0,max=100000"`
	InterestedIn      map[string]bool `json:"interested_in" validate:"max=50"`
}

type ExtraSelectedRequest struct {
	Selected *bool `json:"selected" validate:"required"`
}

type ExtraQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// SubmitRequest is the contact step that turns the quote into an enquiry.
type SubmitRequest struct {
	Name         string `json:"name" validate:"required,notblank,max=200"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Telephone    string `json:"telephone" validate:"required,notblank,max=40"`
	EventType    string `json:"event_type" validate:"required,notblank,max=100"`
	Comments     string `json:"comments" validate:"max=5000"`
	SendBrochure bool   `json:"send_brochure"`
}

// SessionResponse is the quote as the customer sees it after every change.
type SessionResponse struct {
	ID             uuid.UUID                               `json:"id"`
	EventDetails   *domain.EventDetails                    `json:"event_details,omitempty"`
	Products       []domain.Product                        `json:"products"`
	Extras         map[uuid.UUID]domain.SelectedExtraState `json:"extras"`
	Breakdown      domain.Breakdown                        `json:"breakdown"`
	Warnings       []domain.Warning                        `json:"warnings,omitempty"`
	PrunedProducts []uuid.UUID                             `json:"pruned_products,omitempty"`
	UpdatedAt      time.Time                               `json:"updated_at"`
}

type SubmitResponse struct {
	EnquiryID  uuid.UUID         `json:"enquiry_id"`
	TotalCents int64             `json:"total_cents"`
	LineItems  []domain.LineItem `json:"line_items"`
}
