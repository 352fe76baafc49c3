// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"tentquote_backend/platform/events"
	"tentquote_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Publisher   = events.Publisher
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates the process-wide event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Enquiry Domain Events
// =============================================================================

// EnquiryLine is the part of a priced line item that notifications render.
type EnquiryLine struct {
	Name           string `json:"name"`
	Label          string `json:"label,omitempty"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"lineTotalCents"`
}

// EnquirySubmitted is published after a customer's quote has been stored.
type EnquirySubmitted struct {
	BaseEvent
	EnquiryID     uuid.UUID     `json:"enquiryId"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Telephone     string        `json:"telephone"`
	EventType     string        `json:"eventType"`
	EventDate     *time.Time    `json:"eventDate,omitempty"`
	VenueLocation string        `json:"venueLocation"`
	TotalGuests   int           `json:"totalGuests"`
	Comments      string        `json:"comments,omitempty"`
	SendBrochure  bool          `json:"sendBrochure"`
	Lines         []EnquiryLine `json:"lines"`
	TotalCents    int64         `json:"totalCents"`
}

func (e EnquirySubmitted) EventName() string { return "enquiries.submitted" }

// EnquiryStatusChanged is published when staff move an enquiry to a new status.
type EnquiryStatusChanged struct {
	BaseEvent
	EnquiryID uuid.UUID `json:"enquiryId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy uuid.UUID `json:"changedBy"`
}

func (e EnquiryStatusChanged) EventName() string { return "enquiries.status_changed" }

// =============================================================================
// Catalog Domain Events
// =============================================================================

// CatalogChanged is published after any staff edit of products, tent types or extras.
type CatalogChanged struct {
	BaseEvent
	Entity string    `json:"entity"`
	ID     uuid.UUID `json:"id"`
	Action string    `json:"action"`
}

func (e CatalogChanged) EventName() string { return "catalog.changed" }
