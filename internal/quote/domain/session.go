package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a customer's quote in progress, kept between the steps of the
// quoting flow until it is submitted or expires.
type Session struct {
	ID           uuid.UUID     `json:"id"`
	EventDetails *EventDetails `json:"event_details,omitempty"`
	Selection    Selection     `json:"selection"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewSession starts an empty quote.
func NewSession(id uuid.UUID, now time.Time) Session {
	return Session{
		ID:        id,
		Selection: NewSelection(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Interest is the tent types the customer asked for. It is empty until the
// event details step is completed, so no product is eligible before that.
func (s Session) Interest() InterestSet {
	if s.EventDetails == nil {
		return InterestSet{}
	}
	return s.EventDetails.Interest()
}

// ApplyEventDetails stores the event details and drops selected tents that
// fall outside the new interest. The dropped ids are returned.
func (s *Session) ApplyEventDetails(details EventDetails) []uuid.UUID {
	normalized := details.Normalize()
	s.EventDetails = &normalized
	return s.Selection.PruneByInterest(normalized.Interest())
}
