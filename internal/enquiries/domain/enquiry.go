package domain

import (
	"time"

	quote "tentquote_backend/internal/quote/domain"

	"github.com/google/uuid"
)

// Enquiry is a submitted quote. Products, extras and line items are copies
// taken at submission so the enquiry keeps the prices the customer saw.
type Enquiry struct {
	ID uuid.UUID `json:"id"`

	Name      string `json:"name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	EventType string `json:"event_type"`
	Comments  string `json:"comments"`

	SendBrochure bool `json:"send_brochure"`

	EventDate         *time.Time          `json:"event_date,omitempty"`
	VenueLocation     string              `json:"venue_location"`
	TotalGuests       int                 `json:"total_guests"`
	FormalDiningSeats int                 `json:"formal_dining_seats"`
	InterestedIn      []quote.TentTypeKey `json:"interested_in"`

	SelectedProducts []quote.Product                        `json:"selected_products"`
	SelectedExtras   map[uuid.UUID]quote.SelectedExtraState `json:"selected_extras"`
	LineItems        []quote.LineItem                       `json:"line_items"`

	ProductsSubtotalCents int64 `json:"products_subtotal_cents"`
	ExtrasSubtotalCents   int64 `json:"extras_subtotal_cents"`
	TotalCents            int64 `json:"total_cents"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEnquiry builds the record for a submission from the same selection and
// breakdown the customer was shown.
func NewEnquiry(contact quote.ContactDetails, details quote.EventDetails, sel quote.Selection, priced quote.Breakdown) Enquiry {
	snapshot := sel.Clone()
	return Enquiry{
		ID:                    uuid.New(),
		Name:                  contact.Name,
		Email:                 contact.Email,
		Telephone:             contact.Telephone,
		EventType:             contact.EventType,
		Comments:              contact.Comments,
		SendBrochure:          contact.SendBrochure,
		EventDate:             details.EventDate,
		VenueLocation:         details.VenueLocation,
		TotalGuests:           details.TotalGuests,
		FormalDiningSeats:     details.FormalDiningSeats,
		InterestedIn:          details.InterestedKeys(),
		SelectedProducts:      snapshot.Products,
		SelectedExtras:        snapshot.Extras,
		LineItems:             append([]quote.LineItem(nil), priced.LineItems...),
		ProductsSubtotalCents: priced.ProductsSubtotalCents,
		ExtrasSubtotalCents:   priced.ExtrasSubtotalCents,
		TotalCents:            priced.TotalCents,
		Status:                InitialStatus,
	}
}

// DateWindow filters enquiries by event date relative to now.
type DateWindow string

const (
	WindowAll       DateWindow = ""
	WindowUpcoming  DateWindow = "upcoming"
	WindowPast      DateWindow = "past"
	WindowThisMonth DateWindow = "this_month"
	WindowNextMonth DateWindow = "next_month"
)

// Valid reports whether w is a known window.
func (w DateWindow) Valid() bool {
	switch w {
	case WindowAll, WindowUpcoming, WindowPast, WindowThisMonth, WindowNextMonth:
		return true
	}
	return false
}

// Range returns the half-open [from, to) date range for w. A zero bound is
// unbounded on that side.
func (w DateWindow) Range(now time.Time) (from, to time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	switch w {
	case WindowUpcoming:
		return today, time.Time{}
	case WindowPast:
		return time.Time{}, today
	case WindowThisMonth:
		return monthStart, monthStart.AddDate(0, 1, 0)
	case WindowNextMonth:
		return monthStart.AddDate(0, 1, 0), monthStart.AddDate(0, 2, 0)
	}
	return time.Time{}, time.Time{}
}

// ListFilter narrows the staff enquiry list.
type ListFilter struct {
	Search    string
	Status    *Status
	EventType string
	Window    DateWindow
	Limit     int
	Offset    int
}

// ListResult is one page of enquiries.
type ListResult struct {
	Items []Enquiry `json:"items"`
	Total int       `json:"total"`
}

// TentTypePopularity counts how often a tent type appears in enquiries.
type TentTypePopularity struct {
	TentType string `json:"tent_type"`
	Count    int    `json:"count"`
}

// DashboardStats is the back-office overview.
type DashboardStats struct {
	Products         int                  `json:"products"`
	TentTypes        int                  `json:"tent_types"`
	Extras           int                  `json:"extras"`
	NewEnquiries     int                  `json:"new_enquiries"`
	ByStatus         map[Status]int       `json:"by_status"`
	PopularTentTypes []TentTypePopularity `json:"popular_tent_types"`
}
