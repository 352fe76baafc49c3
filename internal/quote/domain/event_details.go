package domain

import (
	"sort"
	"strings"
	"time"

	"tentquote_backend/platform/apperr"
)

// EventDetails is the first step of the quoting flow. InterestedIn decides
// which tents can be selected.
type EventDetails struct {
	EventDate         *time.Time           `json:"event_date,omitempty"`
	VenueLocation     string               `json:"venue_location"`
	TotalGuests       int                  `json:"total_guests"`
	FormalDiningSeats int                  `json:"formal_dining_seats"`
	InterestedIn      map[TentTypeKey]bool `json:"interested_in"`
}

// Validate rejects negative counts.
func (d EventDetails) Validate() error {
	problems := map[string]string{}
	if d.TotalGuests < 0 {
		problems["total_guests"] = "must not be negative"
	}
	if d.FormalDiningSeats < 0 {
		problems["formal_dining_seats"] = "must not be negative"
	}
	if len(problems) == 0 {
		return nil
	}
	return apperr.Validation("invalid event details").
		WithOp("event_details.validate").
		WithDetails(problems)
}

// Normalize re-keys InterestedIn through KeyOf so "Stretch Tent",
// "stretchTent" and "stretchtent" all mean the same type.
func (d EventDetails) Normalize() EventDetails {
	normalized := make(map[TentTypeKey]bool, len(d.InterestedIn))
	for k, v := range d.InterestedIn {
		key := KeyOf(string(k))
		if key == "" {
			continue
		}
		normalized[key] = normalized[key] || v
	}
	d.InterestedIn = normalized
	d.VenueLocation = strings.TrimSpace(d.VenueLocation)
	if d.EventDate != nil {
		day := d.EventDate.UTC().Truncate(24 * time.Hour)
		d.EventDate = &day
	}
	return d
}

// Interest returns the tent types marked true.
func (d EventDetails) Interest() InterestSet {
	set := make(InterestSet, len(d.InterestedIn))
	for k, v := range d.InterestedIn {
		if v {
			set[KeyOf(string(k))] = struct{}{}
		}
	}
	return set
}

// InterestedKeys lists the interest set in sorted order for display and storage.
func (d EventDetails) InterestedKeys() []TentTypeKey {
	keys := make([]TentTypeKey, 0, len(d.InterestedIn))
	for k := range d.Interest() {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ContactDetails is the last step of the quoting flow.
type ContactDetails struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	EventType string `json:"event_type"`
	Comments  string `json:"comments"`
	// SendBrochure asks staff to post the printed brochure.
	SendBrochure bool `json:"send_brochure"`
}
