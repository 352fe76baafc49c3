package domain

import (
	"slices"
	"strings"
	"unicode"

	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
)

// ProductStatus is the availability of a tent.
type ProductStatus string

const (
	ProductAvailable   ProductStatus = "available"
	ProductBooked      ProductStatus = "booked"
	ProductMaintenance ProductStatus = "maintenance"
)

// Valid reports whether s is a known status.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductAvailable, ProductBooked, ProductMaintenance:
		return true
	}
	return false
}

// TentTypeKey identifies a tent type in the customer's "interested in" map:
// the lower-cased name with all whitespace removed.
type TentTypeKey string

// KeyOf derives the key for a tent type name or an already-derived key.
func KeyOf(name string) TentTypeKey {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return TentTypeKey(b.String())
}

// TentTypeRef is a product's reference to a tent type by name. A product's
// type must match the name of an existing tent type when it is saved.
type TentTypeRef string

// Key returns the interest key of the referenced tent type.
func (r TentTypeRef) Key() TentTypeKey { return KeyOf(string(r)) }

// Product is a tent as copied into a quote. It is a value snapshot: later
// catalog edits never change a product that has already been selected.
type Product struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Type        TentTypeRef   `json:"type"`
	Size        string        `json:"size"`
	PriceCents  int64         `json:"price_cents"`
	Description string        `json:"description"`
	ImageURL    *string       `json:"image_url,omitempty"`
	Status      ProductStatus `json:"status"`
}

// EligibleFor reports whether the product's tent type is in the interest set.
func (p Product) EligibleFor(interest InterestSet) bool {
	return interest.Contains(p.Type.Key())
}

// InterestSet is the set of tent types a customer said they want.
type InterestSet map[TentTypeKey]struct{}

// NewInterestSet builds a set from raw keys or names.
func NewInterestSet(keys ...string) InterestSet {
	set := make(InterestSet, len(keys))
	for _, k := range keys {
		if key := KeyOf(k); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Contains reports membership.
func (s InterestSet) Contains(key TentTypeKey) bool {
	_, ok := s[KeyOf(string(key))]
	return ok
}

// SelectedExtraState is the customer's configuration of one extra.
type SelectedExtraState struct {
	Selected bool `json:"selected"`
	Quantity *int `json:"quantity,omitempty"`
}

// Selection is the in-progress quote: chosen tents in the order they were
// picked, and the configuration of each extra the customer touched.
type Selection struct {
	Products []Product                        `json:"products"`
	Extras   map[uuid.UUID]SelectedExtraState `json:"extras"`
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{
		Products: []Product{},
		Extras:   map[uuid.UUID]SelectedExtraState{},
	}
}

// Clone returns a deep copy so callers can mutate without sharing state.
func (s Selection) Clone() Selection {
	out := Selection{
		Products: slices.Clone(s.Products),
		Extras:   make(map[uuid.UUID]SelectedExtraState, len(s.Extras)),
	}
	if out.Products == nil {
		out.Products = []Product{}
	}
	for id, state := range s.Extras {
		if state.Quantity != nil {
			q := *state.Quantity
			state.Quantity = &q
		}
		out.Extras[id] = state
	}
	return out
}

// HasProduct reports whether the product is selected.
func (s Selection) HasProduct(id uuid.UUID) bool {
	return slices.ContainsFunc(s.Products, func(p Product) bool { return p.ID == id })
}

// AddProduct selects p. Adding an already selected product changes nothing.
func (s *Selection) AddProduct(p Product) bool {
	if s.HasProduct(p.ID) {
		return false
	}
	s.Products = append(s.Products, p)
	return true
}

// RemoveProduct deselects a product. Removing an absent product changes nothing.
func (s *Selection) RemoveProduct(id uuid.UUID) bool {
	before := len(s.Products)
	s.Products = slices.DeleteFunc(s.Products, func(p Product) bool { return p.ID == id })
	return len(s.Products) != before
}

// SetExtraSelected switches a checkbox or toggle extra. Other types are
// rejected and the selection is left untouched.
func (s *Selection) SetExtraSelected(extra Extra, selected bool) error {
	if _, ok := extra.(Selectable); !ok {
		return apperr.Validation("extra " + extra.ExtraName() + " cannot be switched on or off").
			WithOp("selection.set_extra_selected").
			WithDetails(map[string]string{"type": string(extra.Type())})
	}

	s.ensureExtras()
	state := s.Extras[extra.ExtraID()]
	state.Selected = selected
	if q, ok := extra.(Quantified); ok && state.Quantity == nil {
		state.Quantity = intPtr(q.QuantityBounds().Min)
	}
	s.Extras[extra.ExtraID()] = state
	return nil
}

// SetExtraQuantity sets the quantity of a range or toggle extra, clamping it
// into the extra's bounds. A warning is returned when clamping happened.
func (s *Selection) SetExtraQuantity(extra Extra, quantity int) ([]Warning, error) {
	q, ok := extra.(Quantified)
	if !ok {
		return nil, apperr.Validation("extra " + extra.ExtraName() + " has no quantity").
			WithOp("selection.set_extra_quantity").
			WithDetails(map[string]string{"type": string(extra.Type())})
	}

	clamped, changed := q.QuantityBounds().Clamp(quantity)
	s.ensureExtras()
	state := s.Extras[extra.ExtraID()]
	state.Quantity = intPtr(clamped)
	s.Extras[extra.ExtraID()] = state

	if !changed {
		return nil, nil
	}
	return []Warning{{
		Code:    WarningQuantityClamped,
		ItemID:  extra.ExtraID(),
		Message: "quantity outside the allowed range was clamped",
	}}, nil
}

// DefaultState is the state shown for an extra the customer has not touched:
// switched off, with the slider at its minimum.
func DefaultState(extra Extra) SelectedExtraState {
	if q, ok := extra.(Quantified); ok {
		return SelectedExtraState{Quantity: intPtr(q.QuantityBounds().Min)}
	}
	return SelectedExtraState{}
}

// PruneByInterest drops selected products whose tent type is no longer in
// the interest set and returns their ids. Extras are per quote and are kept.
func (s *Selection) PruneByInterest(interest InterestSet) []uuid.UUID {
	var removed []uuid.UUID
	s.Products = slices.DeleteFunc(s.Products, func(p Product) bool {
		if p.EligibleFor(interest) {
			return false
		}
		removed = append(removed, p.ID)
		return true
	})
	return removed
}

func (s *Selection) ensureExtras() {
	if s.Extras == nil {
		s.Extras = map[uuid.UUID]SelectedExtraState{}
	}
}

func intPtr(v int) *int { return &v }
