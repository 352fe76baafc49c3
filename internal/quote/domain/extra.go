// Package domain holds the quoting rules: how extras are priced, how a
// customer's selection stays consistent across the quoting steps, and how a
// selection turns into a total. Nothing here performs I/O.
package domain

import (
	"strings"
	"time"

	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
)

// ExtraType discriminates the pricing strategy of an extra.
type ExtraType string

const (
	ExtraCheckbox ExtraType = "CHECKBOX"
	ExtraRange    ExtraType = "RANGE"
	ExtraToggle   ExtraType = "TOGGLE_WITH_QUANTITY"
)

// Valid reports whether t is one of the known strategies.
func (t ExtraType) Valid() bool {
	switch t {
	case ExtraCheckbox, ExtraRange, ExtraToggle:
		return true
	}
	return false
}

// ExtraDefinition is an extra as stored and edited by staff. Optional fields
// are only meaningful for some types; Strategy turns the record into the
// variant the pricing engine works with.
type ExtraDefinition struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Type              ExtraType `json:"type"`
	PriceCents        *int64    `json:"price_cents,omitempty"`
	PricePerUnitCents *int64    `json:"price_per_unit_cents,omitempty"`
	MinQuantity       *int      `json:"min_quantity,omitempty"`
	MaxQuantity       *int      `json:"max_quantity,omitempty"`
	LeftLabel         *string   `json:"left_label,omitempty"`
	RightLabel        *string   `json:"right_label,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Validate checks the fields required by the extra's type. The returned
// error is a validation apperr whose Details map field name to problem.
func (d ExtraDefinition) Validate() error {
	problems := map[string]string{}

	if strings.TrimSpace(d.Name) == "" {
		problems["name"] = "required"
	}
	if d.Type == "" {
		problems["type"] = "required"
	} else if !d.Type.Valid() {
		problems["type"] = "must be one of CHECKBOX, RANGE, TOGGLE_WITH_QUANTITY"
	}
	switch d.Type {
	case ExtraCheckbox, ExtraToggle:
		checkPrice(d.PriceCents, problems)
	}

	switch d.Type {
	case ExtraRange:
		if d.PricePerUnitCents == nil {
			problems["price_per_unit_cents"] = "required"
		} else if *d.PricePerUnitCents < 0 {
			problems["price_per_unit_cents"] = "must not be negative"
		}
		checkBounds(d.MinQuantity, d.MaxQuantity, problems)
	case ExtraToggle:
		if blank(d.LeftLabel) {
			problems["left_label"] = "required"
		}
		if blank(d.RightLabel) {
			problems["right_label"] = "required"
		}
		checkBounds(d.MinQuantity, d.MaxQuantity, problems)
	}

	if len(problems) == 0 {
		return nil
	}
	return apperr.Validation("invalid extra definition").
		WithOp("extra.validate").
		WithDetails(problems)
}

func checkPrice(price *int64, problems map[string]string) {
	if price == nil {
		problems["price_cents"] = "required"
	} else if *price < 0 {
		problems["price_cents"] = "must not be negative"
	}
}

func checkBounds(minQty, maxQty *int, problems map[string]string) {
	if minQty == nil {
		problems["min_quantity"] = "required"
	} else if *minQty < 0 {
		problems["min_quantity"] = "must not be negative"
	}
	if maxQty == nil {
		problems["max_quantity"] = "required"
	} else if *maxQty < 0 {
		problems["max_quantity"] = "must not be negative"
	}
	if minQty != nil && maxQty != nil && *minQty > *maxQty {
		problems["max_quantity"] = "must be greater than or equal to min_quantity"
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// Strategy validates the definition and returns its pricing variant.
func (d ExtraDefinition) Strategy() (Extra, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	switch d.Type {
	case ExtraCheckbox:
		return CheckboxExtra{ID: d.ID, Name: d.Name, PriceCents: *d.PriceCents}, nil
	case ExtraRange:
		return RangeExtra{
			ID:                d.ID,
			Name:              d.Name,
			PricePerUnitCents: *d.PricePerUnitCents,
			Bounds:            QuantityBounds{Min: *d.MinQuantity, Max: *d.MaxQuantity},
		}, nil
	default:
		return ToggleExtra{
			ID:         d.ID,
			Name:       d.Name,
			PriceCents: *d.PriceCents,
			LeftLabel:  strings.TrimSpace(*d.LeftLabel),
			RightLabel: strings.TrimSpace(*d.RightLabel),
			Bounds:     QuantityBounds{Min: *d.MinQuantity, Max: *d.MaxQuantity},
		}, nil
	}
}

// Strategies converts a catalog listing, skipping definitions that no longer
// validate. The skipped ids are returned so callers can log them.
func Strategies(defs []ExtraDefinition) ([]Extra, []uuid.UUID) {
	extras := make([]Extra, 0, len(defs))
	var invalid []uuid.UUID
	for _, def := range defs {
		extra, err := def.Strategy()
		if err != nil {
			invalid = append(invalid, def.ID)
			continue
		}
		extras = append(extras, extra)
	}
	return extras, invalid
}

// QuantityBounds is the inclusive slider range of RANGE and toggle extras.
type QuantityBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Clamp moves q into the bounds and reports whether it had to.
func (b QuantityBounds) Clamp(q int) (int, bool) {
	switch {
	case q < b.Min:
		return b.Min, true
	case q > b.Max:
		return b.Max, true
	}
	return q, false
}

// Extra is a priced add-on in one of its pricing strategies. The set of
// implementations is closed: adding a strategy means implementing contribute,
// so the engine cannot silently ignore a new type.
type Extra interface {
	ExtraID() uuid.UUID
	ExtraName() string
	Type() ExtraType
	contribute(state SelectedExtraState, present bool) contribution
}

// contribution is what one extra adds to a quote.
type contribution struct {
	engaged   bool
	unitPrice int64
	quantity  int
	label     string
	warnings  []Warning
}

func (c contribution) total() int64 {
	return c.unitPrice * int64(c.quantity)
}

// Selectable extras accept an on/off choice.
type Selectable interface {
	Extra
	selectable()
}

// Quantified extras carry a bounded quantity.
type Quantified interface {
	Extra
	QuantityBounds() QuantityBounds
}

// CheckboxExtra is a flat-price add-on billed once when selected.
type CheckboxExtra struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
}

func (e CheckboxExtra) ExtraID() uuid.UUID { return e.ID }
func (e CheckboxExtra) ExtraName() string  { return e.Name }
func (e CheckboxExtra) Type() ExtraType    { return ExtraCheckbox }
func (e CheckboxExtra) selectable()        {}

func (e CheckboxExtra) contribute(state SelectedExtraState, present bool) contribution {
	if !present || !state.Selected {
		return contribution{}
	}
	return contribution{engaged: true, unitPrice: e.PriceCents, quantity: 1}
}

// RangeExtra is billed per unit for a quantity picked on a bounded slider.
type RangeExtra struct {
	ID                uuid.UUID
	Name              string
	PricePerUnitCents int64
	Bounds            QuantityBounds
}

func (e RangeExtra) ExtraID() uuid.UUID             { return e.ID }
func (e RangeExtra) ExtraName() string              { return e.Name }
func (e RangeExtra) Type() ExtraType                { return ExtraRange }
func (e RangeExtra) QuantityBounds() QuantityBounds { return e.Bounds }

func (e RangeExtra) contribute(state SelectedExtraState, present bool) contribution {
	if !present {
		return contribution{}
	}
	qty, warnings := effectiveQuantity(e.ID, e.Bounds, state.Quantity)
	return contribution{
		engaged:   qty > 0,
		unitPrice: e.PricePerUnitCents,
		quantity:  qty,
		warnings:  warnings,
	}
}

// ToggleExtra pairs a two-position switch with a bounded quantity. The
// quantity is always billed at price per unit; the switch only decides which
// label describes the line.
type ToggleExtra struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	LeftLabel  string
	RightLabel string
	Bounds     QuantityBounds
}

func (e ToggleExtra) ExtraID() uuid.UUID             { return e.ID }
func (e ToggleExtra) ExtraName() string              { return e.Name }
func (e ToggleExtra) Type() ExtraType                { return ExtraToggle }
func (e ToggleExtra) QuantityBounds() QuantityBounds { return e.Bounds }
func (e ToggleExtra) selectable()                    {}

// Label returns the label for the switch position.
func (e ToggleExtra) Label(on bool) string {
	if on {
		return e.RightLabel
	}
	return e.LeftLabel
}

func (e ToggleExtra) contribute(state SelectedExtraState, present bool) contribution {
	if !present {
		return contribution{}
	}
	qty, warnings := effectiveQuantity(e.ID, e.Bounds, state.Quantity)
	return contribution{
		engaged:   qty > 0,
		unitPrice: e.PriceCents,
		quantity:  qty,
		label:     e.Label(state.Selected),
		warnings:  warnings,
	}
}

func effectiveQuantity(id uuid.UUID, bounds QuantityBounds, q *int) (int, []Warning) {
	if q == nil {
		return bounds.Min, []Warning{{
			Code:    WarningQuantityDefaulted,
			ItemID:  id,
			Message: "no quantity chosen, minimum used",
		}}
	}
	clamped, changed := bounds.Clamp(*q)
	if !changed {
		return clamped, nil
	}
	return clamped, []Warning{{
		Code:    WarningQuantityClamped,
		ItemID:  id,
		Message: "quantity outside the allowed range was clamped",
	}}
}
