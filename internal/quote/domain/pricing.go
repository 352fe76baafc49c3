package domain

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// SourceType says whether a line item comes from a tent or an extra.
type SourceType string

const (
	SourceProduct SourceType = "product"
	SourceExtra   SourceType = "extra"
)

// LineItem is one priced row of a quote. The same rows are shown to the
// customer and stored on the enquiry.
type LineItem struct {
	SourceType     SourceType `json:"source_type"`
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Label          string     `json:"label,omitempty"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	Quantity       int        `json:"quantity"`
	LineTotalCents int64      `json:"line_total_cents"`
}

// WarningCode classifies a pricing warning.
type WarningCode string

const (
	WarningQuantityClamped   WarningCode = "quantity_clamped"
	WarningQuantityDefaulted WarningCode = "quantity_defaulted"
	WarningExtraMissing      WarningCode = "extra_missing"
	WarningProductMissing    WarningCode = "product_missing"
)

// Warning reports something the engine corrected instead of failing on.
type Warning struct {
	Code    WarningCode `json:"code"`
	ItemID  uuid.UUID   `json:"item_id"`
	Message string      `json:"message"`
}

// Breakdown is the priced result for a selection. Amounts are minor units.
type Breakdown struct {
	ProductsSubtotalCents int64      `json:"products_subtotal_cents"`
	ExtrasSubtotalCents   int64      `json:"extras_subtotal_cents"`
	TotalCents            int64      `json:"total_cents"`
	LineItems             []LineItem `json:"line_items"`
	Warnings              []Warning  `json:"warnings,omitempty"`
}

// ComputeTotal prices a selection against the current extras catalog.
//
// Products are priced in selection order, then extras in catalog order.
// Extras are configured once per quote and priced exactly once no matter how
// many tents are selected. Extra states that point at extras missing from the
// catalog contribute nothing and produce a warning; so do quantities that had
// to be clamped or defaulted. ComputeTotal never fails.
func ComputeTotal(sel Selection, extras []Extra) Breakdown {
	out := Breakdown{
		LineItems: make([]LineItem, 0, len(sel.Products)+len(sel.Extras)),
	}

	for _, p := range sel.Products {
		out.ProductsSubtotalCents += p.PriceCents
		out.LineItems = append(out.LineItems, LineItem{
			SourceType:     SourceProduct,
			ID:             p.ID,
			Name:           p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       1,
			LineTotalCents: p.PriceCents,
		})
	}

	known := make(map[uuid.UUID]struct{}, len(extras))
	for _, extra := range extras {
		id := extra.ExtraID()
		if _, dup := known[id]; dup {
			continue
		}
		known[id] = struct{}{}

		state, present := sel.Extras[id]
		c := extra.contribute(state, present)
		out.Warnings = append(out.Warnings, c.warnings...)
		if !c.engaged {
			continue
		}

		lineTotal := c.total()
		out.ExtrasSubtotalCents += lineTotal
		out.LineItems = append(out.LineItems, LineItem{
			SourceType:     SourceExtra,
			ID:             id,
			Name:           extra.ExtraName(),
			Label:          c.label,
			UnitPriceCents: c.unitPrice,
			Quantity:       c.quantity,
			LineTotalCents: lineTotal,
		})
	}

	out.Warnings = append(out.Warnings, missingExtraWarnings(sel, known)...)
	out.TotalCents = out.ProductsSubtotalCents + out.ExtrasSubtotalCents
	return out
}

func missingExtraWarnings(sel Selection, known map[uuid.UUID]struct{}) []Warning {
	var missing []uuid.UUID
	for id, state := range sel.Extras {
		if _, ok := known[id]; ok {
			continue
		}
		// an untouched default for a deleted extra is not worth reporting
		if !state.Selected && (state.Quantity == nil || *state.Quantity == 0) {
			continue
		}
		missing = append(missing, id)
	}
	sort.Slice(missing, func(i, j int) bool { return bytes.Compare(missing[i][:], missing[j][:]) < 0 })

	warnings := make([]Warning, 0, len(missing))
	for _, id := range missing {
		warnings = append(warnings, Warning{
			Code:    WarningExtraMissing,
			ItemID:  id,
			Message: "extra is no longer offered and was not priced",
		})
	}
	return warnings
}

// PruneMissingProducts drops selected products that are absent from the
// catalog, returning a warning for each. Used before pricing so a stale
// product contributes nothing.
func PruneMissingProducts(sel *Selection, exists func(uuid.UUID) bool) []Warning {
	var warnings []Warning
	kept := sel.Products[:0]
	for _, p := range sel.Products {
		if exists(p.ID) {
			kept = append(kept, p)
			continue
		}
		warnings = append(warnings, Warning{
			Code:    WarningProductMissing,
			ItemID:  p.ID,
			Message: p.Name + " is no longer available and was not priced",
		})
	}
	sel.Products = kept
	return warnings
}
