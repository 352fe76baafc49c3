package domain

import (
	"testing"

	"github.com/google/uuid"
)

var (
	p1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	p2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	e1 = uuid.MustParse("00000000-0000-0000-0000-0000000000e1")
	e2 = uuid.MustParse("00000000-0000-0000-0000-0000000000e2")
	e3 = uuid.MustParse("00000000-0000-0000-0000-0000000000e3")
)

func stretchTent() Product {
	return Product{ID: p1, Name: "Stretch Tent", Type: "Stretch Tent", PriceCents: 1000, Status: ProductAvailable}
}

func marquee() Product {
	return Product{ID: p2, Name: "Marquee 9x12", Type: "Traditional Marquee", PriceCents: 2500, Status: ProductAvailable}
}

func lighting() CheckboxExtra {
	return CheckboxExtra{ID: e1, Name: "Festoon lighting", PriceCents: 50}
}

func chairs() RangeExtra {
	return RangeExtra{ID: e2, Name: "Chairs", PricePerUnitCents: 2, Bounds: QuantityBounds{Min: 5, Max: 50}}
}

func heaters() ToggleExtra {
	return ToggleExtra{ID: e3, Name: "Heaters", PriceCents: 30, LeftLabel: "Gas", RightLabel: "Electric", Bounds: QuantityBounds{Min: 0, Max: 4}}
}

func catalog() []Extra {
	return []Extra{lighting(), chairs(), heaters()}
}

func TestTotalWithoutExtrasIsSumOfProducts(t *testing.T) {
	sel := NewSelection()
	sel.AddProduct(stretchTent())
	sel.AddProduct(marquee())

	got := ComputeTotal(sel, catalog())
	if got.TotalCents != 3500 || got.ProductsSubtotalCents != 3500 {
		t.Fatalf("expected 3500, got total %d products %d", got.TotalCents, got.ProductsSubtotalCents)
	}
	if got.ExtrasSubtotalCents != 0 {
		t.Fatalf("expected no extras, got %d", got.ExtrasSubtotalCents)
	}
	if len(got.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(got.LineItems))
	}
}

func TestCheckboxRoundTrip(t *testing.T) {
	sel := NewSelection()
	sel.AddProduct(stretchTent())
	before := ComputeTotal(sel, catalog())

	if err := sel.SetExtraSelected(lighting(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	on := ComputeTotal(sel, catalog())
	if on.ExtrasSubtotalCents-before.ExtrasSubtotalCents != 50 {
		t.Fatalf("expected extras to grow by 50, got %d", on.ExtrasSubtotalCents-before.ExtrasSubtotalCents)
	}

	if err := sel.SetExtraSelected(lighting(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	off := ComputeTotal(sel, catalog())
	if off.TotalCents != before.TotalCents {
		t.Fatalf("expected total to return to %d, got %d", before.TotalCents, off.TotalCents)
	}
}

func TestRangeQuantityAndClamp(t *testing.T) {
	sel := NewSelection()

	warnings, err := sel.SetExtraQuantity(chairs(), 10)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("unexpected result: %v %v", warnings, err)
	}
	if got := ComputeTotal(sel, catalog()).ExtrasSubtotalCents; got != 20 {
		t.Fatalf("expected 20 for 10 chairs, got %d", got)
	}

	warnings, err = sel.SetExtraQuantity(chairs(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Code != WarningQuantityClamped {
		t.Fatalf("expected a clamp warning, got %v", warnings)
	}
	if q := *sel.Extras[e2].Quantity; q != 50 {
		t.Fatalf("expected quantity clamped to 50, got %d", q)
	}
	if got := ComputeTotal(sel, catalog()).ExtrasSubtotalCents; got != 100 {
		t.Fatalf("expected 100 for 50 chairs, got %d", got)
	}
}

func TestRangeBelowMinimumClampsUp(t *testing.T) {
	sel := NewSelection()
	if _, err := sel.SetExtraQuantity(chairs(), -3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q := *sel.Extras[e2].Quantity; q != 5 {
		t.Fatalf("expected 5, got %d", q)
	}
}

func TestEngineClampsStoredOutOfRangeQuantity(t *testing.T) {
	sel := NewSelection()
	sel.Extras[e2] = SelectedExtraState{Quantity: intPtr(80)}

	got := ComputeTotal(sel, catalog())
	if got.ExtrasSubtotalCents != 100 {
		t.Fatalf("expected clamped contribution of 100, got %d", got.ExtrasSubtotalCents)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Code != WarningQuantityClamped {
		t.Fatalf("expected one clamp warning, got %v", got.Warnings)
	}
}

func TestEngineDefaultsMissingQuantityToMinimum(t *testing.T) {
	sel := NewSelection()
	sel.Extras[e2] = SelectedExtraState{}

	got := ComputeTotal(sel, catalog())
	if got.ExtrasSubtotalCents != 10 {
		t.Fatalf("expected minimum 5 x 2 = 10, got %d", got.ExtrasSubtotalCents)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Code != WarningQuantityDefaulted {
		t.Fatalf("expected a defaulted warning, got %v", got.Warnings)
	}
}

func TestToggleBillsQuantityInBothPositions(t *testing.T) {
	sel := NewSelection()
	if _, err := sel.SetExtraQuantity(heaters(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	off := ComputeTotal(sel, catalog())
	if off.ExtrasSubtotalCents != 90 {
		t.Fatalf("expected 3 x 30 = 90 with switch off, got %d", off.ExtrasSubtotalCents)
	}
	if off.LineItems[0].Label != "Gas" {
		t.Fatalf("expected left label, got %q", off.LineItems[0].Label)
	}

	if err := sel.SetExtraSelected(heaters(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	on := ComputeTotal(sel, catalog())
	if on.ExtrasSubtotalCents != 90 {
		t.Fatalf("expected 90 with switch on, got %d", on.ExtrasSubtotalCents)
	}
	if on.LineItems[0].Label != "Electric" {
		t.Fatalf("expected right label, got %q", on.LineItems[0].Label)
	}
}

func TestExtrasPricedOncePerQuote(t *testing.T) {
	sel := NewSelection()
	sel.AddProduct(stretchTent())
	sel.AddProduct(marquee())
	if err := sel.SetExtraSelected(lighting(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ComputeTotal(sel, catalog())
	if got.ExtrasSubtotalCents != 50 {
		t.Fatalf("expected extras priced once (50), got %d", got.ExtrasSubtotalCents)
	}
	if got.TotalCents != 3550 {
		t.Fatalf("expected 3550, got %d", got.TotalCents)
	}
}

func TestDuplicateCatalogEntryPricedOnce(t *testing.T) {
	sel := NewSelection()
	if err := sel.SetExtraSelected(lighting(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ComputeTotal(sel, []Extra{lighting(), lighting()})
	if got.ExtrasSubtotalCents != 50 {
		t.Fatalf("expected 50, got %d", got.ExtrasSubtotalCents)
	}
}

func TestMissingExtraContributesZeroWithWarning(t *testing.T) {
	sel := NewSelection()
	sel.AddProduct(stretchTent())
	if err := sel.SetExtraSelected(lighting(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ComputeTotal(sel, []Extra{chairs()})
	if got.TotalCents != 1000 {
		t.Fatalf("expected stale extra to contribute nothing, got %d", got.TotalCents)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Code != WarningExtraMissing || got.Warnings[0].ItemID != e1 {
		t.Fatalf("expected an extra_missing warning for e1, got %v", got.Warnings)
	}
}

func TestPruneMissingProducts(t *testing.T) {
	sel := NewSelection()
	sel.AddProduct(stretchTent())
	sel.AddProduct(marquee())

	warnings := PruneMissingProducts(&sel, func(id uuid.UUID) bool { return id == p2 })
	if len(warnings) != 1 || warnings[0].ItemID != p1 || warnings[0].Code != WarningProductMissing {
		t.Fatalf("expected a product_missing warning for p1, got %v", warnings)
	}
	if got := ComputeTotal(sel, nil).TotalCents; got != 2500 {
		t.Fatalf("expected 2500, got %d", got)
	}
}

func TestEndToEndStretchTentWithLighting(t *testing.T) {
	details := EventDetails{
		TotalGuests:  100,
		InterestedIn: map[TentTypeKey]bool{"stretchTent": true},
	}.Normalize()

	sel := NewSelection()
	product := stretchTent()
	if !product.EligibleFor(details.Interest()) {
		t.Fatal("expected stretch tent to be eligible")
	}
	sel.AddProduct(product)
	if err := sel.SetExtraSelected(lighting(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ComputeTotal(sel, []Extra{lighting()})
	if got.TotalCents != 1050 {
		t.Fatalf("expected 1050, got %d", got.TotalCents)
	}
	if len(got.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(got.LineItems))
	}
	if got.LineItems[0].SourceType != SourceProduct || got.LineItems[1].SourceType != SourceExtra {
		t.Fatalf("expected product line then extra line, got %+v", got.LineItems)
	}
}

func TestEndToEndDeselectingInterestPrunesProduct(t *testing.T) {
	details := EventDetails{InterestedIn: map[TentTypeKey]bool{"stretchTent": true}}.Normalize()
	sel := NewSelection()
	sel.AddProduct(stretchTent())

	details.InterestedIn[KeyOf("stretchTent")] = false
	removed := sel.PruneByInterest(details.Interest())

	if len(removed) != 1 || removed[0] != p1 {
		t.Fatalf("expected p1 to be pruned, got %v", removed)
	}
	if sel.HasProduct(p1) {
		t.Fatal("p1 still selected")
	}
	if got := ComputeTotal(sel, []Extra{lighting()}).TotalCents; got != 0 {
		t.Fatalf("expected total 0, got %d", got)
	}
}
