package domain

import (
	"testing"

	"tentquote_backend/platform/apperr"
)

func ptr[T any](v T) *T { return &v }

func detailsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperr.Error
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	appErr = err.(*apperr.Error)
	details, ok := appErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", appErr.Details)
	}
	return details
}

func TestValidateRequiresNameAndType(t *testing.T) {
	details := detailsOf(t, ExtraDefinition{}.Validate())
	if details["name"] != "required" || details["type"] != "required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestValidateRejectsUnknownType(t *testing.T) {
	details := detailsOf(t, ExtraDefinition{Name: "Dance floor", Type: "QUANTITY"}.Validate())
	if _, ok := details["type"]; !ok {
		t.Fatalf("expected type problem, got %v", details)
	}
}

func TestValidateRangeRequiresUnitPriceAndBounds(t *testing.T) {
	details := detailsOf(t, ExtraDefinition{Name: "Chairs", Type: ExtraRange}.Validate())
	for _, field := range []string{"price_per_unit_cents", "min_quantity", "max_quantity"} {
		if details[field] != "required" {
			t.Fatalf("expected %s required, got %v", field, details)
		}
	}
}

func TestValidateToggleRequiresLabelsAndBounds(t *testing.T) {
	details := detailsOf(t, ExtraDefinition{Name: "Heaters", Type: ExtraToggle, LeftLabel: ptr("  ")}.Validate())
	for _, field := range []string{"left_label", "right_label", "min_quantity", "max_quantity"} {
		if details[field] != "required" {
			t.Fatalf("expected %s required, got %v", field, details)
		}
	}
}

func TestValidateRejectsInvertedBounds(t *testing.T) {
	def := ExtraDefinition{
		Name: "Chairs", Type: ExtraRange,
		PricePerUnitCents: ptr(int64(2)),
		MinQuantity:       ptr(10), MaxQuantity: ptr(5),
	}
	details := detailsOf(t, def.Validate())
	if _, ok := details["max_quantity"]; !ok {
		t.Fatalf("expected max_quantity problem, got %v", details)
	}
}

func TestCheckboxNeedsOnlyNameAndPrice(t *testing.T) {
	extra, err := ExtraDefinition{Name: "Lighting", Type: ExtraCheckbox, PriceCents: ptr(int64(50))}.Strategy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := extra.(CheckboxExtra); !ok {
		t.Fatalf("expected CheckboxExtra, got %T", extra)
	}
}

func TestPriceRequiredForCheckboxAndToggle(t *testing.T) {
	checkbox := ExtraDefinition{Name: "Lighting", Type: ExtraCheckbox}
	if details := detailsOf(t, checkbox.Validate()); details["price_cents"] != "required" {
		t.Fatalf("expected price_cents required for a checkbox, got %v", details)
	}

	toggle := ExtraDefinition{
		Name: "Heaters", Type: ExtraToggle,
		LeftLabel: ptr("Gas"), RightLabel: ptr("Electric"),
		MinQuantity: ptr(0), MaxQuantity: ptr(4),
	}
	if details := detailsOf(t, toggle.Validate()); details["price_cents"] != "required" {
		t.Fatalf("expected price_cents required for a toggle, got %v", details)
	}

	free := ExtraDefinition{Name: "Bunting", Type: ExtraCheckbox, PriceCents: ptr(int64(0))}
	if err := free.Validate(); err != nil {
		t.Fatalf("an explicit zero price is allowed, got %v", err)
	}

	negative := ExtraDefinition{Name: "Bunting", Type: ExtraCheckbox, PriceCents: ptr(int64(-1))}
	if details := detailsOf(t, negative.Validate()); details["price_cents"] != "must not be negative" {
		t.Fatalf("expected negative price rejected, got %v", details)
	}
}

func TestRangeDoesNotNeedFlatPrice(t *testing.T) {
	def := ExtraDefinition{
		Name: "Chairs", Type: ExtraRange,
		PricePerUnitCents: ptr(int64(2)),
		MinQuantity:       ptr(0), MaxQuantity: ptr(10),
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStrategyBuildsVariants(t *testing.T) {
	rng, err := ExtraDefinition{
		Name: "Chairs", Type: ExtraRange,
		PricePerUnitCents: ptr(int64(2)),
		MinQuantity:       ptr(5), MaxQuantity: ptr(50),
	}.Strategy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r, ok := rng.(RangeExtra); !ok || r.Bounds != (QuantityBounds{Min: 5, Max: 50}) || r.PricePerUnitCents != 2 {
		t.Fatalf("unexpected range extra %+v", rng)
	}

	toggle, err := ExtraDefinition{
		Name: "Heaters", Type: ExtraToggle, PriceCents: ptr(int64(30)),
		LeftLabel: ptr("Gas"), RightLabel: ptr("Electric"),
		MinQuantity: ptr(0), MaxQuantity: ptr(4),
	}.Strategy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tg, ok := toggle.(ToggleExtra); !ok || tg.Label(true) != "Electric" {
		t.Fatalf("unexpected toggle extra %+v", toggle)
	}
}

func TestStrategiesSkipsInvalidDefinitions(t *testing.T) {
	good := ExtraDefinition{ID: e1, Name: "Lighting", Type: ExtraCheckbox, PriceCents: ptr(int64(50))}
	bad := ExtraDefinition{ID: e2, Name: "Chairs", Type: ExtraRange}

	extras, invalid := Strategies([]ExtraDefinition{good, bad})
	if len(extras) != 1 || extras[0].ExtraID() != e1 {
		t.Fatalf("expected only the checkbox, got %v", extras)
	}
	if len(invalid) != 1 || invalid[0] != e2 {
		t.Fatalf("expected e2 reported invalid, got %v", invalid)
	}
}

func TestClamp(t *testing.T) {
	b := QuantityBounds{Min: 5, Max: 50}
	if q, changed := b.Clamp(10); q != 10 || changed {
		t.Fatalf("unexpected clamp of 10: %d %v", q, changed)
	}
	if q, changed := b.Clamp(100); q != 50 || !changed {
		t.Fatalf("unexpected clamp of 100: %d %v", q, changed)
	}
	if q, changed := b.Clamp(1); q != 5 || !changed {
		t.Fatalf("unexpected clamp of 1: %d %v", q, changed)
	}
}
