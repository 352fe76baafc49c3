package repository

import (
	"strings"
	"testing"
	"time"

	"tentquote_backend/internal/enquiries/domain"
)

func TestListWhereWithoutFilters(t *testing.T) {
	where, args := listWhere(domain.ListFilter{}, time.Now())
	if where != "" || len(args) != 0 {
		t.Fatalf("expected no filtering, got %q %v", where, args)
	}
}

func TestListWhereCombinesFilters(t *testing.T) {
	status := domain.StatusQuoteSent
	now := time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)

	where, args := listWhere(domain.ListFilter{
		Search:    "smith",
		Status:    &status,
		EventType: "Wedding",
		Window:    domain.WindowNextMonth,
	}, now)

	for _, fragment := range []string{
		"(name ilike $1 or email ilike $1 or event_type ilike $1)",
		"status = $2",
		"event_type = $3",
		"event_date >= $4",
		"event_date < $5",
	} {
		if !strings.Contains(strings.ToLower(where), fragment) {
			t.Fatalf("expected %q in %q", fragment, where)
		}
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(args))
	}
	if from := args[3].(time.Time); !from.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window start %v", from)
	}
}

func TestUpdateStatusIsSingleWrite(t *testing.T) {
	query := strings.ToLower(updateStatusQuery)
	if !strings.Contains(query, "update enquiries set status = $2") || !strings.Contains(query, "returning") {
		t.Fatalf("expected a single update returning the row")
	}
	if strings.Contains(query, "for update") {
		t.Fatalf("status updates must not lock")
	}
}

func TestPopularTentTypesReadsProductSnapshots(t *testing.T) {
	query := strings.ToLower(popularTentTypesQuery)
	if !strings.Contains(query, "jsonb_array_elements(selected_products)") {
		t.Fatalf("expected counts from the product snapshots")
	}
	if !strings.Contains(query, "order by selections desc") {
		t.Fatalf("expected most quoted first")
	}
}
