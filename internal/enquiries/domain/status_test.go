package domain

import (
	"testing"
	"time"

	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestPermissiveAllowsAnyTransition(t *testing.T) {
	w := NewWorkflow(PolicyPermissive)
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			if err := w.Transition(from, to); err != nil {
				t.Fatalf("%s -> %s refused: %v", from, to, err)
			}
		}
	}
}

func TestStrictHappyPath(t *testing.T) {
	w := NewWorkflow(PolicyStrict)
	path := []Status{StatusNew, StatusInDiscussion, StatusQuoteSent, StatusConfirmed}
	for i := 0; i < len(path)-1; i++ {
		if err := w.Transition(path[i], path[i+1]); err != nil {
			t.Fatalf("%s -> %s refused: %v", path[i], path[i+1], err)
		}
	}
}

func TestStrictCancelFromAnyNonTerminal(t *testing.T) {
	w := NewWorkflow(PolicyStrict)
	for _, from := range []Status{StatusNew, StatusInDiscussion, StatusQuoteSent} {
		if !w.CanTransition(from, StatusCancelled) {
			t.Fatalf("expected %s -> cancelled to be allowed", from)
		}
	}
}

func TestStrictRefusesSkipsAndTerminalExits(t *testing.T) {
	w := NewWorkflow(PolicyStrict)
	cases := [][2]Status{
		{StatusNew, StatusConfirmed},
		{StatusNew, StatusQuoteSent},
		{StatusQuoteSent, StatusNew},
		{StatusConfirmed, StatusCancelled},
		{StatusCancelled, StatusNew},
	}
	for _, tc := range cases {
		err := w.Transition(tc[0], tc[1])
		if !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("%s -> %s: expected conflict, got %v", tc[0], tc[1], err)
		}
	}
}

func TestSameStatusIsAlwaysAllowed(t *testing.T) {
	w := NewWorkflow(PolicyStrict)
	if err := w.Transition(StatusConfirmed, StatusConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	err := NewWorkflow(PolicyPermissive).Transition(StatusNew, Status("archived"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNextUnderStrictPolicy(t *testing.T) {
	w := NewWorkflow(PolicyStrict)
	next := w.Next(StatusNew)
	if len(next) != 2 || next[0] != StatusInDiscussion || next[1] != StatusCancelled {
		t.Fatalf("unexpected next statuses %v", next)
	}
	if got := w.Next(StatusConfirmed); len(got) != 0 {
		t.Fatalf("expected no exits from confirmed, got %v", got)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("quote_sent"); err != nil || s != StatusQuoteSent {
		t.Fatalf("unexpected result %q %v", s, err)
	}
	if _, err := ParseStatus("Quote Sent"); err == nil {
		t.Fatal("expected error for display label")
	}
}

func TestNewEnquiryCopiesSelection(t *testing.T) {
	product := quote.Product{ID: uuid.New(), Name: "Stretch Tent", Type: "Stretch Tent", PriceCents: 1000}
	sel := quote.NewSelection()
	sel.AddProduct(product)
	priced := quote.ComputeTotal(sel, nil)

	e := NewEnquiry(quote.ContactDetails{Name: "Sam"}, quote.EventDetails{TotalGuests: 80}, sel, priced)

	sel.Products[0].PriceCents = 1
	if e.SelectedProducts[0].PriceCents != 1000 {
		t.Fatal("enquiry shares product storage with the selection")
	}
	if e.Status != StatusNew || e.TotalCents != 1000 || e.TotalGuests != 80 {
		t.Fatalf("unexpected enquiry %+v", e)
	}
}

func TestDateWindowRange(t *testing.T) {
	now := time.Date(2026, time.January, 20, 15, 0, 0, 0, time.UTC)

	from, to := WindowNextMonth.Range(now)
	if !from.Equal(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)) ||
		!to.Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next month range %s - %s", from, to)
	}

	from, to = WindowUpcoming.Range(now)
	if !from.Equal(time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)) || !to.IsZero() {
		t.Fatalf("unexpected upcoming range %s - %s", from, to)
	}

	if from, to := WindowAll.Range(now); !from.IsZero() || !to.IsZero() {
		t.Fatal("expected unbounded range")
	}
}
