package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	enqdomain "tentquote_backend/internal/enquiries/domain"
	enqsvc "tentquote_backend/internal/enquiries/service"
	"tentquote_backend/internal/events"
	quote "tentquote_backend/internal/quote/domain"
	quotesvc "tentquote_backend/internal/quote/service"
	"tentquote_backend/platform/logger"

	"github.com/google/uuid"
)

type memEnquiries struct {
	stored []enqdomain.Enquiry
	err    error
}

func (m *memEnquiries) Create(_ context.Context, e enqdomain.Enquiry) (enqdomain.Enquiry, error) {
	if m.err != nil {
		return enqdomain.Enquiry{}, m.err
	}
	m.stored = append(m.stored, e)
	return e, nil
}

func (m *memEnquiries) GetByID(context.Context, uuid.UUID) (enqdomain.Enquiry, error) {
	return enqdomain.Enquiry{}, nil
}

func (m *memEnquiries) List(context.Context, enqdomain.ListFilter, time.Time) (enqdomain.ListResult, error) {
	return enqdomain.ListResult{}, nil
}

func (m *memEnquiries) UpdateStatus(context.Context, uuid.UUID, enqdomain.Status) (enqdomain.Enquiry, error) {
	return enqdomain.Enquiry{}, nil
}

func (m *memEnquiries) CountByStatus(context.Context) (map[enqdomain.Status]int, error) {
	return nil, nil
}

func (m *memEnquiries) PopularTentTypes(context.Context, int) ([]enqdomain.TentTypePopularity, error) {
	return nil, nil
}

type noopBus struct{}

func (noopBus) Publish(context.Context, events.Event) {}

func newWriter(repo *memEnquiries) *EnquiryWriter {
	svc := enqsvc.New(repo, nil, noopBus{}, enqdomain.NewWorkflow(enqdomain.PolicyPermissive), logger.Discard())
	return NewEnquiryWriter(svc)
}

func TestEnquiryWriterStoresBreakdownShown(t *testing.T) {
	repo := &memEnquiries{}
	sel := quote.NewSelection()
	sel.AddProduct(quote.Product{ID: uuid.New(), Name: "Stretch Tent", Type: "Stretch Tent", PriceCents: 1000})
	priced := quote.ComputeTotal(sel, nil)

	id, err := newWriter(repo).CreateEnquiry(context.Background(), quotesvc.Submission{
		Contact:      quote.ContactDetails{Name: "Sam", Email: "sam@example.com"},
		EventDetails: quote.EventDetails{TotalGuests: 100},
		Selection:    sel,
		Breakdown:    priced,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.stored) != 1 || repo.stored[0].ID != id {
		t.Fatalf("expected one stored enquiry with id %s", id)
	}
	got := repo.stored[0]
	if got.TotalCents != 1000 || len(got.LineItems) != 1 || got.Status != enqdomain.StatusNew {
		t.Fatalf("unexpected enquiry %+v", got)
	}
}

func TestEnquiryWriterWrapsErrors(t *testing.T) {
	boom := errors.New("insert failed")
	_, err := newWriter(&memEnquiries{err: boom}).CreateEnquiry(context.Background(), quotesvc.Submission{Selection: quote.NewSelection()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
