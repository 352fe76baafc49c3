package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tentquote_backend/internal/enquiries/domain"
	"tentquote_backend/internal/enquiries/transport"
	"tentquote_backend/internal/events"
	"tentquote_backend/platform/apperr"
	"tentquote_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu        sync.Mutex
	enquiries map[uuid.UUID]domain.Enquiry
	updates   int
	lastList  domain.ListFilter
	countErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{enquiries: map[uuid.UUID]domain.Enquiry{}}
}

func (r *fakeRepo) Create(_ context.Context, e domain.Enquiry) (domain.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.enquiries[e.ID] = e
	return e, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enquiries[id]
	if !ok {
		return domain.Enquiry{}, apperr.NotFound("enquiry not found")
	}
	return e, nil
}

func (r *fakeRepo) List(_ context.Context, filter domain.ListFilter, _ time.Time) (domain.ListResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = filter
	items := make([]domain.Enquiry, 0, len(r.enquiries))
	for _, e := range r.enquiries {
		items = append(items, e)
	}
	return domain.ListResult{Items: items, Total: 45}, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (domain.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enquiries[id]
	if !ok {
		return domain.Enquiry{}, apperr.NotFound("enquiry not found")
	}
	r.updates++
	e.Status = status
	e.UpdatedAt = time.Now()
	r.enquiries[id] = e
	return e, nil
}

func (r *fakeRepo) CountByStatus(context.Context) (map[domain.Status]int, error) {
	if r.countErr != nil {
		return nil, r.countErr
	}
	return map[domain.Status]int{
		domain.StatusNew:          3,
		domain.StatusInDiscussion: 1,
		domain.StatusQuoteSent:    0,
		domain.StatusConfirmed:    2,
		domain.StatusCancelled:    0,
	}, nil
}

func (r *fakeRepo) PopularTentTypes(_ context.Context, limit int) ([]domain.TentTypePopularity, error) {
	return []domain.TentTypePopularity{{TentType: "Stretch Tent", Count: 4}}[:min(limit, 1)], nil
}

type fakeCatalog struct{}

func (fakeCatalog) CatalogStats(context.Context) (CatalogStats, error) {
	return CatalogStats{Products: 12, TentTypes: 3, Extras: 5}, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func newService(policy domain.TransitionPolicy) (*Service, *fakeRepo, *recordingBus) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	return New(repo, fakeCatalog{}, bus, domain.NewWorkflow(policy), logger.Discard()), repo, bus
}

func seed(t *testing.T, svc *Service) domain.Enquiry {
	t.Helper()
	created, err := svc.Create(context.Background(), domain.Enquiry{ID: uuid.New(), Name: "Sam", TotalCents: 1050})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return created
}

func TestCreateStartsAsNew(t *testing.T) {
	svc, _, _ := newService(domain.PolicyPermissive)
	repo := svc.repo.(*fakeRepo)

	created, err := svc.Create(context.Background(), domain.Enquiry{ID: uuid.New(), Status: domain.StatusConfirmed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.StatusNew || repo.enquiries[created.ID].Status != domain.StatusNew {
		t.Fatalf("expected new status, got %s", created.Status)
	}
}

func TestSetStatusThenGetReflectsChange(t *testing.T) {
	svc, _, bus := newService(domain.PolicyPermissive)
	e := seed(t, svc)
	actor := uuid.New()

	updated, err := svc.SetStatus(context.Background(), e.ID, "confirmed", actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}

	got, err := svc.Get(context.Background(), e.ID)
	if err != nil || got.Status != domain.StatusConfirmed {
		t.Fatalf("expected stored status confirmed, got %s (%v)", got.Status, err)
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.events))
	}
	changed, ok := bus.events[0].(events.EnquiryStatusChanged)
	if !ok || changed.From != "new" || changed.To != "confirmed" || changed.ChangedBy != actor {
		t.Fatalf("unexpected event %+v", bus.events[0])
	}
}

func TestSetStatusStrictRefusesSkip(t *testing.T) {
	svc, repo, bus := newService(domain.PolicyStrict)
	e := seed(t, svc)

	_, err := svc.SetStatus(context.Background(), e.ID, "confirmed", uuid.New())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.updates != 0 || len(bus.events) != 0 {
		t.Fatal("refused transition must not write or publish")
	}
	if got, _ := svc.Get(context.Background(), e.ID); got.Status != domain.StatusNew {
		t.Fatalf("status changed to %s", got.Status)
	}
}

func TestSetStatusSameStatusWritesNothing(t *testing.T) {
	svc, repo, bus := newService(domain.PolicyStrict)
	e := seed(t, svc)

	got, err := svc.SetStatus(context.Background(), e.ID, "new", uuid.New())
	if err != nil || got.Status != domain.StatusNew {
		t.Fatalf("unexpected result %s %v", got.Status, err)
	}
	if repo.updates != 0 || len(bus.events) != 0 {
		t.Fatal("expected no write for an unchanged status")
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	svc, _, _ := newService(domain.PolicyPermissive)
	e := seed(t, svc)

	_, err := svc.SetStatus(context.Background(), e.ID, "Quote Sent", uuid.New())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetStatusMissingEnquiry(t *testing.T) {
	svc, _, _ := newService(domain.PolicyPermissive)
	_, err := svc.SetStatus(context.Background(), uuid.New(), "confirmed", uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPaginationDefaults(t *testing.T) {
	svc, repo, _ := newService(domain.PolicyPermissive)

	result, err := svc.List(context.Background(), transport.ListEnquiriesRequest{Page: 3, PageSize: 500, Window: "next_month", Status: "quote_sent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PageSize != 100 || result.Page != 3 || result.TotalPages != 1 {
		t.Fatalf("unexpected paging %+v", result)
	}
	if repo.lastList.Offset != 200 || repo.lastList.Limit != 100 {
		t.Fatalf("unexpected filter %+v", repo.lastList)
	}
	if repo.lastList.Window != domain.WindowNextMonth || repo.lastList.Status == nil || *repo.lastList.Status != domain.StatusQuoteSent {
		t.Fatalf("filters not passed through: %+v", repo.lastList)
	}

	result, _ = svc.List(context.Background(), transport.ListEnquiriesRequest{})
	if result.Page != 1 || result.PageSize != 20 || result.TotalPages != 3 {
		t.Fatalf("unexpected defaults %+v", result)
	}
}

func TestListRejectsUnknownWindow(t *testing.T) {
	svc, _, _ := newService(domain.PolicyPermissive)
	_, err := svc.List(context.Background(), transport.ListEnquiriesRequest{Window: "someday"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatusesDescribesPolicy(t *testing.T) {
	svc, _, _ := newService(domain.PolicyStrict)
	got := svc.Statuses()
	if got.Policy != "strict" || len(got.Statuses) != 5 {
		t.Fatalf("unexpected statuses %+v", got)
	}
	if next := got.Transitions[domain.StatusQuoteSent]; len(next) != 2 {
		t.Fatalf("expected confirmed and cancelled after quote_sent, got %v", next)
	}
}

func TestDashboard(t *testing.T) {
	svc, _, _ := newService(domain.PolicyPermissive)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Products != 12 || stats.TentTypes != 3 || stats.Extras != 5 {
		t.Fatalf("unexpected catalog counts %+v", stats)
	}
	if stats.NewEnquiries != 3 || stats.ByStatus[domain.StatusConfirmed] != 2 {
		t.Fatalf("unexpected enquiry counts %+v", stats)
	}
	if len(stats.PopularTentTypes) != 1 || stats.PopularTentTypes[0].TentType != "Stretch Tent" {
		t.Fatalf("unexpected popular types %+v", stats.PopularTentTypes)
	}
}

func TestDashboardFailsWhenASourceFails(t *testing.T) {
	svc, repo, _ := newService(domain.PolicyPermissive)
	repo.countErr = errors.New("db down")

	if _, err := svc.Dashboard(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
