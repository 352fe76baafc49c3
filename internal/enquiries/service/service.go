package service

import (
	"context"
	"strings"
	"time"

	"tentquote_backend/internal/enquiries/domain"
	"tentquote_backend/internal/enquiries/repository"
	"tentquote_backend/internal/enquiries/transport"
	"tentquote_backend/internal/events"
	"tentquote_backend/platform/apperr"
	"tentquote_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const popularTentTypesLimit = 5

// CatalogStats is the catalog part of the dashboard.
type CatalogStats struct {
	Products  int
	TentTypes int
	Extras    int
}

// CatalogCounter reports catalog sizes.
type CatalogCounter interface {
	CatalogStats(ctx context.Context) (CatalogStats, error)
}

// Service provides business logic for enquiries.
type Service struct {
	repo     repository.Repository
	catalog  CatalogCounter
	bus      events.Publisher
	workflow domain.Workflow
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new enquiries service.
func New(repo repository.Repository, catalog CatalogCounter, bus events.Publisher, workflow domain.Workflow, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, bus: bus, workflow: workflow, log: log, now: time.Now}
}

// Create stores a submitted enquiry.
func (s *Service) Create(ctx context.Context, enquiry domain.Enquiry) (domain.Enquiry, error) {
	enquiry.Status = domain.InitialStatus
	created, err := s.repo.Create(ctx, enquiry)
	if err != nil {
		return domain.Enquiry{}, err
	}

	s.log.Info("enquiry created", "id", created.ID, "totalCents", created.TotalCents, "products", len(created.SelectedProducts))
	return created, nil
}

// Get retrieves an enquiry by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Enquiry, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves enquiries with filters and pagination.
func (s *Service) List(ctx context.Context, req transport.ListEnquiriesRequest) (transport.EnquiryListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	window := domain.DateWindow(req.Window)
	if !window.Valid() {
		return transport.EnquiryListResponse{}, apperr.Validation("unknown date window").
			WithOp("enquiries.list").
			WithDetails(map[string]string{"window": req.Window})
	}

	filter := domain.ListFilter{
		Search:    strings.TrimSpace(req.Search),
		EventType: strings.TrimSpace(req.EventType),
		Window:    window,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return transport.EnquiryListResponse{}, err
		}
		filter.Status = &status
	}

	result, err := s.repo.List(ctx, filter, s.now().UTC())
	if err != nil {
		return transport.EnquiryListResponse{}, err
	}

	totalPages := (result.Total + pageSize - 1) / pageSize
	return transport.EnquiryListResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// SetStatus moves an enquiry to a new status under the configured policy and
// returns the stored record. Setting the current status again writes nothing.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, rawStatus string, actorID uuid.UUID) (domain.Enquiry, error) {
	to, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return domain.Enquiry{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Enquiry{}, err
	}
	if err := s.workflow.Transition(current.Status, to); err != nil {
		return domain.Enquiry{}, err
	}
	if current.Status == to {
		return current, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, to)
	if err != nil {
		return domain.Enquiry{}, err
	}

	s.log.Info("enquiry status changed", "id", id, "from", current.Status, "to", updated.Status, "by", actorID)
	s.bus.Publish(ctx, events.EnquiryStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		EnquiryID: id,
		From:      string(current.Status),
		To:        string(updated.Status),
		ChangedBy: actorID,
	})
	return updated, nil
}

// Statuses describes the statuses and the transitions staff may make.
func (s *Service) Statuses() transport.StatusesResponse {
	transitions := make(map[domain.Status][]domain.Status, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		transitions[status] = s.workflow.Next(status)
	}
	return transport.StatusesResponse{
		Statuses:    domain.AllStatuses,
		Policy:      s.workflow.Policy().String(),
		Transitions: transitions,
	}
}

// Dashboard loads the back-office overview, querying each source concurrently.
func (s *Service) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var (
		catalog  CatalogStats
		byStatus map[domain.Status]int
		popular  []domain.TentTypePopularity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.catalog.CatalogStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.repo.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		popular, err = s.repo.PopularTentTypes(gctx, popularTentTypesLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to load dashboard", "error", err)
		return domain.DashboardStats{}, err
	}

	return domain.DashboardStats{
		Products:         catalog.Products,
		TentTypes:        catalog.TentTypes,
		Extras:           catalog.Extras,
		NewEnquiries:     byStatus[domain.StatusNew],
		ByStatus:         byStatus,
		PopularTentTypes: popular,
	}, nil
}
