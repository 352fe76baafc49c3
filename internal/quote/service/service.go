// Package service runs the three-step quoting flow: every step loads the
// latest session, applies one change, reprices and saves it back.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tentquote_backend/internal/events"
	"tentquote_backend/internal/quote/domain"
	"tentquote_backend/internal/quote/repository"
	"tentquote_backend/internal/quote/transport"
	"tentquote_backend/platform/apperr"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/phone"
	"tentquote_backend/platform/sanitize"

	"github.com/google/uuid"
)

// CatalogReader is the part of the catalog the quoting flow reads.
type CatalogReader interface {
	Product(ctx context.Context, id uuid.UUID) (domain.Product, error)
	ExistingProductIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	Extras(ctx context.Context) ([]domain.Extra, error)
	Extra(ctx context.Context, id uuid.UUID) (domain.Extra, error)
	TentTypeKeys(ctx context.Context) (domain.InterestSet, error)
}

// Submission is a priced quote with the customer's contact details.
type Submission struct {
	SessionID    uuid.UUID
	Contact      domain.ContactDetails
	EventDetails domain.EventDetails
	Selection    domain.Selection
	Breakdown    domain.Breakdown
}

// EnquiryWriter stores a submission and returns the new enquiry id.
type EnquiryWriter interface {
	CreateEnquiry(ctx context.Context, sub Submission) (uuid.UUID, error)
}

// Service implements the quoting flow.
type Service struct {
	store     repository.SessionStore
	catalog   CatalogReader
	enquiries EnquiryWriter
	bus       events.Publisher
	phones    phone.Normalizer
	log       *logger.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// New creates a new quote service.
func New(store repository.SessionStore, catalog CatalogReader, enquiries EnquiryWriter, bus events.Publisher, phones phone.Normalizer, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		catalog:   catalog,
		enquiries: enquiries,
		bus:       bus,
		phones:    phones,
		log:       log,
		now:       time.Now,
		newID:     uuid.New,
	}
}

// Start opens an empty quote.
func (s *Service) Start(ctx context.Context) (transport.SessionResponse, error) {
	session := domain.NewSession(s.newID(), s.now().UTC())
	if err := s.store.Save(ctx, session); err != nil {
		return transport.SessionResponse{}, err
	}

	s.log.Info("quote session started", "sessionId", session.ID)
	return s.respond(ctx, session, nil, nil)
}

// Get returns the quote with a fresh price.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	return s.respond(ctx, session, nil, nil)
}

// SaveEventDetails stores step one. Tents whose type the customer no longer
// wants are dropped from the selection.
func (s *Service) SaveEventDetails(ctx context.Context, id uuid.UUID, req transport.EventDetailsRequest) (transport.SessionResponse, error) {
	details, err := eventDetails(req)
	if err != nil {
		return transport.SessionResponse{}, err
	}

	known, err := s.catalog.TentTypeKeys(ctx)
	if err != nil {
		return transport.SessionResponse{}, storageErr("failed to load tent types", err)
	}
	var unknown []string
	for key := range details.Interest() {
		if !known.Contains(key) {
			unknown = append(unknown, string(key))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return transport.SessionResponse{}, apperr.Validation("unknown tent types of interest").
			WithOp("quote.save_event_details").
			WithDetails(map[string]string{"interested_in": strings.Join(unknown, ", ")})
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	pruned := session.ApplyEventDetails(details)
	if err := s.save(ctx, &session); err != nil {
		return transport.SessionResponse{}, err
	}

	if len(pruned) > 0 {
		s.log.Info("tents pruned after interest change", "sessionId", id, "count", len(pruned))
	}
	return s.respond(ctx, session, nil, pruned)
}

// AddProduct selects a tent. It must be available and of a type the
// customer said they want.
func (s *Service) AddProduct(ctx context.Context, id, productID uuid.UUID) (transport.SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return transport.SessionResponse{}, storageErr("failed to load tent", err)
	}

	if product.Status != domain.ProductAvailable {
		return transport.SessionResponse{}, apperr.Validation(product.Name + " is not available").
			WithOp("quote.add_product").
			WithDetails(map[string]string{"status": string(product.Status)})
	}
	if !product.EligibleFor(session.Interest()) {
		return transport.SessionResponse{}, apperr.Validation(product.Name + " is not one of the tent types you are interested in").
			WithOp("quote.add_product").
			WithDetails(map[string]string{"type": string(product.Type)})
	}

	if session.Selection.AddProduct(product) {
		if err := s.save(ctx, &session); err != nil {
			return transport.SessionResponse{}, err
		}
	}
	return s.respond(ctx, session, nil, nil)
}

// RemoveProduct deselects a tent. Removing an unselected tent is a no-op.
func (s *Service) RemoveProduct(ctx context.Context, id, productID uuid.UUID) (transport.SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if session.Selection.RemoveProduct(productID) {
		if err := s.save(ctx, &session); err != nil {
			return transport.SessionResponse{}, err
		}
	}
	return s.respond(ctx, session, nil, nil)
}

// SetExtraSelected switches a checkbox or toggle extra.
func (s *Service) SetExtraSelected(ctx context.Context, id, extraID uuid.UUID, selected bool) (transport.SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	extra, err := s.catalog.Extra(ctx, extraID)
	if err != nil {
		return transport.SessionResponse{}, storageErr("failed to load extra", err)
	}
	if err := session.Selection.SetExtraSelected(extra, selected); err != nil {
		return transport.SessionResponse{}, err
	}
	if err := s.save(ctx, &session); err != nil {
		return transport.SessionResponse{}, err
	}
	return s.respond(ctx, session, nil, nil)
}

// SetExtraQuantity moves the slider of a range or toggle extra. Values
// outside the extra's bounds are clamped and reported as a warning.
func (s *Service) SetExtraQuantity(ctx context.Context, id, extraID uuid.UUID, quantity int) (transport.SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	extra, err := s.catalog.Extra(ctx, extraID)
	if err != nil {
		return transport.SessionResponse{}, storageErr("failed to load extra", err)
	}
	warnings, err := session.Selection.SetExtraQuantity(extra, quantity)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if err := s.save(ctx, &session); err != nil {
		return transport.SessionResponse{}, err
	}
	return s.respond(ctx, session, warnings, nil)
}

func (s *Service) save(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = s.now().UTC()
	return s.store.Save(ctx, *session)
}

// price reprices the session against the live catalog. Tents deleted from
// the catalog are left out of the returned selection.
func (s *Service) price(ctx context.Context, session domain.Session) (domain.Selection, domain.Breakdown, error) {
	sel := session.Selection.Clone()

	var warnings []domain.Warning
	if len(sel.Products) > 0 {
		ids := make([]uuid.UUID, 0, len(sel.Products))
		for _, p := range sel.Products {
			ids = append(ids, p.ID)
		}
		existing, err := s.catalog.ExistingProductIDs(ctx, ids)
		if err != nil {
			return domain.Selection{}, domain.Breakdown{}, storageErr("failed to check tents", err)
		}
		warnings = domain.PruneMissingProducts(&sel, func(id uuid.UUID) bool { return existing[id] })
	}

	extras, err := s.catalog.Extras(ctx)
	if err != nil {
		return domain.Selection{}, domain.Breakdown{}, storageErr("failed to load extras", err)
	}

	breakdown := domain.ComputeTotal(sel, extras)
	breakdown.Warnings = append(warnings, breakdown.Warnings...)
	for _, w := range breakdown.Warnings {
		s.log.PricingWarning(session.ID.String(), string(w.Code), w.ItemID.String(), w.Message)
	}
	return sel, breakdown, nil
}

func (s *Service) respond(ctx context.Context, session domain.Session, mutation []domain.Warning, pruned []uuid.UUID) (transport.SessionResponse, error) {
	sel, breakdown, err := s.price(ctx, session)
	if err != nil {
		return transport.SessionResponse{}, err
	}

	// the priced selection, so the listed tents always match the line items
	return transport.SessionResponse{
		ID:             session.ID,
		EventDetails:   session.EventDetails,
		Products:       sel.Products,
		Extras:         sel.Extras,
		Breakdown:      breakdown,
		Warnings:       append(mutation, breakdown.Warnings...),
		PrunedProducts: pruned,
		UpdatedAt:      session.UpdatedAt,
	}, nil
}

func eventDetails(req transport.EventDetailsRequest) (domain.EventDetails, error) {
	details := domain.EventDetails{
		VenueLocation:     sanitize.Line(req.VenueLocation),
		TotalGuests:       req.TotalGuests,
		FormalDiningSeats: req.FormalDiningSeats,
		InterestedIn:      make(map[domain.TentTypeKey]bool, len(req.InterestedIn)),
	}
	for k, v := range req.InterestedIn {
		details.InterestedIn[domain.TentTypeKey(k)] = v
	}
	if req.EventDate != "" {
		date, err := time.Parse(time.DateOnly, req.EventDate)
		if err != nil {
			return domain.EventDetails{}, apperr.Validation("invalid event date").
				WithOp("quote.save_event_details").
				WithDetails(map[string]string{"event_date": "must be YYYY-MM-DD"})
		}
		details.EventDate = &date
	}
	if err := details.Validate(); err != nil {
		return domain.EventDetails{}, err
	}
	return details, nil
}

// storageErr passes typed errors through and marks anything else as a
// retryable storage failure.
func storageErr(message string, err error) error {
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return err
	}
	return apperr.Persistence(message, fmt.Errorf("%s: %w", message, err))
}
