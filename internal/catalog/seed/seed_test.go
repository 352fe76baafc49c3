package seed

import (
	"context"
	"strings"
	"testing"

	"tentquote_backend/internal/catalog/transport"
	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/validator"

	"github.com/google/uuid"
)

const sampleYAML = `
tent_types:
  - name: Stretch Tent
    description: Flexible fabric tents
  - name: Traditional Marquee
products:
  - name: Stretch 10x15
    type: Stretch Tent
    size: 10m x 15m
    price_cents: 120000
extras:
  - name: Festoon lighting
    type: CHECKBOX
    price_cents: 5000
  - name: Chairs
    type: RANGE
    price_per_unit_cents: 200
    min_quantity: 0
    max_quantity: 200
`

type memCatalog struct {
	tentTypes []transport.TentTypeResponse
	products  []transport.ProductResponse
	extras    []transport.ExtraResponse
}

func (m *memCatalog) ListTentTypes(context.Context) (transport.TentTypeListResponse, error) {
	return transport.TentTypeListResponse{Items: m.tentTypes}, nil
}

func (m *memCatalog) CreateTentType(_ context.Context, req transport.TentTypeRequest) (transport.TentTypeResponse, error) {
	t := transport.TentTypeResponse{ID: uuid.New(), Name: req.Name, Key: quote.KeyOf(req.Name)}
	m.tentTypes = append(m.tentTypes, t)
	return t, nil
}

func (m *memCatalog) ListProducts(context.Context, transport.ListProductsRequest) (transport.ProductListResponse, error) {
	return transport.ProductListResponse{Items: m.products}, nil
}

func (m *memCatalog) CreateProduct(_ context.Context, req transport.ProductRequest) (transport.ProductResponse, error) {
	p := transport.ProductResponse{ID: uuid.New(), Name: req.Name, Type: req.Type, PriceCents: *req.PriceCents}
	m.products = append(m.products, p)
	return p, nil
}

func (m *memCatalog) ListExtras(context.Context) (transport.ExtraListResponse, error) {
	return transport.ExtraListResponse{Items: m.extras}, nil
}

func (m *memCatalog) CreateExtra(_ context.Context, req transport.ExtraRequest) (transport.ExtraResponse, error) {
	e := transport.ExtraResponse{ID: uuid.New(), Name: req.Name, Type: quote.ExtraType(req.Type)}
	m.extras = append(m.extras, e)
	return e, nil
}

func TestApplyCreatesThenSkips(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	catalog := &memCatalog{}
	seeder := New(catalog, validator.New(), logger.Discard())

	res, err := seeder.Apply(context.Background(), f)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Created != 5 || res.Skipped != 0 {
		t.Fatalf("unexpected first run %+v", res)
	}
	if catalog.products[0].PriceCents != 120000 {
		t.Fatalf("unexpected product %+v", catalog.products[0])
	}

	res, err = seeder.Apply(context.Background(), f)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if res.Created != 0 || res.Skipped != 5 {
		t.Fatalf("expected everything skipped on re-run, got %+v", res)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("tent_types:\n  - name: Stretch\n    colour: red\n"))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestApplyValidatesEntries(t *testing.T) {
	f := File{Extras: []Extra{{Name: "Heaters", Type: "SLIDER"}}}
	_, err := New(&memCatalog{}, validator.New(), logger.Discard()).Apply(context.Background(), f)
	if err == nil || !strings.Contains(err.Error(), "extra Heaters") {
		t.Fatalf("expected validation error naming the extra, got %v", err)
	}
}
