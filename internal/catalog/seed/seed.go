// Package seed loads a catalog from YAML and creates whatever is missing
// through the catalog service, so seeded data passes the same validation as
// staff edits. Entries are matched by name; existing ones are left alone.
package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"tentquote_backend/internal/catalog/transport"
	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/validator"

	"gopkg.in/yaml.v3"
)

// File is the seed document.
type File struct {
	TentTypes []TentType `yaml:"tent_types"`
	Products  []Product  `yaml:"products"`
	Extras    []Extra    `yaml:"extras"`
}

type TentType struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	ImageURL    *string `yaml:"image_url"`
}

type Product struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	Size        string  `yaml:"size"`
	PriceCents  int64   `yaml:"price_cents"`
	Description string  `yaml:"description"`
	ImageURL    *string `yaml:"image_url"`
	Status      string  `yaml:"status"`
}

type Extra struct {
	Name              string  `yaml:"name"`
	Description       string  `yaml:"description"`
	Type              string  `yaml:"type"`
	PriceCents        *int64  `yaml:"price_cents"`
	PricePerUnitCents *int64  `yaml:"price_per_unit_cents"`
	MinQuantity       *int    `yaml:"min_quantity"`
	MaxQuantity       *int    `yaml:"max_quantity"`
	LeftLabel         *string `yaml:"left_label"`
	RightLabel        *string `yaml:"right_label"`
}

// Catalog is the part of the catalog service the seeder drives.
type Catalog interface {
	ListTentTypes(ctx context.Context) (transport.TentTypeListResponse, error)
	CreateTentType(ctx context.Context, req transport.TentTypeRequest) (transport.TentTypeResponse, error)
	ListProducts(ctx context.Context, req transport.ListProductsRequest) (transport.ProductListResponse, error)
	CreateProduct(ctx context.Context, req transport.ProductRequest) (transport.ProductResponse, error)
	ListExtras(ctx context.Context) (transport.ExtraListResponse, error)
	CreateExtra(ctx context.Context, req transport.ExtraRequest) (transport.ExtraResponse, error)
}

// Result counts what was created and skipped.
type Result struct {
	Created int
	Skipped int
}

// Parse decodes a seed document, rejecting unknown fields.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

// Seeder applies a File.
type Seeder struct {
	catalog Catalog
	val     *validator.Validator
	log     *logger.Logger
}

// New creates a seeder.
func New(catalog Catalog, val *validator.Validator, log *logger.Logger) *Seeder {
	return &Seeder{catalog: catalog, val: val, log: log}
}

// Apply creates tent types first so products can reference them.
func (s *Seeder) Apply(ctx context.Context, f File) (Result, error) {
	var res Result

	tentTypes, err := s.catalog.ListTentTypes(ctx)
	if err != nil {
		return res, err
	}
	haveTypes := map[quote.TentTypeKey]bool{}
	for _, t := range tentTypes.Items {
		haveTypes[t.Key] = true
	}
	for _, t := range f.TentTypes {
		if haveTypes[quote.KeyOf(t.Name)] {
			res.Skipped++
			continue
		}
		req := transport.TentTypeRequest{Name: t.Name, Description: t.Description, ImageURL: t.ImageURL}
		if err := s.validate("tent type "+t.Name, req); err != nil {
			return res, err
		}
		if _, err := s.catalog.CreateTentType(ctx, req); err != nil {
			return res, fmt.Errorf("tent type %s: %w", t.Name, err)
		}
		haveTypes[quote.KeyOf(t.Name)] = true
		res.Created++
	}

	products, err := s.catalog.ListProducts(ctx, transport.ListProductsRequest{})
	if err != nil {
		return res, err
	}
	haveProducts := map[string]bool{}
	for _, p := range products.Items {
		haveProducts[nameKey(p.Name)] = true
	}
	for _, p := range f.Products {
		if haveProducts[nameKey(p.Name)] {
			res.Skipped++
			continue
		}
		price := p.PriceCents
		req := transport.ProductRequest{
			Name:        p.Name,
			Type:        p.Type,
			Size:        p.Size,
			PriceCents:  &price,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Status:      p.Status,
		}
		if err := s.validate("product "+p.Name, req); err != nil {
			return res, err
		}
		if _, err := s.catalog.CreateProduct(ctx, req); err != nil {
			return res, fmt.Errorf("product %s: %w", p.Name, err)
		}
		haveProducts[nameKey(p.Name)] = true
		res.Created++
	}

	extras, err := s.catalog.ListExtras(ctx)
	if err != nil {
		return res, err
	}
	haveExtras := map[string]bool{}
	for _, e := range extras.Items {
		haveExtras[nameKey(e.Name)] = true
	}
	for _, e := range f.Extras {
		if haveExtras[nameKey(e.Name)] {
			res.Skipped++
			continue
		}
		req := transport.ExtraRequest{
			Name:              e.Name,
			Description:       e.Description,
			Type:              e.Type,
			PriceCents:        e.PriceCents,
			PricePerUnitCents: e.PricePerUnitCents,
			MinQuantity:       e.MinQuantity,
			MaxQuantity:       e.MaxQuantity,
			LeftLabel:         e.LeftLabel,
			RightLabel:        e.RightLabel,
		}
		if err := s.validate("extra "+e.Name, req); err != nil {
			return res, err
		}
		if _, err := s.catalog.CreateExtra(ctx, req); err != nil {
			return res, fmt.Errorf("extra %s: %w", e.Name, err)
		}
		haveExtras[nameKey(e.Name)] = true
		res.Created++
	}

	s.log.Info("catalog seeded", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func (s *Seeder) validate(what string, req any) error {
	if err := s.val.Struct(req); err != nil {
		return fmt.Errorf("%s: invalid fields %v", what, validator.FieldErrors(err))
	}
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
