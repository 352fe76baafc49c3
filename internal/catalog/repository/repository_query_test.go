package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"tentquote_backend/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTentTypesListedOldestFirst(t *testing.T) {
	query := strings.ToLower(listTentTypesQuery)
	if !strings.Contains(query, "order by created_at asc") {
		t.Fatalf("expected tent types ordered by created_at asc")
	}
}

func TestExtrasListedNewestFirst(t *testing.T) {
	query := strings.ToLower(listExtrasQuery)
	if !strings.Contains(query, "order by created_at desc") {
		t.Fatalf("expected extras ordered by created_at desc")
	}
}

func TestTentTypeLookupIgnoresCaseAndWhitespace(t *testing.T) {
	query := strings.ToLower(findTentTypeByKeyQuery)
	if !strings.Contains(query, `lower(regexp_replace(name, '\s', '', 'g')) = $1`) {
		t.Fatalf("expected key comparison on normalized name, got %s", query)
	}
}

func TestRenameCarriesOverToProducts(t *testing.T) {
	query := strings.ToLower(renameProductsTypeQuery)
	if !strings.Contains(query, "update products set type = $2") || !strings.Contains(query, "where type = $1") {
		t.Fatalf("expected product type rename by old name")
	}
}

func TestTentTypeKeyCollisionIsConflict(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "idx_tent_types_key"})
	if !isUniqueViolation(err) {
		t.Fatal("expected the key index violation to be recognised")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Fatal("unexpected unique violation for a network error")
	}

	conflict := tentTypeConflict("Stretch  TENT")
	if !apperr.Is(conflict, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", conflict)
	}
	var appErr *apperr.Error
	if !errors.As(conflict, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T", conflict)
	}
	details, ok := appErr.Details.(map[string]string)
	if !ok || details["key"] != "stretchtent" {
		t.Fatalf("expected the colliding key in details, got %+v", appErr.Details)
	}
}
