package storage

import (
	"testing"

	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestValidateImage(t *testing.T) {
	if err := ValidateImage("image/png", 1024, 10*1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateImage("IMAGE/JPEG; charset=binary", 1024, 0); err != nil {
		t.Fatalf("unexpected error for parameterised type: %v", err)
	}

	for name, tc := range map[string]struct {
		contentType string
		size        int64
	}{
		"svg":       {"image/svg+xml", 10},
		"pdf":       {"application/pdf", 10},
		"empty":     {"image/png", 0},
		"too large": {"image/png", 20 * 1024},
	} {
		if err := ValidateImage(tc.contentType, tc.size, 10*1024); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("12345678-0000-0000-0000-000000000000")
	got := ObjectKey("/products/", "../Stretch Tent (Large).PNG", "image/png", id)
	if got != "products/stretch-tent-large-12345678.png" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := ObjectKey("", "???.jpg", "image/jpeg", id); got != "image-12345678.jpg" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestKeyFromURL(t *testing.T) {
	s := &MinIOService{bucket: "catalog-images", publicBaseURL: "https://cdn.example.com"}
	url := s.PublicURL("products/a.png")
	key, ok := s.keyFromURL(url)
	if !ok || key != "products/a.png" {
		t.Fatalf("unexpected key %q %v", key, ok)
	}
	if _, ok := s.keyFromURL("https://elsewhere.example.com/a.png"); ok {
		t.Fatal("expected foreign URL to be ignored")
	}
}
