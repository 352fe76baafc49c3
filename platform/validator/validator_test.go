package validator

import "testing"

type contactRequest struct {
	Name  string `validate:"required,notblank"`
	Email string `validate:"required,email"`
}

func TestNotBlankRejectsWhitespace(t *testing.T) {
	err := New().Struct(contactRequest{Name: "   ", Email: "a@example.com"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fields := FieldErrors(err)
	if fields["name"] != "notblank" {
		t.Fatalf("expected name to fail notblank, got %v", fields)
	}
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	if FieldErrors(nil) != nil {
		t.Fatal("expected nil map")
	}
}

func TestValidStruct(t *testing.T) {
	if err := New().Struct(contactRequest{Name: "Jo", Email: "jo@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
