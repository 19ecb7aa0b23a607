package server

import (
	"net/http"
	"testing"

	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
)

func TestMapErrorDuplicateKeysConflict(t *testing.T) {
	for _, err := range []error{
		ErrConflict,
		pharmacydomain.ErrDuplicateSlug,
		medicationdomain.ErrDuplicateCode,
	} {
		status, payload := mapError(err)
		if status != http.StatusConflict {
			t.Fatalf("%v: expected 409, got %d", err, status)
		}
		if payload.Type != "conflict" {
			t.Fatalf("%v: expected conflict payload, got %q", err, payload.Type)
		}
	}
}

func TestClassifyErrorForLogConflict(t *testing.T) {
	typ, code := classifyErrorForLog(pharmacydomain.ErrDuplicateSlug)
	if typ != "conflict" {
		t.Fatalf("expected conflict type, got %q", typ)
	}
	if code != "duplicate_slug" {
		t.Fatalf("expected duplicate_slug code, got %q", code)
	}
}
