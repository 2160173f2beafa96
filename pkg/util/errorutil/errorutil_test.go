package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorKeepsWrappedDomainError(t *testing.T) {
	sentinel := NewDomainError("EMAIL_TAKEN", "email already registered", http.StatusConflict, nil)
	wrapped := fmt.Errorf("register: %w", sentinel)

	got := ToDomainError(wrapped)
	if got != sentinel {
		t.Fatalf("expected sentinel, got %#v", got)
	}
}

func TestToDomainErrorHidesInternalCause(t *testing.T) {
	got := ToDomainError(errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	if got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got.HTTPStatus)
	}
	if got.Message != "internal server error" {
		t.Fatalf("cause leaked into message: %q", got.Message)
	}
}

func TestToDomainErrorNoRows(t *testing.T) {
	got := ToDomainError(fmt.Errorf("get user: %w", pgx.ErrNoRows))
	if got.Code != "NOT_FOUND" || got.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected mapping %#v", got)
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatal("nil error should map to nil")
	}
}
