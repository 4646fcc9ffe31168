package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"not found", NewNotFoundError("food", "x"), http.StatusNotFound},
		{"conflict", NewConflictError("dup"), http.StatusConflict},
		{"external", NewExternalAPIError(errors.New("boom"), "food"), http.StatusBadGateway},
		{"database", NewDatabaseError(errors.New("boom")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFoundError("entry", "1")), http.StatusNotFound},
		{"foreign", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsMatchesTypeAndCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewNotFoundError("food", "42"))
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("did not expect match with ErrInvalidInput")
	}
	if !IsType(err, ErrorTypeNotFound) {
		t.Error("IsType should see through wrapping")
	}
}

func TestUnwrapAndPublicMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError(cause)
	if !errors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	if got := PublicMessage(err); got != "Database operation failed" {
		t.Errorf("PublicMessage = %q", got)
	}
	if got := PublicMessage(cause); got != "Internal server error" {
		t.Errorf("PublicMessage(foreign) = %q", got)
	}
}

func TestHandlerLogsByType(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Handle(context.Background(), NewValidationError("quantity must be positive"))
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("validation error should log at WARN: %s", buf.String())
	}

	buf.Reset()
	_ = h.LogAndReturn(context.Background(), NewDatabaseError(errors.New("locked")))
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "locked") {
		t.Errorf("database error should log at ERROR: %s", buf.String())
	}
}
