package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homestaff/staff-ledger/internal/api/handler"
	"github.com/homestaff/staff-ledger/internal/core/domain"
)

func runErrorHandler(t *testing.T, log zerolog.Logger, method string, err error) (*httptest.ResponseRecorder, handler.ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/workers/w1/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(log)(err, c)

	var body handler.ErrorResponse
	if rec.Body.Len() > 0 {
		if jerr := json.Unmarshal(rec.Body.Bytes(), &body); jerr != nil {
			t.Fatalf("invalid json: %v", jerr)
		}
	}
	return rec, body
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidOTP, http.StatusBadRequest},
		{domain.ErrInvalidPhone, http.StatusBadRequest},
		{fmt.Errorf("%w: end_date must not be before start_date", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrInvalidAdjustment, http.StatusBadRequest},
		{domain.ErrPaymentWorkerMismatch, http.StatusBadRequest},
		{domain.ErrDuplicateAttendance, http.StatusBadRequest},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrInactiveUser, http.StatusUnauthorized},
		{domain.ErrProfileIncomplete, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrWorkerNotFound, http.StatusNotFound},
		{domain.ErrAssignmentNotFound, http.StatusNotFound},
		{domain.ErrAttendanceNotFound, http.StatusNotFound},
		{domain.ErrPaymentNotFound, http.StatusNotFound},
		{domain.ErrWorkerInUse, http.StatusConflict},
		{domain.ErrAssignmentInUse, http.StatusConflict},
		{domain.ErrConcurrentUpdate, http.StatusConflict},
		{domain.ErrUserExists, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec, body := runErrorHandler(t, zerolog.Nop(), http.MethodGet, fmt.Errorf("service: %w", tt.err))
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if body.Error == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

func TestHTTPErrorHandler_InputErrorsKeepDetail(t *testing.T) {
	err := fmt.Errorf("%w: end_date must not be before start_date", domain.ErrInvalidInput)
	_, body := runErrorHandler(t, zerolog.Nop(), http.MethodPost, err)
	if !strings.Contains(body.Error, "end_date must not be before start_date") {
		t.Fatalf("expected wrapped detail in %q", body.Error)
	}
}

func TestHTTPErrorHandler_ValidationError(t *testing.T) {
	err := &handler.ValidationError{Fields: map[string]string{"amount": "amount is required"}}
	rec, body := runErrorHandler(t, zerolog.Nop(), http.MethodPost, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body.Error != "validation failed" || body.Fields["amount"] != "amount is required" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	rec, body := runErrorHandler(t, zerolog.Nop(), http.MethodGet, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if rec.Code != http.StatusUnauthorized || body.Error != "missing authorization header" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, body)
	}

	rec, _ = runErrorHandler(t, zerolog.Nop(), http.MethodGet, echo.ErrNotFound)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	rec, body := runErrorHandler(t, log, http.MethodGet, errors.New("mongo: connection reset by peer"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(body.Error, "mongo") {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
	if !strings.Contains(buf.String(), "connection reset by peer") {
		t.Fatalf("expected the cause to be logged, got %q", buf.String())
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	rec, _ := runErrorHandler(t, zerolog.Nop(), http.MethodHead, domain.ErrWorkerNotFound)
	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected bare 404, got %d with %q", rec.Code, rec.Body.String())
	}
}
