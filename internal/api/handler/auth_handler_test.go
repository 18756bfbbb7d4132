package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

func TestAuthHandler_RequestOTP_Success(t *testing.T) {
	var got string
	h := NewAuthHandler(&stubAuthService{
		requestOTPFn: func(ctx context.Context, phone string) error {
			got = phone
			return nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/request-otp/", `{"phone_number":"+919876543210"}`, nil)
	if err := h.RequestOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != "+919876543210" {
		t.Fatalf("unexpected phone passed to service: %q", got)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message == "" {
		t.Fatal("expected a message")
	}
}

func TestAuthHandler_RequestOTP_InvalidPhone(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		requestOTPFn: func(ctx context.Context, phone string) error {
			t.Fatalf("should not be called")
			return nil
		},
	})

	for _, body := range []string{`{}`, `{"phone_number":"12-34"}`} {
		c, _ := newTestContext(http.MethodPost, "/request-otp/", body, nil)
		requireValidationError(t, h.RequestOTP(c), "phone_number")
	}
}

func TestAuthHandler_RequestOTP_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodPost, "/request-otp/", "not-json", nil)
	requireHTTPError(t, h.RequestOTP(c), http.StatusBadRequest)
}

func TestAuthHandler_VerifyOTP_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		verifyOTPFn: func(ctx context.Context, phone, code string) (*ports.VerifyOTPResult, error) {
			if phone != "+919876543210" || code != "123456" {
				t.Fatalf("unexpected args: %s %s", phone, code)
			}
			return &ports.VerifyOTPResult{
				Token:             "token123",
				User:              &domain.User{ID: "u1", PhoneNumber: phone, IsActive: true},
				IsProfileComplete: false,
			}, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/verify-otp/", `{"phone_number":"+919876543210","otp":"123456"}`, nil)
	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if resp["is_profile_complete"] != false {
		t.Fatalf("expected is_profile_complete=false, got %v", resp["is_profile_complete"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_VerifyOTP_InvalidCode(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		verifyOTPFn: func(ctx context.Context, phone, code string) (*ports.VerifyOTPResult, error) {
			return nil, domain.ErrInvalidOTP
		},
	})

	c, _ := newTestContext(http.MethodPost, "/verify-otp/", `{"phone_number":"+919876543210","otp":"000000"}`, nil)
	if err := h.VerifyOTP(c); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestAuthHandler_VerifyOTP_MissingCode(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodPost, "/verify-otp/", `{"phone_number":"+919876543210"}`, nil)
	requireValidationError(t, h.VerifyOTP(c), "otp")
}

func TestAuthHandler_CompleteProfile(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		completeProfileFn: func(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			if update.FullName == nil || *update.FullName != "Asha Rao" || update.Email != nil {
				t.Fatalf("unexpected update: %+v", update)
			}
			return &domain.User{ID: userID, FullName: *update.FullName, IsActive: true}, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/complete-profile/", `{"full_name":"Asha Rao"}`, &domain.User{ID: "u1"})
	if err := h.CompleteProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.IsProfileComplete || resp.FullName != "Asha Rao" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestAuthHandler_CompleteProfile_InvalidEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodPost, "/complete-profile/", `{"email":"nope"}`, testUser)
	requireValidationError(t, h.CompleteProfile(c), "email")
}

func TestAuthHandler_Profile(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(http.MethodGet, "/profile/", "", testUser)
	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || resp.PhoneNumber != testUser.PhoneNumber {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestAuthHandler_Profile_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodGet, "/profile/", "", nil)
	requireHTTPError(t, h.Profile(c), http.StatusUnauthorized)
}
