package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

const testPhone = "+919876543210"

type authFixture struct {
	store  *memStore
	otps   *stubOTPStore
	sms    *stubSMS
	tokens *TokenManager
	svc    *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		store:  newMemStore(),
		otps:   newStubOTPStore(),
		sms:    &stubSMS{},
		tokens: NewTokenManager("test-secret", time.Hour),
	}
	f.svc = NewAuthService(stubUserRepo{f.store}, f.otps, f.sms, f.tokens, AuthOptions{OTPSecret: "otp-secret"}, zerolog.Nop())
	f.svc.newCode = func() (string, error) { return "123456", nil }
	return f
}

func TestAuthService_RequestOTP_InvalidPhone(t *testing.T) {
	f := newAuthFixture()

	for _, phone := range []string{"", "12345", "+91-98765-43210", "abcdefghij"} {
		if err := f.svc.RequestOTP(context.Background(), phone); !errors.Is(err, domain.ErrInvalidPhone) {
			t.Fatalf("phone %q: expected ErrInvalidPhone, got %v", phone, err)
		}
	}
	if len(f.sms.sent) != 0 {
		t.Fatalf("expected no SMS, got %d", len(f.sms.sent))
	}
}

func TestAuthService_RequestOTP_SendsCodeAndStoresDigest(t *testing.T) {
	f := newAuthFixture()

	if err := f.svc.RequestOTP(context.Background(), testPhone); err != nil {
		t.Fatalf("RequestOTP returned error: %v", err)
	}

	if len(f.sms.sent) != 1 {
		t.Fatalf("expected 1 SMS, got %d", len(f.sms.sent))
	}
	if f.sms.sent[0].phone != testPhone || !strings.Contains(f.sms.sent[0].message, "123456") {
		t.Fatalf("unexpected SMS: %+v", f.sms.sent[0])
	}

	stored := f.otps.codes[testPhone]
	if stored == "" || stored == "123456" {
		t.Fatalf("expected a digest to be stored, got %q", stored)
	}
	if f.otps.ttls[testPhone] != 10*time.Minute {
		t.Fatalf("expected 10m ttl, got %v", f.otps.ttls[testPhone])
	}
}

func TestAuthService_RequestOTP_SMSFailure(t *testing.T) {
	f := newAuthFixture()
	f.sms.err = errors.New("broker down")

	if err := f.svc.RequestOTP(context.Background(), testPhone); err == nil {
		t.Fatal("expected error when SMS delivery fails")
	}
}

func TestAuthService_VerifyOTP_RegistersNewUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if err := f.svc.RequestOTP(ctx, testPhone); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	res, err := f.svc.VerifyOTP(ctx, testPhone, "123456")
	if err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if res.IsProfileComplete {
		t.Fatal("expected a new user to have an incomplete profile")
	}
	if res.User == nil || res.User.PhoneNumber != testPhone || !res.User.IsActive {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if res.User.LastLogin == nil {
		t.Fatal("expected last login to be set")
	}
	if len(f.store.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(f.store.users))
	}

	claims, err := f.tokens.Parse(res.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != res.User.ID {
		t.Fatalf("token user %q, want %q", claims.UserID, res.User.ID)
	}
}

func TestAuthService_VerifyOTP_ExistingUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.store.users["u1"] = &domain.User{ID: "u1", PhoneNumber: testPhone, FullName: "Asha", IsActive: true}

	_ = f.svc.RequestOTP(ctx, testPhone)
	res, err := f.svc.VerifyOTP(ctx, testPhone, "123456")
	if err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if res.User.ID != "u1" {
		t.Fatalf("expected existing user u1, got %q", res.User.ID)
	}
	if !res.IsProfileComplete {
		t.Fatal("expected returning user to be reported complete")
	}
	if len(f.store.users) != 1 {
		t.Fatalf("expected no new user, got %d users", len(f.store.users))
	}
}

func TestAuthService_VerifyOTP_ReturningUserWithBlankName(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.store.users["u1"] = &domain.User{ID: "u1", PhoneNumber: testPhone, IsActive: true}

	_ = f.svc.RequestOTP(ctx, testPhone)
	res, err := f.svc.VerifyOTP(ctx, testPhone, "123456")
	if err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if !res.IsProfileComplete {
		t.Fatal("expected the returning-user flag to be true")
	}
	if res.User.IsProfileComplete() {
		t.Fatal("expected the stored profile to still be incomplete")
	}
}

func TestAuthService_VerifyOTP_CodeIsSingleUse(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_ = f.svc.RequestOTP(ctx, testPhone)
	if _, err := f.svc.VerifyOTP(ctx, testPhone, "123456"); err != nil {
		t.Fatalf("first VerifyOTP: %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, testPhone, "123456"); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP on reuse, got %v", err)
	}
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_ = f.svc.RequestOTP(ctx, testPhone)
	if _, err := f.svc.VerifyOTP(ctx, testPhone, "654321"); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, "+919000000000", "123456"); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for another phone, got %v", err)
	}
	if len(f.store.users) != 0 {
		t.Fatalf("expected no users after failed verification, got %d", len(f.store.users))
	}
}

func TestAuthService_VerifyOTP_LatestCodeWins(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_ = f.svc.RequestOTP(ctx, testPhone)
	f.svc.newCode = func() (string, error) { return "999999", nil }
	_ = f.svc.RequestOTP(ctx, testPhone)

	if _, err := f.svc.VerifyOTP(ctx, testPhone, "123456"); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected superseded code to fail, got %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, testPhone, "999999"); err != nil {
		t.Fatalf("expected latest code to verify, got %v", err)
	}
}

func TestAuthService_VerifyOTP_InactiveUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.store.users["u1"] = &domain.User{ID: "u1", PhoneNumber: testPhone, IsActive: false}

	_ = f.svc.RequestOTP(ctx, testPhone)
	if _, err := f.svc.VerifyOTP(ctx, testPhone, "123456"); !errors.Is(err, domain.ErrInactiveUser) {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	user := &domain.User{ID: "u1", PhoneNumber: testPhone, IsActive: true}
	f.store.users["u1"] = user

	token, err := f.tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := f.svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if got.ID != "u1" {
		t.Fatalf("expected u1, got %q", got.ID)
	}

	if _, err := f.svc.Authenticate(ctx, "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	delete(f.store.users, "u1")
	if _, err := f.svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for deleted user, got %v", err)
	}
}

func TestAuthService_Authenticate_InactiveUser(t *testing.T) {
	f := newAuthFixture()
	user := &domain.User{ID: "u1", PhoneNumber: testPhone, IsActive: false}
	f.store.users["u1"] = user

	token, _ := f.tokens.Issue(user)
	if _, err := f.svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrInactiveUser) {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}
}

func TestAuthService_CompleteProfile(t *testing.T) {
	f := newAuthFixture()
	f.store.users["u1"] = &domain.User{ID: "u1", PhoneNumber: testPhone, IsActive: true}

	name := "  Asha Rao "
	email := " Asha@Example.COM"
	user, err := f.svc.CompleteProfile(context.Background(), "u1", ports.ProfileUpdate{FullName: &name, Email: &email})
	if err != nil {
		t.Fatalf("CompleteProfile returned error: %v", err)
	}
	if user.FullName != "Asha Rao" || user.Email != "asha@example.com" {
		t.Fatalf("unexpected profile: %+v", user)
	}
	if !user.IsProfileComplete() {
		t.Fatal("expected profile to be complete")
	}

	if _, err := f.svc.CompleteProfile(context.Background(), "missing", ports.ProfileUpdate{FullName: &name}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
