package ports

import (
	"context"
	"time"

	"github.com/homestaff/staff-ledger/internal/core/domain"
)

// UserRepository defines persistence for client users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	// Create inserts a new user. Returns domain.ErrUserExists when the phone
	// number is already registered.
	Create(ctx context.Context, user *domain.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate, at time.Time) (*domain.User, error)
}

// ProfileUpdate carries the optional fields of a profile completion request.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName *string
	Email    *string
}

// OTPStore holds pending one-time passcode digests keyed by phone number.
type OTPStore interface {
	// Save stores digest for phone, replacing any pending one.
	Save(ctx context.Context, phone, digest string, ttl time.Duration) error
	// Consume deletes the pending digest for phone if and only if it equals
	// digest, in a single atomic step. It reports whether it matched.
	Consume(ctx context.Context, phone, digest string) (bool, error)
}

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// VerifyOTPResult is returned after a successful OTP verification.
type VerifyOTPResult struct {
	Token             string
	User              *domain.User
	// IsProfileComplete is true for every returning user, even one who never
	// finished onboarding; it only tells a first login apart. The ledger gate
	// and GET /profile/ use User.IsProfileComplete, so a returning user with
	// a blank name sees true here and is still refused with 403.
	IsProfileComplete bool
}

// AuthService covers the phone OTP login flow and session resolution.
type AuthService interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*VerifyOTPResult, error)
	// Authenticate resolves a bearer token to its stored, active user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	CompleteProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
}
