package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
	"github.com/homestaff/staff-ledger/internal/pkg/metrics"
)

const (
	defaultOTPTTL = 10 * time.Minute
	otpMessage    = "Your verification code is %s. It expires in %d minutes."
)

// AuthOptions tunes the OTP flow.
type AuthOptions struct {
	// OTPSecret keys the digest stored for each pending code.
	OTPSecret string
	// OTPTTL is how long a code stays valid. Defaults to 10 minutes.
	OTPTTL time.Duration
	// LogCodes writes issued codes to the log. Development only.
	LogCodes bool
}

// AuthService implements phone OTP login and session resolution.
type AuthService struct {
	users   ports.UserRepository
	otps    ports.OTPStore
	sms     ports.SMSSender
	tokens  *TokenManager
	hasher  otpHasher
	otpTTL  time.Duration
	logCode bool
	log     zerolog.Logger

	newCode func() (string, error)
	now     func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	otps ports.OTPStore,
	sms ports.SMSSender,
	tokens *TokenManager,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = defaultOTPTTL
	}
	return &AuthService{
		users:   users,
		otps:    otps,
		sms:     sms,
		tokens:  tokens,
		hasher:  newOTPHasher(opts.OTPSecret),
		otpTTL:  opts.OTPTTL,
		logCode: opts.LogCodes,
		log:     log,
		newCode: generateOTP,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RequestOTP issues a fresh code for phone and sends it by SMS. The outcome
// is the same whether or not the phone belongs to a registered user.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) error {
	if !domain.ValidPhoneNumber(phone) {
		return domain.ErrInvalidPhone
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}

	if err := s.otps.Save(ctx, phone, s.hasher.digest(phone, code), s.otpTTL); err != nil {
		metrics.OTPRequestsTotal.WithLabelValues("store_failed").Inc()
		return fmt.Errorf("request otp: store code: %w", err)
	}

	msg := fmt.Sprintf(otpMessage, code, int(s.otpTTL/time.Minute))
	if err := s.sms.Send(ctx, phone, msg); err != nil {
		metrics.OTPRequestsTotal.WithLabelValues("sms_failed").Inc()
		return fmt.Errorf("request otp: send sms: %w", err)
	}

	metrics.OTPRequestsTotal.WithLabelValues("sent").Inc()
	ev := s.log.Info().Str("phone", maskPhone(phone))
	if s.logCode {
		ev = ev.Str("otp", code)
	}
	ev.Msg("otp issued")
	return nil
}

// VerifyOTP consumes the pending code for phone and opens a session. The
// first successful verification of an unknown phone registers a new user.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*ports.VerifyOTPResult, error) {
	if phone == "" || code == "" {
		return nil, domain.ErrInvalidOTP
	}

	ok, err := s.otps.Consume(ctx, phone, s.hasher.digest(phone, code))
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !ok {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidOTP
	}

	user, isNew, err := s.findOrRegister(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("verify otp: update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Bool("new_user", isNew).Msg("otp verified")

	return &ports.VerifyOTPResult{
		Token:             token,
		User:              user,
		IsProfileComplete: !isNew,
	}, nil
}

func (s *AuthService) findOrRegister(ctx context.Context, phone string) (*domain.User, bool, error) {
	user, err := s.users.FindByPhone(ctx, phone)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	now := s.now()
	user = &domain.User{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			return nil, false, err
		}
		// Another request registered the same phone first.
		existing, findErr := s.users.FindByPhone(ctx, phone)
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	}

	metrics.UsersRegisteredTotal.Inc()
	return user, true, nil
}

// Authenticate resolves a bearer token to an active stored user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown user", domain.ErrInvalidToken)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

// CompleteProfile applies a partial profile update for userID.
func (s *AuthService) CompleteProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		update.FullName = &name
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		update.Email = &email
	}

	user, err := s.users.UpdateProfile(ctx, userID, update, s.now())
	if err != nil {
		return nil, fmt.Errorf("complete profile: %w", err)
	}

	s.log.Info().Str("user_id", userID).Bool("complete", user.IsProfileComplete()).Msg("profile updated")
	return user, nil
}
