package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrInactiveUser      = errors.New("user is inactive")
	ErrInvalidPhone      = errors.New("phone number must be entered in the format: '+999999999'. Up to 15 digits allowed")
	ErrInvalidOTP        = errors.New("invalid otp")
	ErrInvalidToken      = errors.New("invalid token")
	ErrProfileIncomplete = errors.New("profile incomplete")
)

// phonePattern accepts an optional leading '+' and country code 1, then 9 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidPhoneNumber reports whether s is an acceptable international phone number.
func ValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

// User is a client account, identified by phone number.
type User struct {
	ID          string     `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsProfileComplete reports whether the user has finished onboarding.
func (u *User) IsProfileComplete() bool {
	return strings.TrimSpace(u.FullName) != ""
}
