package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/homestaff/staff-ledger/internal/core/domain"
)

type stubAuthenticator struct {
	users map[string]*domain.User
	err   error
	got   string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	s.got = token
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func newAuthContext(header string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	authn := &stubAuthenticator{users: map[string]*domain.User{
		"tok123": {ID: "u1", PhoneNumber: "+919876543210", IsActive: true},
	}}
	_, c, rec := newAuthContext("Bearer tok123")

	called := false
	handler := Auth(authn)(func(c echo.Context) error {
		called = true
		user := CurrentUser(c)
		if user == nil || user.ID != "u1" {
			t.Fatalf("user not set: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if authn.got != "tok123" {
		t.Fatalf("expected token tok123, got %q", authn.got)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	authn := &stubAuthenticator{users: map[string]*domain.User{"tok": {ID: "u1"}}}
	_, c, _ := newAuthContext("bearer tok")

	handler := Auth(authn)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if CurrentUser(c) == nil {
		t.Fatalf("user not set")
	}
}

func TestAuthMiddleware_RejectsBadHeaders(t *testing.T) {
	for _, header := range []string{"", "Token abc", "Bearer", "Bearer   "} {
		t.Run(header, func(t *testing.T) {
			e, c, rec := newAuthContext(header)

			handler := Auth(&stubAuthenticator{})(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_PropagatesAuthenticatorError(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidToken, domain.ErrInactiveUser} {
		_, c, _ := newAuthContext("Bearer whatever")

		handler := Auth(&stubAuthenticator{err: want})(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		if err := handler(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if CurrentUser(c) != nil {
			t.Fatalf("user set on failure")
		}
	}
}
