package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestaff/staff-ledger/internal/core/domain"
)

// RequireCompleteProfile rejects users who have not finished onboarding.
// It must run after Auth.
func RequireCompleteProfile() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !user.IsProfileComplete() {
				return domain.ErrProfileIncomplete
			}
			return next(c)
		}
	}
}
