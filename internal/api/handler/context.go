package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestaff/staff-ledger/internal/api/middleware"
	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

// ctxUser returns the user resolved by the Auth middleware. A missing user
// means the route was registered without the middleware.
func ctxUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}

// bind decodes the request body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// pageParams reads the page and limit query parameters.
func pageParams(c echo.Context) (ports.Page, error) {
	var p ports.Page
	err := echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("limit", &p.Limit).
		BindError()
	if err != nil {
		return p, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}
	return p, nil
}
