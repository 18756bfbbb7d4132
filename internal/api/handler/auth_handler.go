package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestaff/staff-ledger/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RequestOTP sends a one-time passcode to a phone number.
//
// @Summary      Request an OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestOTPRequest  true  "Phone number"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /request-otp/ [post]
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req requestOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.RequestOTP(c.Request().Context(), req.PhoneNumber); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "OTP sent successfully"})
}

// VerifyOTP exchanges a valid passcode for a session token, registering the
// phone number on first use.
//
// @Summary      Verify an OTP
// @Description  is_profile_complete is false only for a newly registered phone; user.is_profile_complete reflects the stored profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Phone number and code"
// @Success      200   {object}  verifyOTPResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /verify-otp/ [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.VerifyOTP(c.Request().Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyOTPResponse{
		Token:             res.Token,
		IsProfileComplete: res.IsProfileComplete,
		User:              toUserResponse(res.User),
	})
}

// CompleteProfile sets the caller's name and email.
//
// @Summary      Complete the caller's profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      completeProfileRequest  true  "Profile fields"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /complete-profile/ [post]
func (h *AuthHandler) CompleteProfile(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req completeProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.authService.CompleteProfile(c.Request().Context(), user.ID, ports.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// Profile returns the caller's profile.
//
// @Summary      Get the caller's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /profile/ [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
