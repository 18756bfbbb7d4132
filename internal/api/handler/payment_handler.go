package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestaff/staff-ledger/internal/core/ports"
)

// PaymentHandler serves salary payments on the caller's assignments.
type PaymentHandler struct {
	payments ports.PaymentService
}

func NewPaymentHandler(payments ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List godoc
//
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        assignment  query     string  false  "Assignment ID"
// @Param        status      query     string  false  "PENDING, COMPLETED or FAILED"
// @Param        page        query     int     false  "Page number"  default(1)
// @Param        limit       query     int     false  "Page size"    default(20)
// @Success      200         {object}  pageResponse[paymentResponse]
// @Router       /payments/ [get]
func (h *PaymentHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}

	res, err := h.payments.List(c.Request().Context(), user.ID, ports.PaymentFilter{
		AssignmentID: c.QueryParam("assignment"),
		Status:       c.QueryParam("status"),
		Page:         page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, toPaymentResponse))
}

// Create godoc
//
// @Summary      Record a salary payment
// @Description  actual_paid_amount defaults to amount when omitted.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPaymentRequest  true  "Payment"
// @Success      201   {object}  paymentResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /payments/ [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req createPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	p, err := h.payments.Create(c.Request().Context(), user.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

// Get godoc
//
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  paymentResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /payments/{id}/ [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	p, err := h.payments.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// Update godoc
//
// @Summary      Update a payment
// @Description  Amounts are not editable; deductions change actual_paid_amount.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Payment ID"
// @Param        body  body      updatePaymentRequest  true  "Fields to change"
// @Success      200   {object}  paymentResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /payments/{id}/ [patch]
func (h *PaymentHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req updatePaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toUpdate()
	if err != nil {
		return err
	}

	p, err := h.payments.Update(c.Request().Context(), user.ID, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}
