package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

// WorkerHandler serves worker profiles and their loan ledger. Workers are a
// shared directory; the ledger endpoints record who made each entry.
type WorkerHandler struct {
	workers ports.WorkerService
	ledger  ports.LedgerService
}

func NewWorkerHandler(workers ports.WorkerService, ledger ports.LedgerService) *WorkerHandler {
	return &WorkerHandler{workers: workers, ledger: ledger}
}

// List godoc
//
// @Summary      List workers
// @Tags         workers
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Matches name, phone or ID number"
// @Param        page    query     int     false  "Page number"  default(1)
// @Param        limit   query     int     false  "Page size"    default(20)
// @Success      200     {object}  pageResponse[workerResponse]
// @Failure      401     {object}  ErrorResponse
// @Router       /workers/ [get]
func (h *WorkerHandler) List(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}

	res, err := h.workers.List(c.Request().Context(), ports.WorkerFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
		Page:   page,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPage(res, toWorkerResponse))
}

// Create godoc
//
// @Summary      Create a worker
// @Tags         workers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createWorkerRequest  true  "Worker profile"
// @Success      201   {object}  workerResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /workers/ [post]
func (h *WorkerHandler) Create(c echo.Context) error {
	var req createWorkerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	w, err := h.workers.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toWorkerResponse(w))
}

// Get godoc
//
// @Summary      Get a worker
// @Tags         workers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Worker ID"
// @Success      200  {object}  workerResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /workers/{id}/ [get]
func (h *WorkerHandler) Get(c echo.Context) error {
	w, err := h.workers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWorkerResponse(w))
}

// Replace godoc
//
// @Summary      Replace a worker's profile
// @Tags         workers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Worker ID"
// @Param        body  body      createWorkerRequest  true  "Worker profile"
// @Success      200   {object}  workerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /workers/{id}/ [put]
func (h *WorkerHandler) Replace(c echo.Context) error {
	var req createWorkerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toUpdate()
	if err != nil {
		return err
	}
	return h.update(c, in)
}

// Update godoc
//
// @Summary      Partially update a worker
// @Description  The loan balance is read-only; use the loan endpoints.
// @Tags         workers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Worker ID"
// @Param        body  body      updateWorkerRequest  true  "Fields to change"
// @Success      200   {object}  workerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /workers/{id}/ [patch]
func (h *WorkerHandler) Update(c echo.Context) error {
	var req updateWorkerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toUpdate()
	if err != nil {
		return err
	}
	return h.update(c, in)
}

func (h *WorkerHandler) update(c echo.Context, in ports.WorkerUpdate) error {
	w, err := h.workers.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWorkerResponse(w))
}

// Delete godoc
//
// @Summary      Delete a worker
// @Tags         workers
// @Security     BearerAuth
// @Param        id   path  string  true  "Worker ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /workers/{id}/ [delete]
func (h *WorkerHandler) Delete(c echo.Context) error {
	if err := h.workers.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddLoan godoc
//
// @Summary      Grant a loan to a worker
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Worker ID"
// @Param        body  body      addLoanRequest  true  "Loan"
// @Success      200   {object}  adjustmentResultResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /workers/{id}/add_loan/ [post]
func (h *WorkerHandler) AddLoan(c echo.Context) error {
	var req addLoanRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.record(c, ports.AdjustmentInput{
		Kind:   domain.AdjustmentGrant,
		Amount: req.Amount,
		Notes:  req.Notes,
	})
}

// DeductLoan godoc
//
// @Summary      Recover part of a worker's loan from salary
// @Description  When payment_id is set, that payment's actual paid amount becomes amount minus this deduction, replacing any earlier deduction's effect.
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Worker ID"
// @Param        body  body      deductLoanRequest  true  "Deduction"
// @Success      200   {object}  adjustmentResultResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /workers/{id}/deduct_loan/ [post]
func (h *WorkerHandler) DeductLoan(c echo.Context) error {
	var req deductLoanRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.record(c, ports.AdjustmentInput{
		Kind:      domain.AdjustmentDeduction,
		Amount:    req.Amount,
		PaymentID: strings.TrimSpace(req.PaymentID),
		Notes:     req.Notes,
	})
}

func (h *WorkerHandler) record(c echo.Context, in ports.AdjustmentInput) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	in.WorkerID = c.Param("id")
	in.UserID = user.ID

	res, err := h.ledger.Record(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdjustmentResultResponse(res))
}

// Adjustments godoc
//
// @Summary      List a worker's loan ledger
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Worker ID"
// @Param        page   query     int     false  "Page number"  default(1)
// @Param        limit  query     int     false  "Page size"    default(20)
// @Success      200    {object}  pageResponse[adjustmentResponse]
// @Failure      404    {object}  ErrorResponse
// @Router       /workers/{id}/adjustments/ [get]
func (h *WorkerHandler) Adjustments(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}

	res, err := h.ledger.History(c.Request().Context(), c.Param("id"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, toAdjustmentResponse))
}
