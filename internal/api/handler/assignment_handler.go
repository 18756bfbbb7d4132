package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestaff/staff-ledger/internal/core/ports"
)

// AssignmentHandler serves the caller's worker assignments.
type AssignmentHandler struct {
	assignments ports.AssignmentService
}

func NewAssignmentHandler(assignments ports.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
//
// @Summary      List the caller's assignments
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        worker  query     string  false  "Worker ID"
// @Param        status  query     string  false  "ACTIVE, INACTIVE or TERMINATED"
// @Param        page    query     int     false  "Page number"  default(1)
// @Param        limit   query     int     false  "Page size"    default(20)
// @Success      200     {object}  pageResponse[assignmentResponse]
// @Router       /assignments/ [get]
func (h *AssignmentHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}

	res, err := h.assignments.List(c.Request().Context(), user.ID, ports.AssignmentFilter{
		WorkerID: c.QueryParam("worker"),
		Status:   c.QueryParam("status"),
		Page:     page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, toAssignmentResponse))
}

// Create godoc
//
// @Summary      Assign a worker to the caller
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAssignmentRequest  true  "Assignment"
// @Success      201   {object}  assignmentResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /assignments/ [post]
func (h *AssignmentHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req createAssignmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	a, err := h.assignments.Create(c.Request().Context(), user.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAssignmentResponse(a))
}

// Get godoc
//
// @Summary      Get one of the caller's assignments
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Assignment ID"
// @Success      200  {object}  assignmentResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /assignments/{id}/ [get]
func (h *AssignmentHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	a, err := h.assignments.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssignmentResponse(a))
}

// Update godoc
//
// @Summary      Update one of the caller's assignments
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Assignment ID"
// @Param        body  body      updateAssignmentRequest  true  "Fields to change"
// @Success      200   {object}  assignmentResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /assignments/{id}/ [patch]
func (h *AssignmentHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req updateAssignmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toUpdate()
	if err != nil {
		return err
	}

	a, err := h.assignments.Update(c.Request().Context(), user.ID, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssignmentResponse(a))
}

// Delete godoc
//
// @Summary      Delete one of the caller's assignments
// @Tags         assignments
// @Security     BearerAuth
// @Param        id   path  string  true  "Assignment ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /assignments/{id}/ [delete]
func (h *AssignmentHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.assignments.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
