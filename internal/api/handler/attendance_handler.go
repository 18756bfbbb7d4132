package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homestaff/staff-ledger/internal/core/ports"
)

const maxBulkAttendance = 200

// AttendanceHandler serves attendance for the caller's assignments.
type AttendanceHandler struct {
	attendance ports.AttendanceService
}

func NewAttendanceHandler(attendance ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
//
// @Summary      List attendance
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        date        query     string  false  "Calendar day (YYYY-MM-DD)"
// @Param        assignment  query     string  false  "Assignment ID"
// @Param        page        query     int     false  "Page number"  default(1)
// @Param        limit       query     int     false  "Page size"    default(20)
// @Success      200         {object}  pageResponse[attendanceResponse]
// @Failure      400         {object}  ErrorResponse
// @Router       /attendance/ [get]
func (h *AttendanceHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}

	filter := ports.AttendanceFilter{
		AssignmentID: c.QueryParam("assignment"),
		Page:         page,
	}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := parseDate("date", raw)
		if err != nil {
			return err
		}
		filter.Date = &d
	}

	res, err := h.attendance.List(c.Request().Context(), user.ID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPage(res, toAttendanceResponse))
}

// Create godoc
//
// @Summary      Record attendance for one day
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAttendanceRequest  true  "Attendance"
// @Success      201   {object}  attendanceResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /attendance/ [post]
func (h *AttendanceHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req createAttendanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	a, err := h.attendance.Create(c.Request().Context(), user.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAttendanceResponse(a))
}

// BulkCreate godoc
//
// @Summary      Record several attendance entries at once
// @Description  Either every entry is stored or none is.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []createAttendanceRequest  true  "Attendance entries"
// @Success      201   {array}   attendanceResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /attendance/bulk_create/ [post]
func (h *AttendanceHandler) BulkCreate(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var reqs []createAttendanceRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one attendance entry is required")
	}
	if len(reqs) > maxBulkAttendance {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("at most %d attendance entries per request", maxBulkAttendance))
	}

	inputs := make([]ports.AttendanceInput, 0, len(reqs))
	fields := map[string]string{}
	for i := range reqs {
		in, err := validateBulkItem(c, &reqs[i])
		if err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return err
			}
			for k, v := range ve.Fields {
				fields[fmt.Sprintf("[%d].%s", i, k)] = v
			}
			continue
		}
		inputs = append(inputs, in)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	created, err := h.attendance.BulkCreate(c.Request().Context(), user.ID, inputs)
	if err != nil {
		return err
	}

	out := make([]attendanceResponse, 0, len(created))
	for _, a := range created {
		out = append(out, toAttendanceResponse(a))
	}
	return c.JSON(http.StatusCreated, out)
}

func validateBulkItem(c echo.Context, req *createAttendanceRequest) (ports.AttendanceInput, error) {
	if err := c.Validate(req); err != nil {
		return ports.AttendanceInput{}, err
	}
	return req.toInput()
}

// Get godoc
//
// @Summary      Get an attendance record
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Attendance ID"
// @Success      200  {object}  attendanceResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /attendance/{id}/ [get]
func (h *AttendanceHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	a, err := h.attendance.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttendanceResponse(a))
}

// Update godoc
//
// @Summary      Update an attendance record
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Attendance ID"
// @Param        body  body      updateAttendanceRequest  true  "Fields to change"
// @Success      200   {object}  attendanceResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /attendance/{id}/ [patch]
func (h *AttendanceHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req updateAttendanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := h.attendance.Update(c.Request().Context(), user.ID, c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttendanceResponse(a))
}

// Delete godoc
//
// @Summary      Delete an attendance record
// @Tags         attendance
// @Security     BearerAuth
// @Param        id   path  string  true  "Attendance ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /attendance/{id}/ [delete]
func (h *AttendanceHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.attendance.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
