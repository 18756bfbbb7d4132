package handler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDate reads a calendar date. Inputs are already format-checked by the
// validator, so a failure here is still reported as bad input.
func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Fields: map[string]string{
			field: fmt.Sprintf("%s must match the format %s", field, domain.DateLayout),
		}}
	}
	return t, nil
}

func parseDatePtr(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toPage[T, R any](res *ports.PageResult[T], fn func(T) R) pageResponse[R] {
	out := make([]R, 0, len(res.Items))
	for _, item := range res.Items {
		out = append(out, fn(item))
	}
	return pageResponse[R]{
		Count:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
		Results:    out,
	}
}

// ---- users ----

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:                u.ID,
		PhoneNumber:       u.PhoneNumber,
		FullName:          u.FullName,
		Email:             u.Email,
		IsActive:          u.IsActive,
		IsProfileComplete: u.IsProfileComplete(),
		LastLogin:         u.LastLogin,
		CreatedAt:         u.CreatedAt,
	}
}

// ---- workers ----

func (r *createWorkerRequest) toInput() (ports.WorkerInput, error) {
	dob, err := parseDatePtr("dob", optional(r.DOB))
	if err != nil {
		return ports.WorkerInput{}, err
	}
	return ports.WorkerInput{
		FullName:         r.FullName,
		PhoneNumber:      r.PhoneNumber,
		EmergencyContact: r.EmergencyContact,
		IDType:           r.IDType,
		IDNumber:         r.IDNumber,
		Address:          r.Address,
		DOB:              dob,
		City:             r.City,
		State:            r.State,
		Gender:           domain.Gender(r.Gender),
		ProfilePhoto:     r.ProfilePhoto,
		IsVerified:       r.IsVerified,
	}, nil
}

// toUpdate converts a full replacement into an update that sets every field.
func (r *createWorkerRequest) toUpdate() (ports.WorkerUpdate, error) {
	in, err := r.toInput()
	if err != nil {
		return ports.WorkerUpdate{}, err
	}
	return ports.WorkerUpdate{
		FullName:         &in.FullName,
		PhoneNumber:      &in.PhoneNumber,
		EmergencyContact: &in.EmergencyContact,
		IDType:           &in.IDType,
		IDNumber:         &in.IDNumber,
		Address:          &in.Address,
		DOB:              in.DOB,
		City:             &in.City,
		State:            &in.State,
		Gender:           &in.Gender,
		ProfilePhoto:     &in.ProfilePhoto,
		IsVerified:       &in.IsVerified,
	}, nil
}

func (r *updateWorkerRequest) toUpdate() (ports.WorkerUpdate, error) {
	dob, err := parseDatePtr("dob", r.DOB)
	if err != nil {
		return ports.WorkerUpdate{}, err
	}
	u := ports.WorkerUpdate{
		FullName:         r.FullName,
		PhoneNumber:      r.PhoneNumber,
		EmergencyContact: r.EmergencyContact,
		IDType:           r.IDType,
		IDNumber:         r.IDNumber,
		Address:          r.Address,
		DOB:              dob,
		City:             r.City,
		State:            r.State,
		ProfilePhoto:     r.ProfilePhoto,
		IsVerified:       r.IsVerified,
	}
	if r.Gender != nil {
		g := domain.Gender(*r.Gender)
		u.Gender = &g
	}
	return u, nil
}

func toWorkerResponse(w *domain.Worker) workerResponse {
	return workerResponse{
		ID:               w.ID,
		FullName:         w.FullName,
		PhoneNumber:      w.PhoneNumber,
		EmergencyContact: w.EmergencyContact,
		IDType:           w.IDType,
		IDNumber:         w.IDNumber,
		Address:          w.Address,
		DOB:              formatDatePtr(w.DOB),
		City:             w.City,
		State:            w.State,
		Gender:           string(w.Gender),
		ProfilePhoto:     w.ProfilePhoto,
		IsVerified:       w.IsVerified,
		LoanBalance:      money(w.LoanBalance),
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

// ---- loans ----

func toAdjustmentResponse(a *domain.LoanAdjustmentDetail) adjustmentResponse {
	return adjustmentResponse{
		ID:              a.ID,
		Worker:          a.WorkerID,
		WorkerName:      a.WorkerName,
		Kind:            string(a.Kind),
		Amount:          money(a.Amount),
		LoanAmount:      money(a.LoanAmount()),
		DeductionAmount: money(a.DeductionAmount()),
		Payment:         optional(a.PaymentID),
		Notes:           a.Notes,
		CreatedBy:       a.CreatedBy,
		CreatedAt:       a.CreatedAt,
	}
}

func toAdjustmentResultResponse(res *ports.AdjustmentResult) adjustmentResultResponse {
	out := adjustmentResultResponse{
		adjustmentResponse: toAdjustmentResponse(res.Adjustment),
		LoanBalance:        money(res.LoanBalance),
	}
	if res.Payment != nil {
		s := money(res.Payment.ActualPaidAmount)
		out.ActualPaidAmount = &s
	}
	return out
}

// ---- assignments ----

func (r *createAssignmentRequest) toInput() (ports.AssignmentInput, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return ports.AssignmentInput{}, err
	}
	end, err := parseDatePtr("end_date", optional(r.EndDate))
	if err != nil {
		return ports.AssignmentInput{}, err
	}
	return ports.AssignmentInput{
		WorkerID:      r.WorkerID,
		JobType:       domain.JobType(r.JobType),
		MonthlySalary: r.MonthlySalary,
		ShiftStart:    r.ShiftStart,
		ShiftEnd:      r.ShiftEnd,
		StartDate:     start,
		EndDate:       end,
		Status:        domain.AssignmentStatus(r.Status),
		Duties:        r.Duties,
	}, nil
}

func (r *updateAssignmentRequest) toUpdate() (ports.AssignmentUpdate, error) {
	start, err := parseDatePtr("start_date", r.StartDate)
	if err != nil {
		return ports.AssignmentUpdate{}, err
	}
	end, err := parseDatePtr("end_date", r.EndDate)
	if err != nil {
		return ports.AssignmentUpdate{}, err
	}
	u := ports.AssignmentUpdate{
		MonthlySalary: r.MonthlySalary,
		ShiftStart:    r.ShiftStart,
		ShiftEnd:      r.ShiftEnd,
		StartDate:     start,
		EndDate:       end,
		Duties:        r.Duties,
	}
	if r.JobType != nil {
		j := domain.JobType(*r.JobType)
		u.JobType = &j
	}
	if r.Status != nil {
		s := domain.AssignmentStatus(*r.Status)
		u.Status = &s
	}
	return u, nil
}

func toAssignmentResponse(a *domain.AssignmentDetail) assignmentResponse {
	return assignmentResponse{
		ID:             a.ID,
		Worker:         a.WorkerID,
		WorkerName:     a.WorkerName,
		JobType:        string(a.JobType),
		JobTypeDisplay: a.JobType.Display(),
		MonthlySalary:  money(a.MonthlySalary),
		ShiftStart:     a.ShiftStart,
		ShiftEnd:       a.ShiftEnd,
		StartDate:      formatDate(a.StartDate),
		EndDate:        formatDatePtr(a.EndDate),
		Status:         string(a.Status),
		Duties:         a.Duties,
		CreatedAt:      a.CreatedAt,
	}
}

// ---- attendance ----

func (r *createAttendanceRequest) toInput() (ports.AttendanceInput, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return ports.AttendanceInput{}, err
	}
	return ports.AttendanceInput{
		AssignmentID: r.AssignmentID,
		Date:         date,
		CheckIn:      r.CheckIn,
		CheckOut:     r.CheckOut,
		Status:       domain.AttendanceStatus(r.Status),
		Notes:        r.Notes,
	}, nil
}

func (r *updateAttendanceRequest) toUpdate() ports.AttendanceUpdate {
	u := ports.AttendanceUpdate{
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
		Notes:    r.Notes,
	}
	if r.Status != nil {
		s := domain.AttendanceStatus(*r.Status)
		u.Status = &s
	}
	return u
}

func toAttendanceResponse(a *domain.AttendanceDetail) attendanceResponse {
	return attendanceResponse{
		ID:         a.ID,
		Assignment: a.AssignmentID,
		WorkerName: a.WorkerName,
		JobType:    a.JobType,
		Date:       formatDate(a.Date),
		CheckIn:    optional(a.CheckIn),
		CheckOut:   optional(a.CheckOut),
		Status:     string(a.Status),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
	}
}

// ---- payments ----

func (r *createPaymentRequest) toInput() (ports.PaymentInput, error) {
	date, err := parseDate("payment_date", r.PaymentDate)
	if err != nil {
		return ports.PaymentInput{}, err
	}
	return ports.PaymentInput{
		AssignmentID:     r.AssignmentID,
		Amount:           r.Amount,
		ActualPaidAmount: r.ActualPaidAmount,
		PaymentDate:      date,
		PaymentMode:      domain.PaymentMode(r.PaymentMode),
		Status:           domain.PaymentStatus(r.Status),
		Notes:            r.Notes,
	}, nil
}

func (r *updatePaymentRequest) toUpdate() (ports.PaymentUpdate, error) {
	date, err := parseDatePtr("payment_date", r.PaymentDate)
	if err != nil {
		return ports.PaymentUpdate{}, err
	}
	u := ports.PaymentUpdate{PaymentDate: date, Notes: r.Notes}
	if r.PaymentMode != nil {
		m := domain.PaymentMode(*r.PaymentMode)
		u.PaymentMode = &m
	}
	if r.Status != nil {
		s := domain.PaymentStatus(*r.Status)
		u.Status = &s
	}
	return u, nil
}

func toPaymentResponse(p *domain.PaymentDetail) paymentResponse {
	return paymentResponse{
		ID:               p.ID,
		Assignment:       p.AssignmentID,
		WorkerID:         p.WorkerID,
		WorkerName:       p.WorkerName,
		Amount:           money(p.Amount),
		ActualPaidAmount: money(p.ActualPaidAmount),
		PaymentDate:      formatDate(p.PaymentDate),
		PaymentMode:      string(p.PaymentMode),
		Status:           string(p.Status),
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
	}
}
