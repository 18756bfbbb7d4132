package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---- auth ----

type requestOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	OTP         string `json:"otp" validate:"required"`
}

type completeProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type userResponse struct {
	ID                string     `json:"id"`
	PhoneNumber       string     `json:"phone_number"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	IsActive          bool       `json:"is_active"`
	IsProfileComplete bool       `json:"is_profile_complete"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// verifyOTPResponse.IsProfileComplete is false only on first login. Clients
// deciding whether to show onboarding should read user.is_profile_complete,
// which matches GET /profile/ and the ledger route gate.
type verifyOTPResponse struct {
	Token             string       `json:"token"`
	IsProfileComplete bool         `json:"is_profile_complete"`
	User              userResponse `json:"user"`
}

// ---- workers ----

type createWorkerRequest struct {
	FullName         string `json:"full_name" validate:"required,max=255"`
	PhoneNumber      string `json:"phone_number" validate:"required,phone"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,phone"`
	IDType           string `json:"id_type" validate:"required,max=50"`
	IDNumber         string `json:"id_number" validate:"required,max=50"`
	Address          string `json:"address" validate:"required"`
	DOB              string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	City             string `json:"city" validate:"max=100"`
	State            string `json:"state" validate:"max=100"`
	Gender           string `json:"gender" validate:"omitempty,oneof=M F O"`
	ProfilePhoto     string `json:"profile_photo" validate:"max=500"`
	IsVerified       bool   `json:"is_verified"`
}

type updateWorkerRequest struct {
	FullName         *string `json:"full_name" validate:"omitnil,min=1,max=255"`
	PhoneNumber      *string `json:"phone_number" validate:"omitnil,phone"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,phone"`
	IDType           *string `json:"id_type" validate:"omitnil,min=1,max=50"`
	IDNumber         *string `json:"id_number" validate:"omitnil,min=1,max=50"`
	Address          *string `json:"address" validate:"omitnil,min=1"`
	DOB              *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	City             *string `json:"city" validate:"omitempty,max=100"`
	State            *string `json:"state" validate:"omitempty,max=100"`
	Gender           *string `json:"gender" validate:"omitempty,oneof=M F O"`
	ProfilePhoto     *string `json:"profile_photo" validate:"omitempty,max=500"`
	IsVerified       *bool   `json:"is_verified"`
}

type workerResponse struct {
	ID               string    `json:"id"`
	FullName         string    `json:"full_name"`
	PhoneNumber      string    `json:"phone_number"`
	EmergencyContact string    `json:"emergency_contact"`
	IDType           string    `json:"id_type"`
	IDNumber         string    `json:"id_number"`
	Address          string    `json:"address"`
	DOB              *string   `json:"dob"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Gender           string    `json:"gender"`
	ProfilePhoto     string    `json:"profile_photo"`
	IsVerified       bool      `json:"is_verified"`
	LoanBalance      string    `json:"loan_balance"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ---- loans ----

type addLoanRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" validate:"required,gt=0"`
	Notes  string          `json:"notes"`
}

type deductLoanRequest struct {
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" validate:"required,gt=0"`
	PaymentID string          `json:"payment_id"`
	Notes     string          `json:"notes"`
}

type adjustmentResponse struct {
	ID              string    `json:"id"`
	Worker          string    `json:"worker"`
	WorkerName      string    `json:"worker_name"`
	Kind            string    `json:"kind"`
	Amount          string    `json:"amount"`
	LoanAmount      string    `json:"loan_amount"`
	DeductionAmount string    `json:"deduction_amount"`
	Payment         *string   `json:"payment"`
	Notes           string    `json:"notes"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type adjustmentResultResponse struct {
	adjustmentResponse
	LoanBalance      string  `json:"loan_balance"`
	ActualPaidAmount *string `json:"actual_paid_amount,omitempty"`
}

// ---- assignments ----

type createAssignmentRequest struct {
	WorkerID      string          `json:"worker" validate:"required"`
	JobType       string          `json:"job_type" validate:"required,oneof=MAID COOK CLEAN GUARD DRIVER OTHER"`
	MonthlySalary decimal.Decimal `json:"monthly_salary" swaggertype:"string" validate:"required,gt=0"`
	ShiftStart    string          `json:"shift_start" validate:"required,datetime=15:04"`
	ShiftEnd      string          `json:"shift_end" validate:"required,datetime=15:04"`
	StartDate     string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status        string          `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
	Duties        string          `json:"duties"`
}

type updateAssignmentRequest struct {
	JobType       *string          `json:"job_type" validate:"omitnil,oneof=MAID COOK CLEAN GUARD DRIVER OTHER"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary" swaggertype:"string" validate:"omitnil,gt=0"`
	ShiftStart    *string          `json:"shift_start" validate:"omitnil,datetime=15:04"`
	ShiftEnd      *string          `json:"shift_end" validate:"omitnil,datetime=15:04"`
	StartDate     *string          `json:"start_date" validate:"omitnil,datetime=2006-01-02"`
	EndDate       *string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status        *string          `json:"status" validate:"omitnil,oneof=ACTIVE INACTIVE TERMINATED"`
	Duties        *string          `json:"duties"`
}

type assignmentResponse struct {
	ID             string    `json:"id"`
	Worker         string    `json:"worker"`
	WorkerName     string    `json:"worker_name"`
	JobType        string    `json:"job_type"`
	JobTypeDisplay string    `json:"job_type_display"`
	MonthlySalary  string    `json:"monthly_salary"`
	ShiftStart     string    `json:"shift_start"`
	ShiftEnd       string    `json:"shift_end"`
	StartDate      string    `json:"start_date"`
	EndDate        *string   `json:"end_date"`
	Status         string    `json:"status"`
	Duties         string    `json:"duties"`
	CreatedAt      time.Time `json:"created_at"`
}

// ---- attendance ----

type createAttendanceRequest struct {
	AssignmentID string `json:"assignment" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	CheckIn      string `json:"check_in" validate:"omitempty,datetime=15:04"`
	CheckOut     string `json:"check_out" validate:"omitempty,datetime=15:04"`
	Status       string `json:"status" validate:"omitempty,oneof=PRESENT ABSENT HALF_DAY LEAVE"`
	Notes        string `json:"notes"`
}

type updateAttendanceRequest struct {
	CheckIn  *string `json:"check_in" validate:"omitempty,datetime=15:04"`
	CheckOut *string `json:"check_out" validate:"omitempty,datetime=15:04"`
	Status   *string `json:"status" validate:"omitnil,oneof=PRESENT ABSENT HALF_DAY LEAVE"`
	Notes    *string `json:"notes"`
}

type attendanceResponse struct {
	ID         string    `json:"id"`
	Assignment string    `json:"assignment"`
	WorkerName string    `json:"worker_name"`
	JobType    string    `json:"job_type"`
	Date       string    `json:"date"`
	CheckIn    *string   `json:"check_in"`
	CheckOut   *string   `json:"check_out"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// ---- payments ----

type createPaymentRequest struct {
	AssignmentID     string           `json:"assignment" validate:"required"`
	Amount           decimal.Decimal  `json:"amount" swaggertype:"string" validate:"required,gt=0"`
	ActualPaidAmount *decimal.Decimal `json:"actual_paid_amount" swaggertype:"string" validate:"omitempty,gte=0"`
	PaymentDate      string           `json:"payment_date" validate:"required,datetime=2006-01-02"`
	PaymentMode      string           `json:"payment_mode" validate:"required,oneof=CASH UPI BANK OTHER"`
	Status           string           `json:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED"`
	Notes            string           `json:"notes"`
}

type updatePaymentRequest struct {
	PaymentDate *string `json:"payment_date" validate:"omitnil,datetime=2006-01-02"`
	PaymentMode *string `json:"payment_mode" validate:"omitnil,oneof=CASH UPI BANK OTHER"`
	Status      *string `json:"status" validate:"omitnil,oneof=PENDING COMPLETED FAILED"`
	Notes       *string `json:"notes"`
}

type paymentResponse struct {
	ID               string    `json:"id"`
	Assignment       string    `json:"assignment"`
	WorkerID         string    `json:"worker"`
	WorkerName       string    `json:"worker_name"`
	Amount           string    `json:"amount"`
	ActualPaidAmount string    `json:"actual_paid_amount"`
	PaymentDate      string    `json:"payment_date"`
	PaymentMode      string    `json:"payment_mode"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
}

// pageResponse is the envelope for every list endpoint.
type pageResponse[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}
