package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/homestaff/staff-ledger/internal/api/middleware"
	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

var testUser = &domain.User{ID: "u1", PhoneNumber: "+919876543210", FullName: "Asha Rao", IsActive: true}

// newTestContext builds a request context with the validator installed and,
// when user is non-nil, an authenticated caller.
func newTestContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.SetUser(c, user)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func requireValidationError(t *testing.T, err error, fields ...string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, f := range fields {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("expected field %q in %v", f, ve.Fields)
		}
	}
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != code {
		t.Fatalf("expected HTTP %d error, got %v", code, err)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ---- service stubs ----

type stubAuthService struct {
	requestOTPFn      func(ctx context.Context, phone string) error
	verifyOTPFn       func(ctx context.Context, phone, code string) (*ports.VerifyOTPResult, error)
	completeProfileFn func(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error)
}

func (s *stubAuthService) RequestOTP(ctx context.Context, phone string) error {
	return s.requestOTPFn(ctx, phone)
}

func (s *stubAuthService) VerifyOTP(ctx context.Context, phone, code string) (*ports.VerifyOTPResult, error) {
	return s.verifyOTPFn(ctx, phone, code)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAuthService) CompleteProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
	return s.completeProfileFn(ctx, userID, update)
}

type stubWorkerService struct {
	listFn   func(ctx context.Context, filter ports.WorkerFilter) (*ports.PageResult[*domain.Worker], error)
	createFn func(ctx context.Context, in ports.WorkerInput) (*domain.Worker, error)
	getFn    func(ctx context.Context, id string) (*domain.Worker, error)
	updateFn func(ctx context.Context, id string, in ports.WorkerUpdate) (*domain.Worker, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubWorkerService) List(ctx context.Context, filter ports.WorkerFilter) (*ports.PageResult[*domain.Worker], error) {
	return s.listFn(ctx, filter)
}

func (s *stubWorkerService) Create(ctx context.Context, in ports.WorkerInput) (*domain.Worker, error) {
	return s.createFn(ctx, in)
}

func (s *stubWorkerService) Get(ctx context.Context, id string) (*domain.Worker, error) {
	return s.getFn(ctx, id)
}

func (s *stubWorkerService) Update(ctx context.Context, id string, in ports.WorkerUpdate) (*domain.Worker, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubWorkerService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubLedgerService struct {
	recordFn  func(ctx context.Context, in ports.AdjustmentInput) (*ports.AdjustmentResult, error)
	historyFn func(ctx context.Context, workerID string, page ports.Page) (*ports.PageResult[*domain.LoanAdjustmentDetail], error)
}

func (s *stubLedgerService) Record(ctx context.Context, in ports.AdjustmentInput) (*ports.AdjustmentResult, error) {
	return s.recordFn(ctx, in)
}

func (s *stubLedgerService) History(ctx context.Context, workerID string, page ports.Page) (*ports.PageResult[*domain.LoanAdjustmentDetail], error) {
	return s.historyFn(ctx, workerID, page)
}

type stubAssignmentService struct {
	listFn   func(ctx context.Context, userID string, filter ports.AssignmentFilter) (*ports.PageResult[*domain.AssignmentDetail], error)
	createFn func(ctx context.Context, userID string, in ports.AssignmentInput) (*domain.AssignmentDetail, error)
	getFn    func(ctx context.Context, userID, id string) (*domain.AssignmentDetail, error)
	updateFn func(ctx context.Context, userID, id string, in ports.AssignmentUpdate) (*domain.AssignmentDetail, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (s *stubAssignmentService) List(ctx context.Context, userID string, filter ports.AssignmentFilter) (*ports.PageResult[*domain.AssignmentDetail], error) {
	return s.listFn(ctx, userID, filter)
}

func (s *stubAssignmentService) Create(ctx context.Context, userID string, in ports.AssignmentInput) (*domain.AssignmentDetail, error) {
	return s.createFn(ctx, userID, in)
}

func (s *stubAssignmentService) Get(ctx context.Context, userID, id string) (*domain.AssignmentDetail, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubAssignmentService) Update(ctx context.Context, userID, id string, in ports.AssignmentUpdate) (*domain.AssignmentDetail, error) {
	return s.updateFn(ctx, userID, id, in)
}

func (s *stubAssignmentService) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

type stubAttendanceService struct {
	listFn       func(ctx context.Context, userID string, filter ports.AttendanceFilter) (*ports.PageResult[*domain.AttendanceDetail], error)
	createFn     func(ctx context.Context, userID string, in ports.AttendanceInput) (*domain.AttendanceDetail, error)
	bulkCreateFn func(ctx context.Context, userID string, in []ports.AttendanceInput) ([]*domain.AttendanceDetail, error)
	getFn        func(ctx context.Context, userID, id string) (*domain.AttendanceDetail, error)
	updateFn     func(ctx context.Context, userID, id string, in ports.AttendanceUpdate) (*domain.AttendanceDetail, error)
	deleteFn     func(ctx context.Context, userID, id string) error
}

func (s *stubAttendanceService) List(ctx context.Context, userID string, filter ports.AttendanceFilter) (*ports.PageResult[*domain.AttendanceDetail], error) {
	return s.listFn(ctx, userID, filter)
}

func (s *stubAttendanceService) Create(ctx context.Context, userID string, in ports.AttendanceInput) (*domain.AttendanceDetail, error) {
	return s.createFn(ctx, userID, in)
}

func (s *stubAttendanceService) BulkCreate(ctx context.Context, userID string, in []ports.AttendanceInput) ([]*domain.AttendanceDetail, error) {
	return s.bulkCreateFn(ctx, userID, in)
}

func (s *stubAttendanceService) Get(ctx context.Context, userID, id string) (*domain.AttendanceDetail, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubAttendanceService) Update(ctx context.Context, userID, id string, in ports.AttendanceUpdate) (*domain.AttendanceDetail, error) {
	return s.updateFn(ctx, userID, id, in)
}

func (s *stubAttendanceService) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

type stubPaymentService struct {
	listFn   func(ctx context.Context, userID string, filter ports.PaymentFilter) (*ports.PageResult[*domain.PaymentDetail], error)
	createFn func(ctx context.Context, userID string, in ports.PaymentInput) (*domain.PaymentDetail, error)
	getFn    func(ctx context.Context, userID, id string) (*domain.PaymentDetail, error)
	updateFn func(ctx context.Context, userID, id string, in ports.PaymentUpdate) (*domain.PaymentDetail, error)
}

func (s *stubPaymentService) List(ctx context.Context, userID string, filter ports.PaymentFilter) (*ports.PageResult[*domain.PaymentDetail], error) {
	return s.listFn(ctx, userID, filter)
}

func (s *stubPaymentService) Create(ctx context.Context, userID string, in ports.PaymentInput) (*domain.PaymentDetail, error) {
	return s.createFn(ctx, userID, in)
}

func (s *stubPaymentService) Get(ctx context.Context, userID, id string) (*domain.PaymentDetail, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubPaymentService) Update(ctx context.Context, userID, id string, in ports.PaymentUpdate) (*domain.PaymentDetail, error) {
	return s.updateFn(ctx, userID, id, in)
}
