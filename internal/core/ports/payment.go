package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homestaff/staff-ledger/internal/core/domain"
)

// PaymentFilter carries all query parameters for listing payments.
type PaymentFilter struct {
	UserID       string
	AssignmentID string // optional
	Status       string // optional
	Page         Page
}

// PaymentRepository defines persistence for salary payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, int64, error)
	// Update writes date, mode, status and notes.
	Update(ctx context.Context, p *domain.Payment) error
	// SetActualPaidAmount is the only way actual_paid_amount changes after
	// creation; it is driven by loan deductions.
	SetActualPaidAmount(ctx context.Context, id string, amount decimal.Decimal) error
	CountByAssignment(ctx context.Context, assignmentID string) (int64, error)
}

// PaymentInput carries the fields of a new payment. A nil ActualPaidAmount
// defaults to Amount.
type PaymentInput struct {
	AssignmentID     string
	Amount           decimal.Decimal
	ActualPaidAmount *decimal.Decimal
	PaymentDate      time.Time
	PaymentMode      domain.PaymentMode
	Status           domain.PaymentStatus
	Notes            string
}

// PaymentUpdate carries a partial payment update. Amounts are not editable.
type PaymentUpdate struct {
	PaymentDate *time.Time
	PaymentMode *domain.PaymentMode
	Status      *domain.PaymentStatus
	Notes       *string
}

// PaymentService defines caller-scoped operations on payments.
type PaymentService interface {
	List(ctx context.Context, userID string, filter PaymentFilter) (*PageResult[*domain.PaymentDetail], error)
	Create(ctx context.Context, userID string, in PaymentInput) (*domain.PaymentDetail, error)
	Get(ctx context.Context, userID, id string) (*domain.PaymentDetail, error)
	Update(ctx context.Context, userID, id string, in PaymentUpdate) (*domain.PaymentDetail, error)
}
