package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/homestaff/staff-ledger/internal/core/domain"
)

// AdjustmentRepository persists loan ledger entries. Entries are append-only.
type AdjustmentRepository interface {
	Create(ctx context.Context, a *domain.LoanAdjustment) error
	// ListByWorker returns a worker's entries, newest first.
	ListByWorker(ctx context.Context, workerID string, page Page) ([]*domain.LoanAdjustment, int64, error)
	CountByWorker(ctx context.Context, workerID string) (int64, error)
	// CountDeductionsByPayment counts earlier deductions linked to a payment.
	CountDeductionsByPayment(ctx context.Context, paymentID string) (int64, error)
}

// AdjustmentInput is the request to record one ledger entry.
type AdjustmentInput struct {
	WorkerID  string
	Kind      domain.AdjustmentKind
	Amount    decimal.Decimal
	PaymentID string // deductions only
	Notes     string
	// UserID is the caller; it scopes the linked payment and is stored as
	// the entry's author.
	UserID string
}

// AdjustmentResult is a recorded entry and the worker's resulting balance.
type AdjustmentResult struct {
	Adjustment  *domain.LoanAdjustmentDetail
	LoanBalance decimal.Decimal
	// Payment is the linked payment after the deduction, if any.
	Payment *domain.Payment
}

// LedgerService records loan grants and deductions.
type LedgerService interface {
	Record(ctx context.Context, in AdjustmentInput) (*AdjustmentResult, error)
	History(ctx context.Context, workerID string, page Page) (*PageResult[*domain.LoanAdjustmentDetail], error)
}
