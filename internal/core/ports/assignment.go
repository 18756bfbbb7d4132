package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homestaff/staff-ledger/internal/core/domain"
)

// AssignmentFilter carries all query parameters for listing assignments.
// UserID is always set by the service layer.
type AssignmentFilter struct {
	UserID   string
	WorkerID string // optional
	Status   string // optional
	Page     Page
}

// AssignmentRepository defines persistence for worker assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) error
	FindByID(ctx context.Context, id string) (*domain.Assignment, error)
	// FindByIDs returns the assignments that exist among ids, keyed by ID.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Assignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]*domain.Assignment, int64, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id string) error
	CountByWorker(ctx context.Context, workerID string) (int64, error)
}

// AssignmentInput carries the fields of a new assignment.
type AssignmentInput struct {
	WorkerID      string
	JobType       domain.JobType
	MonthlySalary decimal.Decimal
	ShiftStart    string
	ShiftEnd      string
	StartDate     time.Time
	EndDate       *time.Time
	Status        domain.AssignmentStatus
	Duties        string
}

// AssignmentUpdate carries a partial assignment update. The worker and owner
// of an assignment never change.
type AssignmentUpdate struct {
	JobType       *domain.JobType
	MonthlySalary *decimal.Decimal
	ShiftStart    *string
	ShiftEnd      *string
	StartDate     *time.Time
	EndDate       *time.Time
	Status        *domain.AssignmentStatus
	Duties        *string
}

// AssignmentService defines caller-scoped operations on assignments.
type AssignmentService interface {
	List(ctx context.Context, userID string, filter AssignmentFilter) (*PageResult[*domain.AssignmentDetail], error)
	Create(ctx context.Context, userID string, in AssignmentInput) (*domain.AssignmentDetail, error)
	Get(ctx context.Context, userID, id string) (*domain.AssignmentDetail, error)
	Update(ctx context.Context, userID, id string, in AssignmentUpdate) (*domain.AssignmentDetail, error)
	Delete(ctx context.Context, userID, id string) error
}
