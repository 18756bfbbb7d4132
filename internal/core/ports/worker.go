package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homestaff/staff-ledger/internal/core/domain"
)

// WorkerFilter carries the query parameters for listing workers.
type WorkerFilter struct {
	Search string // optional: case-insensitive substring of name, phone or ID number
	Page   Page
}

// WorkerRepository defines persistence for worker profiles.
type WorkerRepository interface {
	Create(ctx context.Context, w *domain.Worker) error
	FindByID(ctx context.Context, id string) (*domain.Worker, error)
	// FindByIDs returns the workers that exist among ids, keyed by ID.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Worker, error)
	List(ctx context.Context, filter WorkerFilter) ([]*domain.Worker, int64, error)
	// Update writes the profile fields of w. It never touches the loan balance.
	Update(ctx context.Context, w *domain.Worker) error
	Delete(ctx context.Context, id string) error
	// UpdateLoanBalance sets the balance if the stored version still equals
	// expectedVersion, bumping the version. Returns domain.ErrConcurrentUpdate
	// otherwise.
	UpdateLoanBalance(ctx context.Context, id string, expectedVersion int64, balance decimal.Decimal) error
	// AddReference records that a new document points at the worker. It
	// writes the worker document, so inside a transaction it conflicts with
	// a concurrent Delete. Returns domain.ErrWorkerNotFound when the worker
	// is gone.
	AddReference(ctx context.Context, id string) error
}

// WorkerInput carries the fields of a new worker.
type WorkerInput struct {
	FullName         string
	PhoneNumber      string
	EmergencyContact string
	IDType           string
	IDNumber         string
	Address          string
	DOB              *time.Time
	City             string
	State            string
	Gender           domain.Gender
	ProfilePhoto     string
	IsVerified       bool
}

// WorkerUpdate carries a partial worker update. Nil fields are unchanged.
type WorkerUpdate struct {
	FullName         *string
	PhoneNumber      *string
	EmergencyContact *string
	IDType           *string
	IDNumber         *string
	Address          *string
	DOB              *time.Time
	City             *string
	State            *string
	Gender           *domain.Gender
	ProfilePhoto     *string
	IsVerified       *bool
}

// WorkerService defines use-case operations for worker profiles.
type WorkerService interface {
	List(ctx context.Context, filter WorkerFilter) (*PageResult[*domain.Worker], error)
	Create(ctx context.Context, in WorkerInput) (*domain.Worker, error)
	Get(ctx context.Context, id string) (*domain.Worker, error)
	Update(ctx context.Context, id string, in WorkerUpdate) (*domain.Worker, error)
	Delete(ctx context.Context, id string) error
}
