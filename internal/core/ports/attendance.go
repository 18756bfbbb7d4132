package ports

import (
	"context"
	"time"

	"github.com/homestaff/staff-ledger/internal/core/domain"
)

// AttendanceFilter carries all query parameters for listing attendance.
type AttendanceFilter struct {
	UserID       string
	AssignmentID string     // optional
	Date         *time.Time // optional: exact calendar day
	Page         Page
}

// AttendanceRepository defines persistence for attendance records.
type AttendanceRepository interface {
	// Create inserts one record. Returns domain.ErrDuplicateAttendance when
	// the (assignment, date) pair already exists.
	Create(ctx context.Context, a *domain.Attendance) error
	// CreateMany inserts all records or none of them when run inside a
	// transaction.
	CreateMany(ctx context.Context, records []*domain.Attendance) error
	FindByID(ctx context.Context, id string) (*domain.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]*domain.Attendance, int64, error)
	Update(ctx context.Context, a *domain.Attendance) error
	Delete(ctx context.Context, id string) error
	CountByAssignment(ctx context.Context, assignmentID string) (int64, error)
}

// AttendanceInput carries the fields of a new attendance record.
type AttendanceInput struct {
	AssignmentID string
	Date         time.Time
	CheckIn      string
	CheckOut     string
	Status       domain.AttendanceStatus
	Notes        string
}

// AttendanceUpdate carries a partial attendance update.
type AttendanceUpdate struct {
	CheckIn  *string
	CheckOut *string
	Status   *domain.AttendanceStatus
	Notes    *string
}

// AttendanceService defines caller-scoped operations on attendance.
type AttendanceService interface {
	List(ctx context.Context, userID string, filter AttendanceFilter) (*PageResult[*domain.AttendanceDetail], error)
	Create(ctx context.Context, userID string, in AttendanceInput) (*domain.AttendanceDetail, error)
	// BulkCreate records every input or none.
	BulkCreate(ctx context.Context, userID string, in []AttendanceInput) ([]*domain.AttendanceDetail, error)
	Get(ctx context.Context, userID, id string) (*domain.AttendanceDetail, error)
	Update(ctx context.Context, userID, id string, in AttendanceUpdate) (*domain.AttendanceDetail, error)
	Delete(ctx context.Context, userID, id string) error
}
