package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

type AssignmentService struct {
	repo       ports.AssignmentRepository
	workers    ports.WorkerRepository
	attendance ports.AttendanceRepository
	payments   ports.PaymentRepository
	tx         ports.Transactor
	policy     ownershipPolicy
	logger     zerolog.Logger
}

func NewAssignmentService(
	repo ports.AssignmentRepository,
	workers ports.WorkerRepository,
	attendance ports.AttendanceRepository,
	payments ports.PaymentRepository,
	tx ports.Transactor,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		repo:       repo,
		workers:    workers,
		attendance: attendance,
		payments:   payments,
		tx:         tx,
		logger:     logger,
	}
}

// List returns the caller's assignments. The filter's UserID is always
// overwritten with the caller.
func (s *AssignmentService) List(ctx context.Context, userID string, filter ports.AssignmentFilter) (*ports.PageResult[*domain.AssignmentDetail], error) {
	filter.UserID = userID
	filter.Page = filter.Page.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	details, err := s.enrich(ctx, items)
	if err != nil {
		return nil, err
	}
	return ports.NewPageResult(details, total, filter.Page), nil
}

// Create assigns an existing worker to the caller. The insert and a write to
// the worker document share one transaction, so a concurrent worker delete
// either sees the assignment or aborts this create.
func (s *AssignmentService) Create(ctx context.Context, userID string, in ports.AssignmentInput) (*domain.AssignmentDetail, error) {
	a := &domain.Assignment{
		ID:            uuid.NewString(),
		WorkerID:      in.WorkerID,
		UserID:        userID,
		JobType:       in.JobType,
		MonthlySalary: in.MonthlySalary,
		ShiftStart:    in.ShiftStart,
		ShiftEnd:      in.ShiftEnd,
		StartDate:     domain.TruncateDay(in.StartDate),
		EndDate:       truncateDayPtr(in.EndDate),
		Status:        in.Status,
		Duties:        in.Duties,
		CreatedAt:     time.Now().UTC(),
	}
	if a.Status == "" {
		a.Status = domain.AssignmentActive
	}
	if err := a.ValidateDates(); err != nil {
		return nil, err
	}

	var worker *domain.Worker
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		worker, err = s.workers.FindByID(ctx, in.WorkerID)
		if err != nil {
			return err
		}
		if err := s.workers.AddReference(ctx, worker.ID); err != nil {
			return err
		}
		return s.repo.Create(ctx, a)
	})
	if err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			return nil, fmt.Errorf("%w: worker %q does not exist", domain.ErrInvalidInput, in.WorkerID)
		}
		s.logger.Error().Err(err).Str("worker_id", a.WorkerID).Msg("failed to create assignment")
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.logger.Info().
		Str("assignment_id", a.ID).
		Str("worker_id", a.WorkerID).
		Str("user_id", userID).
		Msg("assignment created")

	return &domain.AssignmentDetail{Assignment: *a, WorkerName: worker.FullName}, nil
}

func (s *AssignmentService) Get(ctx context.Context, userID, id string) (*domain.AssignmentDetail, error) {
	a, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, a)
}

func (s *AssignmentService) Update(ctx context.Context, userID, id string, in ports.AssignmentUpdate) (*domain.AssignmentDetail, error) {
	a, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.JobType != nil {
		a.JobType = *in.JobType
	}
	if in.MonthlySalary != nil {
		a.MonthlySalary = *in.MonthlySalary
	}
	setString(&a.ShiftStart, in.ShiftStart)
	setString(&a.ShiftEnd, in.ShiftEnd)
	if in.StartDate != nil {
		a.StartDate = domain.TruncateDay(*in.StartDate)
	}
	if in.EndDate != nil {
		a.EndDate = truncateDayPtr(in.EndDate)
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	setString(&a.Duties, in.Duties)

	if err := a.ValidateDates(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return s.detail(ctx, a)
}

// Delete removes an assignment with no attendance or payments recorded
// against it.
func (s *AssignmentService) Delete(ctx context.Context, userID, id string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, userID, id); err != nil {
			return err
		}

		n, err := s.attendance.CountByAssignment(ctx, id)
		if err != nil {
			return fmt.Errorf("delete assignment: count attendance: %w", err)
		}
		if n > 0 {
			return domain.ErrAssignmentInUse
		}

		n, err = s.payments.CountByAssignment(ctx, id)
		if err != nil {
			return fmt.Errorf("delete assignment: count payments: %w", err)
		}
		if n > 0 {
			return domain.ErrAssignmentInUse
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete assignment: %w", err)
		}
		s.logger.Info().Str("assignment_id", id).Msg("assignment deleted")
		return nil
	})
}

func (s *AssignmentService) owned(ctx context.Context, userID, id string) (*domain.Assignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.assignment(userID, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) detail(ctx context.Context, a *domain.Assignment) (*domain.AssignmentDetail, error) {
	details, err := s.enrich(ctx, []*domain.Assignment{a})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *AssignmentService) enrich(ctx context.Context, items []*domain.Assignment) ([]*domain.AssignmentDetail, error) {
	ids := make([]string, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.WorkerID)
	}
	workers, err := s.workers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load workers: %w", err)
	}

	out := make([]*domain.AssignmentDetail, 0, len(items))
	for _, a := range items {
		d := &domain.AssignmentDetail{Assignment: *a}
		if w, ok := workers[a.WorkerID]; ok {
			d.WorkerName = w.FullName
		}
		out = append(out, d)
	}
	return out, nil
}

func truncateDayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.TruncateDay(*t)
	return &d
}
